package protocol

import (
	"github.com/ixlander/ai-mcp-agent/src/json"
)

const (
	// JSONRPCVersion is the protocol version stamped on every frame.
	JSONRPCVersion = "2.0"

	// MethodToolsCall is the only method the agent issues.
	MethodToolsCall = "tools/call"
)

// CallParams carries the tool name and its argument mapping.
type CallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Request is a single newline-delimited JSON-RPC request frame.
type Request struct {
	JSONRPC string     `json:"jsonrpc"`
	ID      int        `json:"id"`
	Method  string     `json:"method"`
	Params  CallParams `json:"params"`
}

// NewCallRequest builds a tools/call request with the given correlation id.
func NewCallRequest(id int, tool string, args map[string]any) Request {
	if args == nil {
		args = map[string]any{}
	}
	return Request{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Method:  MethodToolsCall,
		Params:  CallParams{Name: tool, Arguments: args},
	}
}

// RPCError is the error member of a response frame.
type RPCError struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Response is a single response frame. Exactly one of Result and Error is
// set; Result stays raw so callers decide how to decode it.
type Response struct {
	JSONRPC string          `json:"jsonrpc,omitempty"`
	ID      int             `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// NewResultResponse builds a success response echoing the request id.
func NewResultResponse(id int, result any) (Response, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return Response{}, err
	}
	return Response{JSONRPC: JSONRPCVersion, ID: id, Result: raw}, nil
}

// NewErrorResponse builds a failure response echoing the request id.
func NewErrorResponse(id int, code int, message string) Response {
	return Response{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	}
}
