// Package toolserver is the provider side of the wire: a registry of
// named tool handlers and a serve loop that answers newline-delimited
// JSON-RPC tools/call requests, one response line per request line.
package toolserver

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ixlander/ai-mcp-agent/src/json"
	"github.com/ixlander/ai-mcp-agent/src/protocol"
)

// Logger is the printf-style logging seam used by the server.
type Logger func(format string, args ...interface{})

// Handler executes a tool against its argument mapping.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// ToolDefinition describes a tool exposed by the server.
type ToolDefinition struct {
	Name        string
	Description string
	Handler     Handler
}

// JSON-RPC error codes used on the wire.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeToolFailure    = -32000
)

// Server dispatches tool calls to registered handlers.
type Server struct {
	mu    sync.RWMutex
	tools map[string]ToolDefinition
	order []string
	log   Logger
}

// Option mutates a Server during construction.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.log = logger
		}
	}
}

// New creates an empty tool server.
func New(opts ...Option) *Server {
	s := &Server{
		tools: make(map[string]ToolDefinition),
		log:   func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterTool wires a handler into the server.
func (s *Server) RegisterTool(def ToolDefinition) error {
	if def.Name == "" {
		return errors.New("tool name is required")
	}
	if def.Handler == nil {
		return fmt.Errorf("tool %q must provide a handler", def.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tools[def.Name]; exists {
		return fmt.Errorf("tool %q already registered", def.Name)
	}
	s.tools[def.Name] = def
	s.order = append(s.order, def.Name)
	return nil
}

// MustRegisterTool registers the tool or panics on error.
func (s *Server) MustRegisterTool(def ToolDefinition) {
	if err := s.RegisterTool(def); err != nil {
		panic(err)
	}
}

// ToolNames returns the registered tool names in registration order.
func (s *Server) ToolNames() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.order...)
}

// Call executes the named tool with the provided arguments.
func (s *Server) Call(ctx context.Context, toolName string, args map[string]any) (any, error) {
	s.mu.RLock()
	def, ok := s.tools[toolName]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("tool %q not found", toolName)
	}
	if args == nil {
		args = map[string]any{}
	}
	return def.Handler(ctx, args)
}

// Serve reads request lines from r until EOF or ctx cancellation, writing
// exactly one response line per request. Requests are handled strictly in
// order; the peer relies on that for correlation.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	out := bufio.NewWriter(w)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		resp := s.handleLine(ctx, line)
		if err := writeResponse(out, resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
	return scanner.Err()
}

func (s *Server) handleLine(ctx context.Context, line string) protocol.Response {
	var req protocol.Request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		s.log("unparseable request line: %v", err)
		return protocol.NewErrorResponse(0, codeParseError, "parse error")
	}

	if req.Method != protocol.MethodToolsCall {
		return protocol.NewErrorResponse(req.ID, codeMethodNotFound,
			fmt.Sprintf("method %q not found", req.Method))
	}

	s.log("call id=%d tool=%s", req.ID, req.Params.Name)
	result, err := s.Call(ctx, req.Params.Name, req.Params.Arguments)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, codeToolFailure, err.Error())
	}

	resp, err := protocol.NewResultResponse(req.ID, result)
	if err != nil {
		return protocol.NewErrorResponse(req.ID, codeToolFailure,
			fmt.Sprintf("failed to encode result: %v", err))
	}
	return resp
}

func writeResponse(out *bufio.Writer, resp protocol.Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := out.Write(append(data, '\n')); err != nil {
		return err
	}
	return out.Flush()
}
