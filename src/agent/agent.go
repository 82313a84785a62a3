// Package agent glues the pieces together: a query is routed to a tool
// call, the call goes to the provider over the transport, and the result
// is rendered as conversational text.
package agent

import (
	"context"
	"fmt"

	"github.com/spf13/cast"

	"github.com/ixlander/ai-mcp-agent/src/json"
	"github.com/ixlander/ai-mcp-agent/src/protocol"
	"github.com/ixlander/ai-mcp-agent/src/router"
)

// Logger is the printf-style logging seam used by the agent.
type Logger func(format string, args ...interface{})

// ToolCaller is the capability the agent needs from the transport layer.
type ToolCaller interface {
	CallTool(ctx context.Context, tool string, args map[string]any) (any, error)
}

// Agent processes user queries.
type Agent struct {
	router *router.Router
	client ToolCaller
	log    Logger
}

// Option mutates an Agent during construction.
type Option func(*Agent)

// WithLogger sets the agent logger.
func WithLogger(logger Logger) Option {
	return func(a *Agent) {
		if logger != nil {
			a.log = logger
		}
	}
}

// WithRouter overrides the default rule table.
func WithRouter(r *router.Router) Option {
	return func(a *Agent) {
		if r != nil {
			a.router = r
		}
	}
}

// New creates an agent speaking to the given tool provider.
func New(client ToolCaller, opts ...Option) *Agent {
	a := &Agent{
		router: router.New(),
		client: client,
		log:    func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ProcessQuery routes the query and, when a tool was selected, performs
// the call and renders its result.
//
// A ToolError from the provider is part of the conversation and comes back
// as text. A ProtocolError is a hard failure and is returned as an error;
// the call is never retried, since the provider may already have executed
// a side-effecting tool.
func (a *Agent) ProcessQuery(ctx context.Context, query string) (string, error) {
	a.log("processing query: %s", query)

	outcome := a.router.Route(query)
	if !outcome.IsCall() {
		return outcome.Message, nil
	}

	result, err := a.client.CallTool(ctx, outcome.Call.Tool, outcome.Call.Arguments)
	if err != nil {
		if te, ok := protocol.AsToolError(err); ok {
			a.log("tool error: %s", te.Message)
			return fmt.Sprintf("Error: %s", te.Message), nil
		}
		return "", err
	}

	return renderResult(outcome.Call, result), nil
}

// renderResult formats a tool result the way the conversation expects.
func renderResult(call *router.ToolCall, result any) string {
	switch call.Tool {
	case "list_products":
		if category := cast.ToString(call.Arguments["category"]); category != "" {
			return fmt.Sprintf("Products in %s: %s", category, compactJSON(result))
		}
		return fmt.Sprintf("Products: %s", compactJSON(result))
	case "get_statistics":
		return fmt.Sprintf("Statistics: %s", compactJSON(result))
	case "get_product":
		return fmt.Sprintf("Product %v: %s", call.Arguments["product_id"], compactJSON(result))
	case "calculator":
		return fmt.Sprintf("Calculation: %s", cast.ToString(result))
	default:
		return compactJSON(result)
	}
}

func compactJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
