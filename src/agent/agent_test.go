package agent

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ixlander/ai-mcp-agent/src/catalog"
	"github.com/ixlander/ai-mcp-agent/src/protocol"
	"github.com/ixlander/ai-mcp-agent/src/toolserver"
	"github.com/ixlander/ai-mcp-agent/src/transports/stdio"
)

type mockCaller struct {
	lastTool string
	lastArgs map[string]any
	result   any
	err      error
}

func (m *mockCaller) CallTool(_ context.Context, tool string, args map[string]any) (any, error) {
	m.lastTool = tool
	m.lastArgs = args
	return m.result, m.err
}

func TestProcessQueryRendersProducts(t *testing.T) {
	mock := &mockCaller{result: map[string]any{"products": []any{}, "total": 0}}
	ag := New(mock)

	out, err := ag.ProcessQuery(context.Background(), "show products")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if mock.lastTool != "list_products" {
		t.Fatalf("tool = %q", mock.lastTool)
	}
	if !strings.HasPrefix(out, "Products:") || !strings.Contains(out, `"products":[]`) {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestProcessQueryRendersCalculation(t *testing.T) {
	mock := &mockCaller{result: "15% of 50000 = 7500"}
	ag := New(mock)

	out, err := ag.ProcessQuery(context.Background(), "Посчитай скидку 15% от 50000")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if mock.lastTool != "calculator" {
		t.Fatalf("tool = %q", mock.lastTool)
	}
	if out != "Calculation: 15% of 50000 = 7500" {
		t.Fatalf("unexpected rendering: %q", out)
	}
}

func TestProcessQueryNoToolSkipsProvider(t *testing.T) {
	mock := &mockCaller{err: errors.New("must not be called")}
	ag := New(mock)

	out, err := ag.ProcessQuery(context.Background(), "Привет!")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if mock.lastTool != "" {
		t.Fatalf("provider was called with %q", mock.lastTool)
	}
	if out == "" {
		t.Fatal("expected a fallback message")
	}
}

func TestProcessQueryToolErrorBecomesText(t *testing.T) {
	mock := &mockCaller{err: &protocol.ToolError{Message: "Product with ID 1 not found"}}
	ag := New(mock)

	out, err := ag.ProcessQuery(context.Background(), "Найди товар с ID 1")
	if err != nil {
		t.Fatalf("a tool error must not fail the query: %v", err)
	}
	if !strings.Contains(out, "Product with ID 1 not found") {
		t.Fatalf("provider message not surfaced verbatim: %q", out)
	}
}

func TestProcessQueryProtocolErrorFails(t *testing.T) {
	mock := &mockCaller{err: protocol.NewProtocolError("no response", nil)}
	ag := New(mock)

	if _, err := ag.ProcessQuery(context.Background(), "show products"); !protocol.IsProtocolError(err) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
}

// newPipedAgent connects a real agent to the real tool server over
// in-memory pipes, with an empty catalog behind it.
func newPipedAgent(t *testing.T) *Agent {
	t.Helper()

	store := catalog.NewStore(filepath.Join(t.TempDir(), "products.json"))
	if err := store.Load(); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	srv := toolserver.New()
	toolserver.RegisterCatalogTools(srv, store)
	toolserver.RegisterLocalTools(srv)

	serverIn, clientOut := io.Pipe()
	clientIn, serverOut := io.Pipe()
	t.Cleanup(func() {
		serverIn.Close()
		clientOut.Close()
		clientIn.Close()
		serverOut.Close()
	})

	go srv.Serve(context.Background(), serverIn, serverOut)

	transport := stdio.NewStdioTransport(clientOut, clientIn)
	return New(transport)
}

func TestEndToEndListProducts(t *testing.T) {
	ag := newPipedAgent(t)

	out, err := ag.ProcessQuery(context.Background(), "show products")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !strings.HasPrefix(out, "Products:") {
		t.Fatalf("unexpected rendering: %q", out)
	}
	if !strings.Contains(out, `"products":[]`) || !strings.Contains(out, `"total":0`) {
		t.Fatalf("expected empty listing, got %q", out)
	}
}

func TestEndToEndProductNotFound(t *testing.T) {
	ag := newPipedAgent(t)

	out, err := ag.ProcessQuery(context.Background(), "find product id 1")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !strings.Contains(out, "Product with ID 1 not found") {
		t.Fatalf("failure message not surfaced verbatim: %q", out)
	}
}

func TestEndToEndCalculator(t *testing.T) {
	ag := newPipedAgent(t)

	out, err := ag.ProcessQuery(context.Background(), "Посчитай скидку 15% от 50000")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if !strings.Contains(out, "7500") {
		t.Fatalf("unexpected calculation: %q", out)
	}
}
