package stdio

import (
	"bufio"
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ixlander/ai-mcp-agent/src/json"
	"github.com/ixlander/ai-mcp-agent/src/protocol"
)

// Logger is the printf-style logging seam used by the transport.
type Logger func(format string, args ...interface{})

// DefaultCallTimeout bounds how long a call waits for a response line. A
// hung provider process would otherwise block the caller forever.
const DefaultCallTimeout = 30 * time.Second

// StdioTransport performs one-shot tool calls over an already-established
// duplex byte stream speaking newline-delimited JSON-RPC.
//
// A single mutex serializes the whole request/response exchange, so one
// transport instance is safe for concurrent callers but never has more
// than one call in flight. The request id counter is monotonic for the
// lifetime of the instance and ids are never reused, even after an error.
type StdioTransport struct {
	w *bufio.Writer
	r io.Reader

	mu      sync.Mutex
	nextID  int
	lines   chan lineEvent
	timeout time.Duration
	log     Logger
}

type lineEvent struct {
	text string
	err  error
}

// Option mutates a StdioTransport during construction.
type Option func(*StdioTransport)

// WithTimeout overrides the per-call response timeout.
func WithTimeout(d time.Duration) Option {
	return func(t *StdioTransport) {
		if d > 0 {
			t.timeout = d
		}
	}
}

// WithLogger sets the transport logger.
func WithLogger(logger Logger) Option {
	return func(t *StdioTransport) {
		if logger != nil {
			t.log = logger
		}
	}
}

// NewStdioTransport wraps the provider's input and output streams. The
// reader goroutine it starts exits when the response stream is closed.
func NewStdioTransport(w io.Writer, r io.Reader, opts ...Option) *StdioTransport {
	t := &StdioTransport{
		w:       bufio.NewWriter(w),
		r:       r,
		lines:   make(chan lineEvent, 1),
		timeout: DefaultCallTimeout,
		log:     func(string, ...interface{}) {},
	}
	for _, opt := range opts {
		opt(t)
	}
	go t.readLoop()
	return t
}

// readLoop pumps response lines into the lines channel. Blank lines
// between frames are skipped; the terminating error is delivered once.
func (t *StdioTransport) readLoop() {
	reader := bufio.NewReader(t.r)
	for {
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if err != nil {
			t.lines <- lineEvent{text: line, err: err}
			return
		}
		if line == "" {
			continue
		}
		t.lines <- lineEvent{text: line}
	}
}

// CallTool sends a single tools/call request and blocks until the
// correlated response line arrives, the timeout elapses, or ctx is done.
//
// Failures map onto the protocol error taxonomy: a closed or silent peer
// yields ProtocolError("no response"), an undecodable line yields
// ProtocolError("malformed response"), a provider-reported failure yields
// ToolError with the provider's message verbatim. Calls are never retried.
func (t *StdioTransport) CallTool(ctx context.Context, tool string, args map[string]any) (any, error) {
	if tool == "" {
		return nil, protocol.NewProtocolError("empty tool name", nil)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.nextID++
	req := protocol.NewCallRequest(t.nextID, tool, args)

	data, err := json.Marshal(req)
	if err != nil {
		return nil, protocol.NewProtocolError("marshal request", err)
	}

	t.log("-> id=%d tool=%s", req.ID, tool)
	if _, err := t.w.Write(append(data, '\n')); err != nil {
		return nil, protocol.NewProtocolError("write request", err)
	}
	// Flush so the peer observes the frame immediately.
	if err := t.w.Flush(); err != nil {
		return nil, protocol.NewProtocolError("write request", err)
	}

	timer := time.NewTimer(t.timeout)
	defer timer.Stop()

	select {
	case ev := <-t.lines:
		return t.decodeResponse(req.ID, ev)
	case <-timer.C:
		return nil, protocol.NewProtocolError("timeout", nil)
	case <-ctx.Done():
		return nil, protocol.NewProtocolError("canceled", ctx.Err())
	}
}

func (t *StdioTransport) decodeResponse(id int, ev lineEvent) (any, error) {
	if ev.text == "" {
		return nil, protocol.NewProtocolError("no response", ev.err)
	}

	var resp protocol.Response
	if err := json.Unmarshal([]byte(ev.text), &resp); err != nil {
		return nil, protocol.NewProtocolError("malformed response", err)
	}

	if resp.ID != id {
		t.log("<- id=%d does not match request id=%d", resp.ID, id)
		return nil, protocol.NewProtocolError("response id mismatch", nil)
	}
	if resp.Error != nil {
		return nil, &protocol.ToolError{Message: resp.Error.Message}
	}
	if resp.Result == nil {
		return nil, protocol.NewProtocolError("malformed response", nil)
	}

	var result any
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return nil, protocol.NewProtocolError("malformed response", err)
	}
	t.log("<- id=%d ok", id)
	return result, nil
}
