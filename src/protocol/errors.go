package protocol

import (
	"errors"
	"fmt"
)

// ProtocolError reports a transport or framing failure: no response,
// malformed response, timeout, mismatched correlation id. It is always a
// hard failure; callers must not retry, since the peer may already have
// executed a side-effecting tool.
type ProtocolError struct {
	Reason string
	Err    error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("protocol error: %s", e.Reason)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NewProtocolError wraps a transport failure with a short reason.
func NewProtocolError(reason string, err error) *ProtocolError {
	return &ProtocolError{Reason: reason, Err: err}
}

// ToolError is a domain failure reported by the tool provider itself, e.g.
// a missing product. The message is the provider's text verbatim and is
// safe to show to the end user.
type ToolError struct {
	Message string
}

func (e *ToolError) Error() string { return e.Message }

// IsProtocolError reports whether err is (or wraps) a ProtocolError.
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

// AsToolError returns the ToolError wrapped in err, if any.
func AsToolError(err error) (*ToolError, bool) {
	var te *ToolError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
