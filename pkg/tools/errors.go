package tools

import (
	"errors"
	"fmt"

	"github.com/aretw0/scout/pkg/domain"
)

// Code is a JSON-RPC error code.
type Code int

const (
	CodeInvalidParams  Code = -32602
	CodeMethodNotFound Code = -32601
	CodeInternalError  Code = -32603
)

// String returns the short name used in logs and metrics.
func (c Code) String() string {
	switch c {
	case CodeInvalidParams:
		return "invalid-params"
	case CodeMethodNotFound:
		return "method-not-found"
	case CodeInternalError:
		return "internal-error"
	}
	return fmt.Sprintf("code(%d)", int(c))
}

// ToolError is the only error shape that leaves the dispatcher.
type ToolError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *ToolError) Error() string {
	return e.Message
}

// Errorf builds a ToolError.
func Errorf(code Code, format string, args ...any) *ToolError {
	return &ToolError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Classify maps any error onto the external error shape. Only the message
// text of the underlying error is kept.
func Classify(err error) *ToolError {
	var te *ToolError
	if errors.As(err, &te) {
		return te
	}
	switch {
	case errors.Is(err, domain.ErrInvalidRequest), errors.Is(err, domain.ErrNotFound):
		return &ToolError{Code: CodeInvalidParams, Message: err.Error()}
	}
	return &ToolError{Code: CodeInternalError, Message: err.Error()}
}
