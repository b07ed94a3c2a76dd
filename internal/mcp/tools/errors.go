package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/fergun/pkg/wolfram"
)

// Error codes for MCP tool responses.
const (
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeTimeout      = "TIMEOUT"
	ErrCodeCancelled    = "CANCELLED"
	ErrCodeWolframError = "WOLFRAM_ERROR"
	ErrCodeClosed       = "CLOSED"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapWolframError converts an error returned by the wolfram client to a
// coded error.
func WrapWolframError(err error) error {
	if err == nil {
		return nil
	}

	var (
		apiErr       *wolfram.APIError
		transportErr *wolfram.TransportError
		protocolErr  *wolfram.ProtocolError
	)

	coded := &CodedError{Code: ErrCodeWolframError, Message: err.Error(), Cause: err}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		coded.Code, coded.Message = ErrCodeTimeout, "request timed out"
	case errors.Is(err, context.Canceled):
		coded.Code, coded.Message = ErrCodeCancelled, "request cancelled"
	case errors.Is(err, wolfram.ErrClosed):
		coded.Code, coded.Message = ErrCodeClosed, "client is closed"
	case errors.Is(err, wolfram.ErrInvalidArgument):
		coded.Code, coded.Message = ErrCodeInvalidInput, "invalid argument"
	case errors.As(err, &apiErr):
		coded.Message = fmt.Sprintf("HTTP %d: %s", apiErr.StatusCode, apiErr.Message)
	case errors.As(err, &transportErr):
		coded.Message = "connection to Wolfram|Alpha failed during " + transportErr.Op
	case errors.As(err, &protocolErr):
		coded.Message = "unexpected message from Wolfram|Alpha"
	}

	slog.Warn("wolfram error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
