package wolfram

import (
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned by every operation of a Client after Close.
	ErrClosed = errors.New("wolfram: client is closed")

	// ErrInvalidArgument is returned when a required argument is missing.
	ErrInvalidArgument = errors.New("wolfram: invalid argument")
)

// APIError represents an HTTP error response from the Wolfram|Alpha web API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wolfram API error %d: %s", e.StatusCode, e.Message)
}

// TransportError reports a socket-level failure of the results stream:
// a failed dial, an abnormal close or a broken read/write.
type TransportError struct {
	Op  string // "dial", "write", "read" or "close"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("wolfram stream %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ProtocolError reports a frame that could not be understood: malformed JSON
// or a payload missing fields its type requires.
type ProtocolError struct {
	FrameType string // empty when the envelope itself could not be read
	Err       error
}

func (e *ProtocolError) Error() string {
	if e.FrameType == "" {
		return fmt.Sprintf("wolfram protocol: %v", e.Err)
	}
	return fmt.Sprintf("wolfram protocol: %q frame: %v", e.FrameType, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}
