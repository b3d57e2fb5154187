// Package errors provides centralized error definitions and error handling
// utilities for the Fonny codebase. It defines domain-specific errors,
// sentinel errors, and error constructors with context wrapping.
//
// # Error Types
//
// Domain-specific errors represent errors from specific subsystems:
//   - TransportError: errors from the serial/pty transport layer
//   - SinkError: errors from an event sink while recording an event
//
// # Usage
//
// Creating errors:
//
//	err := errors.NewTransportError("connect", "/dev/ttyACM0", baseErr)
//	err := errors.NewSinkError("sqlite", baseErr)
//
// Checking errors:
//
//	if errors.Is(err, errors.ErrNotConfigured) { ... }
//
//	var terr *errors.TransportError
//	if errors.As(err, &terr) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Transport-related sentinel errors
var (
	// ErrNotConfigured indicates that no transport has been set on the engine.
	ErrNotConfigured = New("no transport configured")
	// ErrNotConnected indicates that the transport is not connected.
	ErrNotConnected = New("transport not connected")
	// ErrAlreadyConnected indicates that the transport is already connected.
	ErrAlreadyConnected = New("transport already connected")
	// ErrPortClosed indicates that the underlying port was closed mid-operation.
	ErrPortClosed = New("port closed")
)

// Archive-related sentinel errors
var (
	// ErrSinkClosed indicates that a sink received an event after Close.
	ErrSinkClosed = New("sink closed")
	// ErrEventNotFound indicates that no matching event exists in the archive.
	ErrEventNotFound = New("event not found")
)

// TransportError represents an error from the transport layer.
// It carries the operation that failed and the endpoint it was
// addressed to (serial device path or subprocess command line).
type TransportError struct {
	// Op is the operation that failed: "connect", "send", "disconnect", "read".
	Op string
	// Endpoint identifies the device or process the transport talks to.
	Endpoint string
	// Err is the underlying error.
	Err error
}

// NewTransportError creates a TransportError wrapping the given error.
func NewTransportError(op, endpoint string, err error) *TransportError {
	return &TransportError{Op: op, Endpoint: endpoint, Err: err}
}

// Error returns the error message.
func (e *TransportError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("transport %s %s: %v", e.Op, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("transport %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

// SinkError represents a failure inside an event sink during Record.
// The router isolates these per sink; they surface to callers only when
// the failing record was itself an error notification.
type SinkError struct {
	// Sink names the sink implementation that failed.
	Sink string
	// Err is the underlying error.
	Err error
}

// NewSinkError creates a SinkError wrapping the given error.
func NewSinkError(sink string, err error) *SinkError {
	return &SinkError{Sink: sink, Err: err}
}

// Error returns the error message.
func (e *SinkError) Error() string {
	return fmt.Sprintf("sink %s: %v", e.Sink, e.Err)
}

// Unwrap returns the underlying error.
func (e *SinkError) Unwrap() error { return e.Err }
