package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent error conditions in the upload pipeline.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNotInitialized is returned when Send is called before Init.
	ErrNotInitialized = errors.New("dumpship: client not initialized")

	// ErrAlreadySent is returned when Send is called twice without a new Init.
	ErrAlreadySent = errors.New("dumpship: request already sent")

	// ErrFileRead is returned by file readers when a payload could not be read.
	// Uploads treat it as an empty file, not as a failure.
	ErrFileRead = errors.New("dumpship: file read failed")

	// ErrCompression is returned when the request body could not be compressed.
	ErrCompression = errors.New("dumpship: compression failed")

	// ErrInsufficientSpace is returned when compressed output exceeds the
	// capacity of its destination buffer.
	ErrInsufficientSpace = errors.New("dumpship: insufficient output space")

	// ErrTransport is returned when the request could not be delivered or the
	// server rejected it.
	ErrTransport = errors.New("dumpship: transport failed")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("dumpship: invalid configuration")
)

// TransportError carries the non-zero code reported by a transport.
type TransportError struct {
	// Code is the transport error code. HTTP transports use the status code,
	// or CodeNoResponse when no response arrived.
	Code int

	// Err is the underlying cause, if any.
	Err error
}

// CodeNoResponse is reported when a request failed before a response arrived.
const CodeNoResponse = -1

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error %d: %v", e.Code, e.Err)
	}
	return fmt.Sprintf("transport error %d", e.Code)
}

// Unwrap returns the underlying cause.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is reports ErrTransport as a match so callers can use errors.Is.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}
