package upload

import "time"

// EventHandler receives client events.
// Events are called synchronously from the goroutine calling Init or Send.
type EventHandler interface {
	// OnStateChange is called after every lifecycle transition.
	OnStateChange(event StateChangeEvent)

	// OnSendSuccess is called after the server accepted a request.
	OnSendSuccess(event SendSuccessEvent)

	// OnSendError is called when compression or transport failed.
	OnSendError(event SendErrorEvent)
}

// StateChangeEvent describes a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// SendSuccessEvent describes an accepted upload.
type SendSuccessEvent struct {
	// Parts is the number of fields and files in the body
	Parts int

	// BodyBytes is the size of the uncompressed multipart body
	BodyBytes int

	// SentBytes is the size of the body on the wire
	SentBytes int

	// Duration is the time spent in the transport call
	Duration time.Duration
}

// SendErrorEvent describes a failed upload.
type SendErrorEvent struct {
	Error error

	// Code is the transport code, or -1 when nothing was sent
	Code int

	// Stage is "compress" or "transport"
	Stage string
}

// BaseEventHandler implements EventHandler with no-ops.
// Embed it to handle only the events you need.
type BaseEventHandler struct{}

// OnStateChange does nothing.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// OnSendSuccess does nothing.
func (BaseEventHandler) OnSendSuccess(SendSuccessEvent) {}

// OnSendError does nothing.
func (BaseEventHandler) OnSendError(SendErrorEvent) {}
