package upload

import (
	"github.com/bft-labs/dumpship/internal/domain"
)

// State represents the lifecycle state of a Client.
type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StateSent
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateConfigured:
		return "Configured"
	case StateSent:
		return "Sent"
	default:
		return "Unknown"
	}
}

// validTransition reports whether a client may move from one state to another.
// Init is allowed from every state; Send only from StateConfigured.
func validTransition(from, to State) error {
	switch to {
	case StateConfigured:
		return nil
	case StateSent:
		switch from {
		case StateConfigured:
			return nil
		case StateSent:
			return domain.ErrAlreadySent
		default:
			return domain.ErrNotInitialized
		}
	default:
		return domain.ErrNotInitialized
	}
}
