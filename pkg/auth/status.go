package auth

import (
	"errors"
	"fmt"
	"time"
)

// Auth errors.
var (
	ErrSessionStarted   = errors.New("session already started")
	ErrSessionCompleted = errors.New("session completed")
	ErrRegistryRunning  = errors.New("registry already running")
	ErrRegistryStopped  = errors.New("registry stopped")
)

// Status is the terminal outcome of a session.
type Status uint8

const (
	// StatusOK means the band accepted the encrypted secret.
	StatusOK Status = iota + 1

	// StatusTimedOut means the link dropped before the handshake finished.
	StatusTimedOut

	// StatusNewKeyAborted means the user did not confirm the new key on the band.
	StatusNewKeyAborted

	// StatusKeyMismatch means the band holds a different key and the policy
	// does not allow resetting it.
	StatusKeyMismatch

	// StatusTransportError means subscribing or writing failed.
	StatusTransportError

	// StatusCancelled means the registry shut down with the session in flight.
	StatusCancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusTimedOut:
		return "TIMED_OUT"
	case StatusNewKeyAborted:
		return "NEW_KEY_ABORTED"
	case StatusKeyMismatch:
		return "KEY_MISMATCH"
	case StatusTransportError:
		return "TRANSPORT_ERROR"
	case StatusCancelled:
		return "CANCELLED"
	default:
		return "UNKNOWN"
	}
}

// Result is delivered to completion hooks.
type Result struct {
	Status Status

	// Err is a *TransportError when Status is StatusTransportError.
	Err error

	// KeyResets counts how many times the key was re-sent after a mismatch.
	KeyResets int

	// Duration from Start to completion. Zero if the session never started.
	Duration time.Duration
}

// TransportError wraps a failure of the characteristic transport.
type TransportError struct {
	// Op is the operation that failed (e.g. "start notify", "write SEND_KEY").
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// CompletionFunc receives the outcome of a session.
type CompletionFunc func(deviceID string, res Result)
