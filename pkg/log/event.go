package log

import (
	"time"

	"github.com/bandauth/bandauth-go/pkg/wire"
)

// MaxFrameData is the number of frame bytes kept in a FrameEvent.
// Handshake frames are at most 19 bytes; anything longer is truncated.
const MaxFrameData = 64

// Event is a protocol event. CBOR encoding uses integer keys.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// SessionID identifies one handshake attempt (UUID).
	SessionID string `cbor:"2,keyasint"`

	// DeviceID is the transport object path of the band.
	DeviceID string `cbor:"3,keyasint,omitempty"`

	// Direction of a frame. DirectionNone for non-frame events.
	Direction Direction `cbor:"4,keyasint"`

	// Category classifies the event.
	Category Category `cbor:"5,keyasint"`

	// Exactly one of these is set.
	Frame       *FrameEvent       `cbor:"6,keyasint,omitempty"`
	StateChange *StateChangeEvent `cbor:"7,keyasint,omitempty"`
	Completion  *CompletionEvent  `cbor:"8,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"9,keyasint,omitempty"`
}

// Direction indicates frame flow relative to the agent.
type Direction uint8

const (
	// DirectionNone is used for events that are not frames.
	DirectionNone Direction = 0
	// DirectionIn is a notification from the band.
	DirectionIn Direction = 1
	// DirectionOut is a write to the band.
	DirectionOut Direction = 2
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionNone:
		return "-"
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryFrame is a raw characteristic frame.
	CategoryFrame Category = 0
	// CategoryState is a session state transition.
	CategoryState Category = 1
	// CategoryCompletion is a terminal session outcome.
	CategoryCompletion Category = 2
	// CategoryError is a non-fatal or fatal error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryFrame:
		return "FRAME"
	case CategoryState:
		return "STATE"
	case CategoryCompletion:
		return "COMPLETION"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// FrameEvent captures bytes written to or notified by the characteristic.
type FrameEvent struct {
	// Size is the full frame size in bytes.
	Size int `cbor:"1,keyasint"`

	// Data is the frame, truncated to MaxFrameData.
	Data []byte `cbor:"2,keyasint,omitempty"`

	// Truncated indicates Data is shorter than Size.
	Truncated bool `cbor:"3,keyasint,omitempty"`

	// Opcode of an inbound notification.
	Opcode *wire.Opcode `cbor:"4,keyasint,omitempty"`

	// Command of an outbound write.
	Command *wire.Command `cbor:"5,keyasint,omitempty"`
}

// NewFrameEvent builds a FrameEvent from raw bytes, copying and truncating
// them as needed.
func NewFrameEvent(data []byte) *FrameEvent {
	f := &FrameEvent{Size: len(data)}
	n := len(data)
	if n > MaxFrameData {
		n = MaxFrameData
		f.Truncated = true
	}
	f.Data = append([]byte(nil), data[:n]...)
	return f
}

// Kind returns the opcode or command name of the frame, if known.
func (f *FrameEvent) Kind() string {
	switch {
	case f.Opcode != nil:
		return f.Opcode.String()
	case f.Command != nil:
		return f.Command.String()
	default:
		return ""
	}
}

// StateChangeEvent captures a session state transition.
type StateChangeEvent struct {
	OldState string `cbor:"1,keyasint,omitempty"`
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (opcode name, lifecycle event, ...).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// CompletionEvent captures how a session ended.
type CompletionEvent struct {
	// Status is the terminal status name.
	Status string `cbor:"1,keyasint"`

	// Error is the transport error message, if any.
	Error string `cbor:"2,keyasint,omitempty"`

	// KeyResets counts key re-sends after mismatches.
	KeyResets int `cbor:"3,keyasint,omitempty"`

	// Duration from Start to completion, in nanoseconds.
	Duration time.Duration `cbor:"4,keyasint,omitempty"`
}

// ErrorEventData captures an error.
type ErrorEventData struct {
	// Message is the error message.
	Message string `cbor:"1,keyasint"`

	// Context describes what was being done.
	Context string `cbor:"2,keyasint,omitempty"`

	// Fatal is set when the error ended the session.
	Fatal bool `cbor:"3,keyasint,omitempty"`
}
