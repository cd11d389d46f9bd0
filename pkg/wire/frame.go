package wire

import (
	"errors"
	"fmt"
)

// ErrShortFrame is returned when a notification is too short to carry an opcode.
var ErrShortFrame = errors.New("notification shorter than opcode")

// Notification is a decoded inbound notification.
type Notification struct {
	// Opcode is the decoded message type (OpcodeUnknown if not recognized).
	Opcode Opcode

	// Code is the raw 3-byte prefix, kept for diagnostics on unknown codes.
	Code [OpcodeSize]byte

	// Payload is everything after the opcode. It aliases the input value.
	Payload []byte
}

// DecodeNotification splits a characteristic value into opcode and payload.
// Unrecognized codes are not an error; they decode to OpcodeUnknown.
func DecodeNotification(value []byte) (Notification, error) {
	if len(value) < OpcodeSize {
		return Notification{}, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(value))
	}

	var n Notification
	copy(n.Code[:], value[:OpcodeSize])
	n.Opcode = ParseOpcode(n.Code)
	n.Payload = value[OpcodeSize:]
	return n, nil
}

// EncodeNotification builds a notification value. Used by tests and device
// simulators; the agent itself never sends notifications.
func EncodeNotification(op Opcode, payload []byte) ([]byte, error) {
	code, ok := op.Code()
	if !ok {
		return nil, fmt.Errorf("cannot encode opcode %s", op)
	}
	out := make([]byte, 0, OpcodeSize+len(payload))
	out = append(out, code[:]...)
	return append(out, payload...), nil
}
