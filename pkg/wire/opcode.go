package wire

// OpcodeSize is the length of the opcode prefix of a notification.
const OpcodeSize = 3

// Opcode identifies the meaning of an inbound notification.
type Opcode uint8

const (
	// OpcodeUnknown is any code the band protocol does not define.
	OpcodeUnknown Opcode = iota

	// OpcodeKeyAccepted (10 01 01): the band stored the new key.
	OpcodeKeyAccepted

	// OpcodeNewKeyAborted (10 01 02): the user did not confirm the new key
	// on the band in time.
	OpcodeNewKeyAborted

	// OpcodeRandomSecret (10 02 01): the payload carries the challenge.
	OpcodeRandomSecret

	// OpcodeAuthOK (10 03 01): the encrypted challenge was accepted.
	OpcodeAuthOK

	// OpcodeKeyMismatch (10 03 04): the encrypted challenge did not match
	// the key stored on the band.
	OpcodeKeyMismatch
)

var opcodeCodes = map[[OpcodeSize]byte]Opcode{
	{0x10, 0x01, 0x01}: OpcodeKeyAccepted,
	{0x10, 0x01, 0x02}: OpcodeNewKeyAborted,
	{0x10, 0x02, 0x01}: OpcodeRandomSecret,
	{0x10, 0x03, 0x01}: OpcodeAuthOK,
	{0x10, 0x03, 0x04}: OpcodeKeyMismatch,
}

// ParseOpcode maps a raw 3-byte code to an Opcode.
func ParseOpcode(code [OpcodeSize]byte) Opcode {
	if op, ok := opcodeCodes[code]; ok {
		return op
	}
	return OpcodeUnknown
}

// Code returns the raw 3-byte code for a known opcode.
// The second result is false for OpcodeUnknown.
func (o Opcode) Code() ([OpcodeSize]byte, bool) {
	for code, op := range opcodeCodes {
		if op == o {
			return code, true
		}
	}
	return [OpcodeSize]byte{}, false
}

// String returns the opcode name.
func (o Opcode) String() string {
	switch o {
	case OpcodeKeyAccepted:
		return "KEY_ACCEPTED"
	case OpcodeNewKeyAborted:
		return "NEW_KEY_ABORTED"
	case OpcodeRandomSecret:
		return "RANDOM_SECRET"
	case OpcodeAuthOK:
		return "AUTH_OK"
	case OpcodeKeyMismatch:
		return "KEY_MISMATCH"
	default:
		return "UNKNOWN"
	}
}

// IsValid returns true if the opcode is one the band protocol defines.
func (o Opcode) IsValid() bool {
	return o >= OpcodeKeyAccepted && o <= OpcodeKeyMismatch
}
