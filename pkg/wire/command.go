package wire

// Command is the first byte of an outbound write.
type Command uint8

const (
	// CmdSendKey stores a new key on the band.
	CmdSendKey Command = 0x01

	// CmdRequestSecret asks the band for a random challenge.
	CmdRequestSecret Command = 0x02

	// CmdSendEncrypted returns the encrypted challenge.
	CmdSendEncrypted Command = 0x03
)

// sequence is the second byte of every write. The band only uses 0.
const sequence = 0x00

// String returns the command name.
func (c Command) String() string {
	switch c {
	case CmdSendKey:
		return "SEND_KEY"
	case CmdRequestSecret:
		return "REQUEST_SECRET"
	case CmdSendEncrypted:
		return "SEND_ENCRYPTED"
	default:
		return "UNKNOWN"
	}
}

func encode(cmd Command, payload []byte) []byte {
	out := make([]byte, 0, 2+len(payload))
	out = append(out, byte(cmd), sequence)
	return append(out, payload...)
}

// EncodeSendKey returns the write that stores key on the band.
func EncodeSendKey(key []byte) []byte {
	return encode(CmdSendKey, key)
}

// EncodeRequestSecret returns the write that requests a random challenge.
func EncodeRequestSecret() []byte {
	return encode(CmdRequestSecret, nil)
}

// EncodeSendEncrypted returns the write carrying the encrypted challenge.
func EncodeSendEncrypted(ciphertext []byte) []byte {
	return encode(CmdSendEncrypted, ciphertext)
}

// CommandOf returns the command of an outbound write, or 0 if value is empty.
func CommandOf(value []byte) Command {
	if len(value) == 0 {
		return 0
	}
	return Command(value[0])
}
