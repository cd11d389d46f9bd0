package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeNotification(t *testing.T) {
	tests := []struct {
		name        string
		value       []byte
		wantOp      Opcode
		wantPayload []byte
	}{
		{"key accepted", []byte{0x10, 0x01, 0x01}, OpcodeKeyAccepted, []byte{}},
		{"new key aborted", []byte{0x10, 0x01, 0x02}, OpcodeNewKeyAborted, []byte{}},
		{"random secret", []byte{0x10, 0x02, 0x01, 0xaa, 0xbb}, OpcodeRandomSecret, []byte{0xaa, 0xbb}},
		{"auth ok", []byte{0x10, 0x03, 0x01}, OpcodeAuthOK, []byte{}},
		{"key mismatch", []byte{0x10, 0x03, 0x04}, OpcodeKeyMismatch, []byte{}},
		{"unknown", []byte{0x10, 0x04, 0x01, 0x07}, OpcodeUnknown, []byte{0x07}},
		{"other prefix", []byte{0x20, 0x01, 0x01}, OpcodeUnknown, []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := DecodeNotification(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOp, n.Opcode)
			assert.Equal(t, tt.wantPayload, n.Payload)
			assert.Equal(t, tt.value[:OpcodeSize], n.Code[:])
		})
	}
}

func TestDecodeNotificationShort(t *testing.T) {
	for _, v := range [][]byte{nil, {}, {0x10}, {0x10, 0x03}} {
		_, err := DecodeNotification(v)
		assert.ErrorIs(t, err, ErrShortFrame)
	}
}

func TestEncodeNotification(t *testing.T) {
	v, err := EncodeNotification(OpcodeRandomSecret, []byte{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x10, 0x02, 0x01, 1, 2}, v)

	_, err = EncodeNotification(OpcodeUnknown, nil)
	assert.Error(t, err)
}

func TestOpcodeCodes(t *testing.T) {
	for op := OpcodeKeyAccepted; op <= OpcodeKeyMismatch; op++ {
		assert.True(t, op.IsValid(), op.String())
		code, ok := op.Code()
		require.True(t, ok)
		assert.Equal(t, op, ParseOpcode(code))
	}
	assert.False(t, OpcodeUnknown.IsValid())
	assert.Equal(t, "UNKNOWN", OpcodeUnknown.String())
}

func TestEncodeCommands(t *testing.T) {
	key := []byte{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1}

	sendKey := EncodeSendKey(key)
	assert.Equal(t, append([]byte{0x01, 0x00}, key...), sendKey)
	assert.Equal(t, CmdSendKey, CommandOf(sendKey))

	assert.Equal(t, []byte{0x02, 0x00}, EncodeRequestSecret())
	assert.Equal(t, CmdRequestSecret, CommandOf(EncodeRequestSecret()))

	enc := EncodeSendEncrypted([]byte{9, 8, 7})
	assert.Equal(t, []byte{0x03, 0x00, 9, 8, 7}, enc)
	assert.Equal(t, CmdSendEncrypted, CommandOf(enc))

	assert.Equal(t, Command(0), CommandOf(nil))
}

func TestEncodeSendKeyCopiesKey(t *testing.T) {
	key := make([]byte, 16)
	out := EncodeSendKey(key)
	key[0] = 0xff
	assert.Equal(t, byte(0), out[2])
}
