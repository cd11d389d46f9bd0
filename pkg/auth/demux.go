package auth

import (
	"encoding/hex"

	"github.com/bandauth/bandauth-go/pkg/blockcipher"
	"github.com/bandauth/bandauth-go/pkg/log"
	"github.com/bandauth/bandauth-go/pkg/wire"
)

// handleNotification decodes a characteristic value and dispatches it.
// Malformed frames and unknown opcodes are logged and ignored.
func (s *Session) handleNotification(value []byte) {
	if s.IsDone() {
		s.debugLog("<- notification after completion dropped", "data", hex.EncodeToString(value))
		s.metrics.RecordIgnoredFrame(ignoredAfterCompletion)
		return
	}

	n, err := wire.DecodeNotification(value)
	if err != nil {
		s.logFrame(log.DirectionIn, value, nil, nil)
		s.logError(err, "decode", false)
		s.debugLog("<- malformed notification", "error", err)
		s.metrics.RecordIgnoredFrame(ignoredShortFrame)
		return
	}
	op := n.Opcode
	s.logFrame(log.DirectionIn, value, &op, nil)

	switch n.Opcode {
	case wire.OpcodeKeyAccepted:
		s.debugLog("<- new key accepted")
		s.requestSecret(n.Opcode.String())

	case wire.OpcodeRandomSecret:
		s.debugLog("<- random secret received")
		s.onRandomSecret(n.Payload)

	case wire.OpcodeAuthOK:
		s.debugLog("<- encrypted secret confirmed")
		s.complete(Result{Status: StatusOK})

	case wire.OpcodeNewKeyAborted:
		s.debugLog("<- new key confirmation aborted")
		s.complete(Result{Status: StatusNewKeyAborted})

	case wire.OpcodeKeyMismatch:
		s.onKeyMismatch()

	case wire.OpcodeUnknown:
		s.debugLog("<- unknown notification",
			"code", hex.EncodeToString(n.Code[:]),
			"payload", hex.EncodeToString(n.Payload))
		s.metrics.RecordIgnoredFrame(ignoredUnknownOpcode)
	}
}

func (s *Session) onRandomSecret(secret []byte) {
	ciphertext, err := blockcipher.Encrypt(s.policy.Key[:], secret)
	if err != nil {
		s.logError(err, "encrypt secret", false)
		s.debugLog("<- unusable random secret", "error", err, "size", len(secret))
		s.metrics.RecordIgnoredFrame(ignoredBadSecret)
		return
	}
	s.transition(StateRandReceived, wire.OpcodeRandomSecret.String())
	s.sendEncrypted(ciphertext)
}

func (s *Session) onKeyMismatch() {
	if s.logger != nil {
		s.logger.Warn("<- key mismatch", "device", s.deviceID)
	}
	if s.policy.ResetOption != ResetOnMismatch {
		s.complete(Result{Status: StatusKeyMismatch})
		return
	}

	s.keyResets++
	s.metrics.RecordKeyReset()
	s.infoLog("trying to reset the key", "attempt", s.keyResets)
	s.sendKey(wire.OpcodeKeyMismatch.String())
}
