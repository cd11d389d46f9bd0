package auth

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/bandauth/bandauth-go/pkg/blockcipher"
)

// KeySize is the size of the shared band key.
const KeySize = blockcipher.KeySize

// Key is the 128-bit secret shared with the band.
type Key [KeySize]byte

// ParseKey parses a hex-encoded key (32 hex digits, optional 0x prefix).
func ParseKey(s string) (Key, error) {
	var k Key
	s = strings.TrimPrefix(strings.TrimSpace(s), "0x")
	b, err := hex.DecodeString(s)
	if err != nil {
		return k, fmt.Errorf("parse key: %w", err)
	}
	if len(b) != KeySize {
		return k, fmt.Errorf("parse key: %w: got %d bytes", blockcipher.ErrInvalidKeySize, len(b))
	}
	copy(k[:], b)
	return k, nil
}

// String returns the key as hex.
func (k Key) String() string {
	return hex.EncodeToString(k[:])
}

// KeyResetOption controls when the session (re)sends its key to the band.
type KeyResetOption uint8

const (
	// AlwaysSendKey sends the key first, before requesting a secret.
	AlwaysSendKey KeyResetOption = iota + 1

	// ResetOnMismatch requests a secret first and sends the key only when
	// the band reports a mismatch.
	ResetOnMismatch

	// Never does not send the key; a mismatch ends the session.
	Never
)

// String returns the option name as used in configuration files.
func (o KeyResetOption) String() string {
	switch o {
	case AlwaysSendKey:
		return "always"
	case ResetOnMismatch:
		return "on-mismatch"
	case Never:
		return "never"
	default:
		return "unknown"
	}
}

// ParseKeyResetOption parses the configuration name of an option.
func ParseKeyResetOption(s string) (KeyResetOption, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always", "yes":
		return AlwaysSendKey, nil
	case "on-mismatch", "on_mismatch", "on_key_mismatch":
		return ResetOnMismatch, nil
	case "never", "no":
		return Never, nil
	default:
		return 0, fmt.Errorf("unknown key reset option %q", s)
	}
}

// Policy is the immutable authentication policy of a session.
type Policy struct {
	Key         Key
	ResetOption KeyResetOption
}

// DefaultPolicy returns the factory policy: key 00..01, reset on mismatch.
func DefaultPolicy() Policy {
	var k Key
	k[KeySize-1] = 0x01
	return Policy{Key: k, ResetOption: ResetOnMismatch}
}
