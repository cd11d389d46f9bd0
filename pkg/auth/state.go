package auth

// State is the handshake state of a session.
type State uint8

const (
	StateIdle State = iota
	StateStarted
	StateKeySent
	StateSecretRequested
	StateRandReceived
	StateEncryptedSent
	StateCompleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStarted:
		return "STARTED"
	case StateKeySent:
		return "KEY_SENT"
	case StateSecretRequested:
		return "SECRET_REQUESTED"
	case StateRandReceived:
		return "RAND_RECEIVED"
	case StateEncryptedSent:
		return "ENCRYPTED_SENT"
	case StateCompleted:
		return "COMPLETED"
	default:
		return "UNKNOWN"
	}
}
