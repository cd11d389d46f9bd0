package auth

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bandauth/bandauth-go/pkg/log"
	"github.com/bandauth/bandauth-go/pkg/wire"
)

// SessionConfig configures a Session.
type SessionConfig struct {
	// Policy is the authentication policy. The zero Policy means
	// DefaultPolicy(); a zero ResetOption alone means ResetOnMismatch.
	Policy Policy

	// OnComplete is called once the session has completed and been
	// detached from the transport and the registry. Optional.
	OnComplete CompletionFunc

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger receives frame, state and completion events. Optional.
	ProtocolLogger log.Logger

	// Metrics is optional.
	Metrics *Metrics
}

// Session drives the handshake with one band.
//
// Once started, a session must only be driven from a single goroutine
// (the registry loop). State and IsDone may be called from anywhere.
type Session struct {
	id       string
	deviceID string
	policy   Policy
	char     Characteristic

	mu    sync.Mutex
	state State

	subscribed bool
	startedAt  time.Time
	keyResets  int
	hooks      hookList

	// exec runs fn on the goroutine that owns the session. Inline if nil.
	exec func(fn func())

	logger      *slog.Logger
	protoLogger log.Logger
	metrics     *Metrics
}

// NewSession creates an idle session for deviceID talking through char.
func NewSession(deviceID string, char Characteristic, cfg SessionConfig) *Session {
	policy := cfg.Policy
	switch {
	case policy == (Policy{}):
		policy = DefaultPolicy()
	case policy.ResetOption == 0:
		policy.ResetOption = ResetOnMismatch
	}
	protoLogger := cfg.ProtocolLogger
	if protoLogger == nil {
		protoLogger = log.NoopLogger{}
	}

	s := &Session{
		id:          uuid.NewString(),
		deviceID:    deviceID,
		policy:      policy,
		char:        char,
		state:       StateIdle,
		logger:      cfg.Logger,
		protoLogger: protoLogger,
		metrics:     cfg.Metrics,
	}

	s.hooks.add(stageTeardown, func(string, Result) { s.Stop() })
	s.hooks.add(stageCaller, cfg.OnComplete)
	return s
}

// ID returns the unique id of this handshake attempt.
func (s *Session) ID() string {
	return s.id
}

// DeviceID returns the device the session authenticates.
func (s *Session) DeviceID() string {
	return s.deviceID
}

// Policy returns the session policy.
func (s *Session) Policy() Policy {
	return s.policy
}

// State returns the current handshake state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// IsDone returns true once the session has completed.
func (s *Session) IsDone() bool {
	return s.State() == StateCompleted
}

// Start subscribes to notifications and issues the first write.
// It returns ErrSessionStarted or ErrSessionCompleted when called twice.
// Transport failures do not surface here; they complete the session with
// StatusTransportError.
func (s *Session) Start() error {
	switch s.State() {
	case StateIdle:
	case StateCompleted:
		return ErrSessionCompleted
	default:
		return ErrSessionStarted
	}

	s.infoLog("session started")
	s.startedAt = time.Now()
	s.transition(StateStarted, "start")

	onValue := func(value []byte) {
		value = append([]byte(nil), value...)
		s.run(func() { s.handleNotification(value) })
	}
	onError := func(err error) {
		s.run(func() { s.fail("notify", err) })
	}
	if err := s.char.StartNotify(onValue, onError); err != nil {
		s.fail("start notify", err)
		return nil
	}
	s.subscribed = true

	if s.policy.ResetOption == AlwaysSendKey {
		s.sendKey("start")
	} else {
		s.requestSecret("start")
	}
	return nil
}

// Stop cancels the notification subscription. Safe to call repeatedly.
func (s *Session) Stop() {
	if !s.subscribed {
		return
	}
	s.subscribed = false
	s.infoLog("session finished")
	if err := s.char.StopNotify(); err != nil {
		s.debugLog("stop notify failed", "error", err)
	}
}

// bind makes the session execute transport callbacks through exec.
func (s *Session) bind(exec func(fn func())) {
	s.exec = exec
}

// addHook registers a completion hook at the given stage.
func (s *Session) addHook(stage hookStage, fn CompletionFunc) {
	s.hooks.add(stage, fn)
}

func (s *Session) run(fn func()) {
	if s.exec != nil {
		s.exec(fn)
		return
	}
	fn()
}

func (s *Session) sendKey(reason string) {
	s.debugLog("-> sending a new key")
	s.transition(StateKeySent, reason)
	s.write(wire.EncodeSendKey(s.policy.Key[:]))
}

func (s *Session) requestSecret(reason string) {
	s.debugLog("-> requesting a random secret")
	s.transition(StateSecretRequested, reason)
	s.write(wire.EncodeRequestSecret())
}

func (s *Session) sendEncrypted(ciphertext []byte) {
	s.debugLog("-> sending the encrypted secret")
	s.transition(StateEncryptedSent, wire.OpcodeRandomSecret.String())
	s.write(wire.EncodeSendEncrypted(ciphertext))
}

// write issues value and fails the session if the transport rejects it.
func (s *Session) write(value []byte) {
	if s.IsDone() {
		return
	}
	cmd := wire.CommandOf(value)
	s.logFrame(log.DirectionOut, value, nil, &cmd)
	if err := s.char.WriteValue(value); err != nil {
		s.fail("write "+cmd.String(), err)
	}
}

// transition moves to next unless the session has completed.
func (s *Session) transition(next State, reason string) {
	s.mu.Lock()
	prev := s.state
	if prev == StateCompleted {
		s.mu.Unlock()
		return
	}
	s.state = next
	s.mu.Unlock()

	s.protoLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		DeviceID:  s.deviceID,
		Category:  log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: prev.String(),
			NewState: next.String(),
			Reason:   reason,
		},
	})
}

// fail completes the session with a transport error.
func (s *Session) fail(op string, err error) {
	if s.IsDone() {
		s.debugLog("transport error after completion", "op", op, "error", err)
		return
	}
	terr := &TransportError{Op: op, Err: err}
	s.logError(terr, "transport", true)
	s.complete(Result{Status: StatusTransportError, Err: terr})
}

// complete moves to COMPLETED and runs the hooks. Only the first call has
// any effect.
func (s *Session) complete(res Result) {
	s.mu.Lock()
	prev := s.state
	if prev == StateCompleted {
		s.mu.Unlock()
		return
	}
	s.state = StateCompleted
	s.mu.Unlock()

	res.KeyResets = s.keyResets
	if !s.startedAt.IsZero() {
		res.Duration = time.Since(s.startedAt)
	}

	s.debugLog("session completed", "status", res.Status.String())

	now := time.Now()
	s.protoLogger.Log(log.Event{
		Timestamp:   now,
		SessionID:   s.id,
		DeviceID:    s.deviceID,
		Category:    log.CategoryState,
		StateChange: &log.StateChangeEvent{OldState: prev.String(), NewState: StateCompleted.String(), Reason: res.Status.String()},
	})
	completion := &log.CompletionEvent{
		Status:    res.Status.String(),
		KeyResets: res.KeyResets,
		Duration:  res.Duration,
	}
	if res.Err != nil {
		completion.Error = res.Err.Error()
	}
	s.protoLogger.Log(log.Event{
		Timestamp:  now,
		SessionID:  s.id,
		DeviceID:   s.deviceID,
		Category:   log.CategoryCompletion,
		Completion: completion,
	})

	s.hooks.run(s.deviceID, res)
}

func (s *Session) logFrame(dir log.Direction, value []byte, op *wire.Opcode, cmd *wire.Command) {
	frame := log.NewFrameEvent(value)
	frame.Opcode = op
	frame.Command = cmd
	s.protoLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		DeviceID:  s.deviceID,
		Direction: dir,
		Category:  log.CategoryFrame,
		Frame:     frame,
	})
}

func (s *Session) logError(err error, context string, fatal bool) {
	s.protoLogger.Log(log.Event{
		Timestamp: time.Now(),
		SessionID: s.id,
		DeviceID:  s.deviceID,
		Category:  log.CategoryError,
		Error: &log.ErrorEventData{
			Message: err.Error(),
			Context: context,
			Fatal:   fatal,
		},
	})
}

func (s *Session) debugLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, append([]any{"device", s.deviceID}, args...)...)
	}
}

func (s *Session) infoLog(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Info(msg, append([]any{"device", s.deviceID}, args...)...)
	}
}
