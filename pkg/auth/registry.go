package auth

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// SessionProvider creates a session for a device that connected without a
// pre-registered session. It returns nil for devices that are not supported.
// Providers run on the registry loop; a slow provider delays every device.
type SessionProvider func(deviceID string) *Session

// RegistryConfig configures a Registry.
type RegistryConfig struct {
	// Provider is the initial default provider. Optional.
	Provider SessionProvider

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// Metrics is optional.
	Metrics *Metrics
}

// Registry tracks sessions with a handshake pending and routes connection
// lifecycle events to them.
//
// Run owns all registry state. Every other method posts a message to Run's
// loop and returns immediately; messages posted before Run starts are
// processed once it does.
type Registry struct {
	mailbox *mailbox
	running atomic.Bool
	done    chan struct{}

	// Owned by the Run loop.
	pending  map[string]*Session
	provider SessionProvider
	stopping bool

	logger  *slog.Logger
	metrics *Metrics
}

// NewRegistry creates a registry. Call Run to start processing.
func NewRegistry(cfg RegistryConfig) *Registry {
	return &Registry{
		mailbox:  newMailbox(),
		done:     make(chan struct{}),
		pending:  make(map[string]*Session),
		provider: cfg.Provider,
		logger:   cfg.Logger,
		metrics:  cfg.Metrics,
	}
}

// Run processes registry messages until ctx is cancelled. On exit every
// pending session completes with StatusCancelled.
func (r *Registry) Run(ctx context.Context) error {
	if r.running.Swap(true) {
		return ErrRegistryRunning
	}
	defer close(r.done)

	r.debugLog("registry started")
	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return ctx.Err()
		case <-r.mailbox.wake:
			if ctx.Err() != nil {
				r.shutdown()
				return ctx.Err()
			}
			for _, fn := range r.mailbox.drain() {
				fn()
			}
		}
	}
}

// Done is closed when Run has returned.
func (r *Registry) Done() <-chan struct{} {
	return r.done
}

// Register adds a session for deviceID before the device connects.
func (r *Registry) Register(deviceID string, s *Session) {
	r.post(func() { r.insert(deviceID, s) })
}

// SetDefaultProvider replaces the provider used for unknown devices.
// A nil provider ignores unknown devices.
func (r *Registry) SetDefaultProvider(p SessionProvider) {
	r.post(func() { r.provider = p })
}

// Connected reports that deviceID is connected and its services resolved.
func (r *Registry) Connected(deviceID string) {
	r.post(func() { r.handleConnected(deviceID) })
}

// Disconnected reports that deviceID dropped its link.
func (r *Registry) Disconnected(deviceID string) {
	r.post(func() { r.handleDisconnected(deviceID) })
}

// Dispatch runs fn on the registry loop. Sessions use it to deliver
// transport callbacks.
func (r *Registry) Dispatch(fn func()) {
	r.post(fn)
}

// Pending returns the number of pending sessions. Unlike the other methods
// it waits for the loop to answer.
func (r *Registry) Pending(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	if !r.mailbox.post(func() { reply <- len(r.pending) }) {
		return 0, ErrRegistryStopped
	}
	select {
	case n := <-reply:
		return n, nil
	case <-r.done:
		return 0, ErrRegistryStopped
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

func (r *Registry) post(fn func()) {
	if !r.mailbox.post(fn) {
		r.debugLog("registry stopped, message dropped")
	}
}

// insert adds s to the pending map and hooks its completion. A session that
// is already in flight for deviceID is kept; an idle one is replaced.
func (r *Registry) insert(deviceID string, s *Session) bool {
	if s.IsDone() {
		r.debugLog("not registering completed session", "device", deviceID)
		return false
	}
	if old, ok := r.pending[deviceID]; ok {
		if old == s {
			return true
		}
		if old.State() != StateIdle {
			r.debugLog("handshake already in flight, registration ignored", "device", deviceID)
			return false
		}
		r.debugLog("replacing idle session", "device", deviceID)
		old.complete(Result{Status: StatusCancelled})
	}

	r.pending[deviceID] = s
	s.addHook(stageRegistry, func(string, Result) {
		if r.pending[deviceID] == s {
			delete(r.pending, deviceID)
		}
		r.metrics.SetPending(len(r.pending))
	})
	s.addHook(stageRegistry, func(_ string, res Result) {
		r.metrics.RecordCompletion(res)
	})
	r.metrics.SetPending(len(r.pending))
	return true
}

func (r *Registry) handleConnected(deviceID string) {
	if r.stopping {
		r.debugLog("registry stopping, connect ignored", "device", deviceID)
		return
	}
	s, ok := r.pending[deviceID]
	if !ok {
		if r.provider == nil {
			return
		}
		s = r.provider(deviceID)
		if s == nil {
			return
		}
		if !r.insert(deviceID, s) {
			return
		}
	}

	if s.State() != StateIdle {
		r.debugLog("duplicate connect ignored", "device", deviceID, "state", s.State().String())
		return
	}

	r.infoLog("opened", "device", deviceID)
	s.bind(r.Dispatch)
	r.metrics.RecordStart()
	if err := s.Start(); err != nil {
		r.debugLog("session start failed", "device", deviceID, "error", err)
	}
}

func (r *Registry) handleDisconnected(deviceID string) {
	s, ok := r.pending[deviceID]
	if !ok {
		return
	}
	r.infoLog("closed", "device", deviceID)
	s.complete(Result{Status: StatusTimedOut})
}

// shutdown runs on the loop goroutine when Run exits. Messages still queued
// are run so Pending callers get their reply, but no handshake is started.
func (r *Registry) shutdown() {
	r.stopping = true
	for _, fn := range r.mailbox.close() {
		fn()
	}

	sessions := make([]*Session, 0, len(r.pending))
	for _, s := range r.pending {
		sessions = append(sessions, s)
	}
	for _, s := range sessions {
		s.complete(Result{Status: StatusCancelled})
	}
	r.debugLog("registry stopped", "cancelled", len(sessions))
}

func (r *Registry) debugLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Registry) infoLog(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}
