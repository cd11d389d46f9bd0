// Package agent runs the band authentication agent: it watches BlueZ for
// bands whose services resolved and authenticates every supported one.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/bandauth/bandauth-go/pkg/auth"
	"github.com/bandauth/bandauth-go/pkg/bluez"
	"github.com/bandauth/bandauth-go/pkg/log"
)

// ErrNoDevices is returned by Run when no handshake completed within the
// idle timeout.
var ErrNoDevices = errors.New("no devices found")

const (
	// completedBuffer bounds completion notices waiting for the idle timer.
	completedBuffer = 16

	// nameLookupTimeout bounds the Name read done for every connecting device.
	nameLookupTimeout = 5 * time.Second
)

// Config configures an Agent.
type Config struct {
	// Bus is the system bus connection. Required.
	Bus bluez.Bus

	// Adapter is the adapter path devices are watched under. Empty watches
	// every adapter.
	Adapter dbus.ObjectPath

	// DeviceName is the Name a device must report to be authenticated.
	DeviceName string

	// Policy is applied to every session.
	Policy auth.Policy

	// IdleTimeout ends Run when no handshake completes for this long.
	// Zero runs until the context is cancelled.
	IdleTimeout time.Duration

	// OnComplete is called for every completed handshake. Optional.
	OnComplete auth.CompletionFunc

	// Logger is the optional operational logger.
	Logger *slog.Logger

	// ProtocolLogger receives session protocol events. Optional.
	ProtocolLogger log.Logger

	// Metrics is optional.
	Metrics *auth.Metrics
}

// Agent authenticates supported bands as they connect.
type Agent struct {
	config    Config
	registry  *auth.Registry
	watcher   *bluez.Watcher
	completed chan string

	// names caches the Name of connected devices. Written on the watcher
	// goroutine, read by the provider on the registry loop.
	mu    sync.Mutex
	names map[string]string
}

var _ bluez.DeviceHandler = (*Agent)(nil)

// New creates an agent. Call Run to start it.
func New(cfg Config) *Agent {
	a := &Agent{
		config:    cfg,
		completed: make(chan string, completedBuffer),
		names:     make(map[string]string),
	}
	a.registry = auth.NewRegistry(auth.RegistryConfig{
		Provider: a.provide,
		Logger:   cfg.Logger,
		Metrics:  cfg.Metrics,
	})
	a.watcher = bluez.NewWatcher(bluez.WatcherConfig{
		Bus:     cfg.Bus,
		Adapter: cfg.Adapter,
		Handler: a,
		Logger:  cfg.Logger,
	})
	return a
}

// Registry returns the session registry. Sessions registered here take
// precedence over the agent's own provider.
func (a *Agent) Registry() *auth.Registry {
	return a.registry
}

// Run processes device events until ctx is cancelled, the watcher fails,
// or the idle timeout elapses (ErrNoDevices). Sessions still pending when
// Run returns complete with auth.StatusCancelled. Run may be called once.
func (a *Agent) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	go func() { _ = a.registry.Run(ctx) }()
	defer func() {
		cancel()
		<-a.registry.Done()
	}()

	watchErr := make(chan error, 1)
	go func() { watchErr <- a.watcher.Run(ctx) }()

	a.infoLog("band auth agent has started", "device_name", a.config.DeviceName)

	var idle <-chan time.Time
	var timer *time.Timer
	if a.config.IdleTimeout > 0 {
		timer = time.NewTimer(a.config.IdleTimeout)
		defer timer.Stop()
		idle = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-watchErr:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err == nil {
				err = errors.New("signal channel closed")
			}
			return fmt.Errorf("watcher: %w", err)

		case deviceID := <-a.completed:
			a.debugLog("handshake finished", "device", deviceID)
			if timer != nil {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(a.config.IdleTimeout)
			}

		case <-idle:
			a.infoLog("timed out waiting for new connections", "timeout", a.config.IdleTimeout)
			return ErrNoDevices
		}
	}
}

// Connected resolves the device name and forwards the event to the
// registry. It runs on the watcher goroutine so the registry loop never
// waits on the bus.
func (a *Agent) Connected(deviceID string) {
	ctx, cancel := context.WithTimeout(context.Background(), nameLookupTimeout)
	name, err := bluez.DeviceName(ctx, a.config.Bus, dbus.ObjectPath(deviceID))
	cancel()

	a.mu.Lock()
	if err != nil {
		delete(a.names, deviceID)
	} else {
		a.names[deviceID] = name
	}
	a.mu.Unlock()
	if err != nil {
		a.debugLog("cannot read device name", "device", deviceID, "error", err)
	}

	a.registry.Connected(deviceID)
}

// Disconnected forwards the event to the registry.
func (a *Agent) Disconnected(deviceID string) {
	a.registry.Disconnected(deviceID)
}

// provide creates a session for a device that reports the configured name.
// It runs on the registry loop and only reads the name cache.
func (a *Agent) provide(deviceID string) *auth.Session {
	a.mu.Lock()
	name, ok := a.names[deviceID]
	a.mu.Unlock()
	if !ok {
		a.debugLog("device name unknown, skipping", "device", deviceID)
		return nil
	}
	if name != a.config.DeviceName {
		a.infoLog("skipping unrecognized device", "device", deviceID, "name", name)
		return nil
	}

	path := dbus.ObjectPath(deviceID)
	char := bluez.NewAuthCharacteristic(a.watcher, path, a.config.Logger)
	return auth.NewSession(deviceID, char, auth.SessionConfig{
		Policy:         a.config.Policy,
		OnComplete:     a.onComplete,
		Logger:         a.config.Logger,
		ProtocolLogger: a.config.ProtocolLogger,
		Metrics:        a.config.Metrics,
	})
}

func (a *Agent) onComplete(deviceID string, res auth.Result) {
	a.infoLog("authentication finished", "device", deviceID, "status", res.Status.String())
	if a.config.OnComplete != nil {
		a.config.OnComplete(deviceID, res)
	}
	select {
	case a.completed <- deviceID:
	default:
	}
}

func (a *Agent) debugLog(msg string, args ...any) {
	if a.config.Logger != nil {
		a.config.Logger.Debug(msg, args...)
	}
}

func (a *Agent) infoLog(msg string, args ...any) {
	if a.config.Logger != nil {
		a.config.Logger.Info(msg, args...)
	}
}
