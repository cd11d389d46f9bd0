package bluez

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"
)

// signalBuffer is the capacity of the signal channel handed to the bus.
const signalBuffer = 64

// DeviceHandler receives device lifecycle events. auth.Registry
// implements it. Calls must not block.
type DeviceHandler interface {
	Connected(deviceID string)
	Disconnected(deviceID string)
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Bus is the system bus connection. Required.
	Bus Bus

	// Adapter is the adapter path devices are watched under
	// (e.g. /org/bluez/hci0). Empty watches every adapter.
	Adapter dbus.ObjectPath

	// Handler receives ServicesResolved changes. Required.
	Handler DeviceHandler

	// Logger is the optional operational logger.
	Logger *slog.Logger
}

// Watcher translates BlueZ PropertiesChanged signals into device lifecycle
// events and characteristic notifications.
type Watcher struct {
	bus     Bus
	adapter dbus.ObjectPath
	handler DeviceHandler
	logger  *slog.Logger

	mu          sync.Mutex
	subscribers map[dbus.ObjectPath]func([]byte)
}

// NewWatcher creates a watcher. Call Run to start receiving signals.
func NewWatcher(cfg WatcherConfig) *Watcher {
	return &Watcher{
		bus:         cfg.Bus,
		adapter:     cfg.Adapter,
		handler:     cfg.Handler,
		logger:      cfg.Logger,
		subscribers: make(map[dbus.ObjectPath]func([]byte)),
	}
}

func (w *Watcher) matchOptions() []dbus.MatchOption {
	opts := []dbus.MatchOption{
		dbus.WithMatchSender(BusName),
		dbus.WithMatchInterface(propertiesInterface),
		dbus.WithMatchMember(propertiesChanged),
	}
	if w.adapter != "" {
		opts = append(opts, dbus.WithMatchPathNamespace(w.adapter))
	}
	return opts
}

// Run receives signals until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	opts := w.matchOptions()
	if err := w.bus.AddMatchSignal(opts...); err != nil {
		return fmt.Errorf("add signal match: %w", err)
	}
	defer func() {
		if err := w.bus.RemoveMatchSignal(opts...); err != nil {
			w.debugLog("remove signal match failed", "error", err)
		}
	}()

	ch := make(chan *dbus.Signal, signalBuffer)
	w.bus.Signal(ch)
	defer w.bus.RemoveSignal(ch)

	w.infoLog("started observing for device connections", "adapter", string(w.adapter))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case sig, ok := <-ch:
			if !ok {
				return nil
			}
			w.handleSignal(sig)
		}
	}
}

// subscribe routes Value changes of path to fn, replacing any previous
// subscriber.
func (w *Watcher) subscribe(path dbus.ObjectPath, fn func([]byte)) {
	w.mu.Lock()
	w.subscribers[path] = fn
	w.mu.Unlock()
}

func (w *Watcher) unsubscribe(path dbus.ObjectPath) {
	w.mu.Lock()
	delete(w.subscribers, path)
	w.mu.Unlock()
}

func (w *Watcher) subscriber(path dbus.ObjectPath) func([]byte) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.subscribers[path]
}

func (w *Watcher) handleSignal(sig *dbus.Signal) {
	if sig == nil || sig.Name != propertiesInterface+"."+propertiesChanged {
		return
	}
	if !isUnder(sig.Path, w.adapter) {
		return
	}
	if len(sig.Body) < 2 {
		return
	}
	iface, ok := sig.Body[0].(string)
	if !ok {
		return
	}
	changed, ok := sig.Body[1].(map[string]dbus.Variant)
	if !ok {
		return
	}

	switch iface {
	case DeviceInterface:
		w.handleDevice(sig.Path, changed)
	case GattCharacteristicInterface:
		w.handleCharacteristic(sig.Path, changed)
	}
}

func (w *Watcher) handleDevice(path dbus.ObjectPath, changed map[string]dbus.Variant) {
	v, ok := changed["ServicesResolved"]
	if !ok {
		return
	}
	resolved, ok := v.Value().(bool)
	if !ok {
		w.debugLog("ServicesResolved with unexpected type", "path", string(path), "type", fmt.Sprintf("%T", v.Value()))
		return
	}

	w.debugLog("services resolved changed", "path", string(path), "resolved", resolved)
	if resolved {
		w.handler.Connected(string(path))
	} else {
		w.handler.Disconnected(string(path))
	}
}

func (w *Watcher) handleCharacteristic(path dbus.ObjectPath, changed map[string]dbus.Variant) {
	v, ok := changed["Value"]
	if !ok {
		return
	}
	fn := w.subscriber(path)
	if fn == nil {
		return
	}
	value, ok := v.Value().([]byte)
	if !ok {
		w.debugLog("Value with unexpected type", "path", string(path), "type", fmt.Sprintf("%T", v.Value()))
		return
	}
	fn(value)
}

func (w *Watcher) debugLog(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Debug(msg, args...)
	}
}

func (w *Watcher) infoLog(msg string, args ...any) {
	if w.logger != nil {
		w.logger.Info(msg, args...)
	}
}
