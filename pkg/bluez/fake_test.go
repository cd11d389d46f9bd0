package bluez

import (
	"errors"
	"sync"

	"github.com/godbus/dbus/v5"
)

type fakeCall struct {
	method string
	args   []any
}

// fakeObject answers method calls from a table of errors.
type fakeObject struct {
	dbus.BusObject

	bus  *fakeBus
	path dbus.ObjectPath
}

func (o *fakeObject) Go(method string, flags dbus.Flags, ch chan *dbus.Call, args ...any) *dbus.Call {
	b := o.bus
	b.mu.Lock()
	b.calls = append(b.calls, fakeCall{method: method, args: args})
	sendErr := b.sendErr[method]
	replyErr := b.replyErr[method]
	b.mu.Unlock()

	call := &dbus.Call{Method: method, Args: args, Path: o.path, Destination: BusName, Done: ch}
	if sendErr != nil {
		call.Err = sendErr
		return call
	}
	call.Err = replyErr
	if method == propertiesInterface+".Get" && replyErr == nil {
		call.Body, call.Err = o.property(args[0].(string) + "." + args[1].(string))
	}
	ch <- call
	return call
}

func (o *fakeObject) property(name string) ([]any, error) {
	b := o.bus
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.props[string(o.path)+"#"+name]
	if !ok {
		return nil, errors.New("org.freedesktop.DBus.Error.UnknownProperty")
	}
	return []any{v}, nil
}

func (o *fakeObject) Path() dbus.ObjectPath { return o.path }

// fakeBus is an in-memory Bus.
type fakeBus struct {
	mu       sync.Mutex
	calls    []fakeCall
	sendErr  map[string]error
	replyErr map[string]error
	props    map[string]dbus.Variant
	matches  int
	matchErr error
	signals  chan<- *dbus.Signal
	removed  bool
}

func newFakeBus() *fakeBus {
	return &fakeBus{
		sendErr:  make(map[string]error),
		replyErr: make(map[string]error),
		props:    make(map[string]dbus.Variant),
	}
}

func (b *fakeBus) Object(dest string, path dbus.ObjectPath) dbus.BusObject {
	return &fakeObject{bus: b, path: path}
}

func (b *fakeBus) AddMatchSignal(options ...dbus.MatchOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.matchErr != nil {
		return b.matchErr
	}
	b.matches++
	return nil
}

func (b *fakeBus) RemoveMatchSignal(options ...dbus.MatchOption) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.matches--
	return nil
}

func (b *fakeBus) Signal(ch chan<- *dbus.Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.signals = ch
}

func (b *fakeBus) RemoveSignal(ch chan<- *dbus.Signal) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removed = true
	b.signals = nil
}

func (b *fakeBus) Calls() []fakeCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]fakeCall(nil), b.calls...)
}

func (b *fakeBus) setProperty(path dbus.ObjectPath, name string, value any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.props[string(path)+"#"+name] = dbus.MakeVariant(value)
}

func propertiesChangedSignal(path dbus.ObjectPath, iface string, changed map[string]any) *dbus.Signal {
	vs := make(map[string]dbus.Variant, len(changed))
	for k, v := range changed {
		vs[k] = dbus.MakeVariant(v)
	}
	return &dbus.Signal{
		Sender: ":1.7",
		Path:   path,
		Name:   propertiesInterface + "." + propertiesChanged,
		Body:   []any{iface, vs, []string{}},
	}
}

// recordingHandler records lifecycle events.
type recordingHandler struct {
	mu     sync.Mutex
	events []string
}

func (h *recordingHandler) Connected(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "connected "+id)
}

func (h *recordingHandler) Disconnected(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, "disconnected "+id)
}

func (h *recordingHandler) Events() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.events...)
}
