package bluez

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAdapter dbus.ObjectPath = "/org/bluez/hci0"
	testDevice  dbus.ObjectPath = "/org/bluez/hci0/dev_C8_0F_10_00_00_01"
)

func newTestWatcher() (*Watcher, *fakeBus, *recordingHandler) {
	bus := newFakeBus()
	h := &recordingHandler{}
	w := NewWatcher(WatcherConfig{Bus: bus, Adapter: testAdapter, Handler: h})
	return w, bus, h
}

func TestWatcherServicesResolved(t *testing.T) {
	w, _, h := newTestWatcher()

	w.handleSignal(propertiesChangedSignal(testDevice, DeviceInterface, map[string]any{"ServicesResolved": true}))
	w.handleSignal(propertiesChangedSignal(testDevice, DeviceInterface, map[string]any{"RSSI": int16(-60)}))
	w.handleSignal(propertiesChangedSignal(testDevice, DeviceInterface, map[string]any{"ServicesResolved": false}))

	assert.Equal(t, []string{
		"connected " + string(testDevice),
		"disconnected " + string(testDevice),
	}, h.Events())
}

func TestWatcherIgnoresForeignSignals(t *testing.T) {
	w, _, h := newTestWatcher()

	tests := []struct {
		name string
		sig  *dbus.Signal
	}{
		{"nil", nil},
		{"other adapter", propertiesChangedSignal("/org/bluez/hci1/dev_00", DeviceInterface, map[string]any{"ServicesResolved": true})},
		{"adapter prefix lookalike", propertiesChangedSignal("/org/bluez/hci01/dev_00", DeviceInterface, map[string]any{"ServicesResolved": true})},
		{"other interface", propertiesChangedSignal(testDevice, "org.bluez.Battery1", map[string]any{"ServicesResolved": true})},
		{"wrong type", propertiesChangedSignal(testDevice, DeviceInterface, map[string]any{"ServicesResolved": "yes"})},
		{"other member", &dbus.Signal{Path: testDevice, Name: "org.freedesktop.DBus.ObjectManager.InterfacesAdded"}},
		{"short body", &dbus.Signal{Path: testDevice, Name: propertiesInterface + "." + propertiesChanged, Body: []any{DeviceInterface}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() { w.handleSignal(tt.sig) })
		})
	}
	assert.Empty(t, h.Events())
}

func TestWatcherRoutesCharacteristicValues(t *testing.T) {
	w, _, _ := newTestWatcher()
	charPath := AuthCharacteristicPath(testDevice)

	var got [][]byte
	w.subscribe(charPath, func(v []byte) { got = append(got, v) })

	w.handleSignal(propertiesChangedSignal(charPath, GattCharacteristicInterface, map[string]any{"Value": []byte{0x10, 0x03, 0x01}}))
	w.handleSignal(propertiesChangedSignal(charPath, GattCharacteristicInterface, map[string]any{"Notifying": true}))
	w.handleSignal(propertiesChangedSignal(testDevice+"/service0052/char0054", GattCharacteristicInterface, map[string]any{"Value": []byte{1}}))

	w.unsubscribe(charPath)
	w.handleSignal(propertiesChangedSignal(charPath, GattCharacteristicInterface, map[string]any{"Value": []byte{0x10, 0x03, 0x04}}))

	assert.Equal(t, [][]byte{{0x10, 0x03, 0x01}}, got)
}

func TestWatcherRun(t *testing.T) {
	w, bus, h := newTestWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	var ch chan<- *dbus.Signal
	require.Eventually(t, func() bool {
		bus.mu.Lock()
		defer bus.mu.Unlock()
		ch = bus.signals
		return ch != nil
	}, time.Second, 5*time.Millisecond)

	ch <- propertiesChangedSignal(testDevice, DeviceInterface, map[string]any{"ServicesResolved": true})
	require.Eventually(t, func() bool { return len(h.Events()) == 1 }, time.Second, 5*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-errCh, context.Canceled)

	bus.mu.Lock()
	defer bus.mu.Unlock()
	assert.True(t, bus.removed)
	assert.Equal(t, 0, bus.matches)
}

func TestWatcherRunMatchError(t *testing.T) {
	w, bus, _ := newTestWatcher()
	bus.matchErr = errors.New("access denied")

	err := w.Run(context.Background())
	assert.ErrorIs(t, err, bus.matchErr)
}

func TestAdapterPath(t *testing.T) {
	p, err := AdapterPath("hci0")
	require.NoError(t, err)
	assert.Equal(t, testAdapter, p)

	for _, bad := range []string{"", "hci0/dev", "hci 0", "hci-0"} {
		_, err := AdapterPath(bad)
		assert.ErrorIs(t, err, ErrInvalidAdapter, bad)
	}
}

func TestAuthCharacteristicPath(t *testing.T) {
	assert.Equal(t,
		dbus.ObjectPath("/org/bluez/hci0/dev_C8_0F_10_00_00_01/service0052/char0053"),
		AuthCharacteristicPath(testDevice))
}

func TestDeviceName(t *testing.T) {
	bus := newFakeBus()
	bus.setProperty(testDevice, DeviceInterface+".Name", "MI Band 2")

	name, err := DeviceName(context.Background(), bus, testDevice)
	require.NoError(t, err)
	assert.Equal(t, "MI Band 2", name)

	_, err = DeviceName(context.Background(), bus, "/org/bluez/hci0/dev_00")
	assert.Error(t, err)

	bus.setProperty(testDevice, DeviceInterface+".Name", int32(7))
	_, err = DeviceName(context.Background(), bus, testDevice)
	assert.ErrorIs(t, err, ErrUnexpectedValue)

	bus.sendErr[propertiesInterface+".Get"] = dbus.ErrClosed
	_, err = DeviceName(context.Background(), bus, testDevice)
	assert.ErrorIs(t, err, dbus.ErrClosed)
}
