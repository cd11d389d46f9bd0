package bluez

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bandauth/bandauth-go/pkg/auth"
)

func TestCharacteristicStartNotifyAndWrite(t *testing.T) {
	w, bus, _ := newTestWatcher()
	c := NewAuthCharacteristic(w, testDevice, nil)

	var got [][]byte
	require.NoError(t, c.StartNotify(func(v []byte) { got = append(got, v) }, func(error) {}))
	require.NoError(t, c.WriteValue([]byte{0x02, 0x00}))

	calls := bus.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, GattCharacteristicInterface+".StartNotify", calls[0].method)
	assert.Empty(t, calls[0].args)
	assert.Equal(t, GattCharacteristicInterface+".WriteValue", calls[1].method)
	require.Len(t, calls[1].args, 2)
	assert.Equal(t, []byte{0x02, 0x00}, calls[1].args[0])
	assert.Equal(t, map[string]dbus.Variant{}, calls[1].args[1])

	w.handleSignal(propertiesChangedSignal(c.Path(), GattCharacteristicInterface, map[string]any{"Value": []byte{0x10, 0x01, 0x01}}))
	assert.Equal(t, [][]byte{{0x10, 0x01, 0x01}}, got)

	require.NoError(t, c.StopNotify())
	w.handleSignal(propertiesChangedSignal(c.Path(), GattCharacteristicInterface, map[string]any{"Value": []byte{0x10, 0x03, 0x01}}))
	assert.Len(t, got, 1)
	assert.Equal(t, GattCharacteristicInterface+".StopNotify", bus.Calls()[2].method)
}

func TestCharacteristicSendError(t *testing.T) {
	w, bus, _ := newTestWatcher()
	c := NewAuthCharacteristic(w, testDevice, nil)
	bus.sendErr[GattCharacteristicInterface+".StartNotify"] = dbus.ErrClosed

	err := c.StartNotify(func([]byte) {}, func(error) {})
	require.ErrorIs(t, err, dbus.ErrClosed)
	assert.Nil(t, w.subscriber(c.Path()), "failed subscription must not stay routed")
}

func TestCharacteristicReplyErrorGoesToCallback(t *testing.T) {
	w, bus, _ := newTestWatcher()
	c := NewAuthCharacteristic(w, testDevice, nil)
	replyErr := errors.New("org.bluez.Error.NotConnected")
	bus.replyErr[GattCharacteristicInterface+".WriteValue"] = replyErr

	errCh := make(chan error, 1)
	require.NoError(t, c.StartNotify(func([]byte) {}, func(err error) { errCh <- err }))
	require.NoError(t, c.WriteValue([]byte{0x02, 0x00}))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, replyErr)
		assert.Contains(t, err.Error(), "WriteValue")
	case <-time.After(time.Second):
		t.Fatal("error callback not called")
	}
}

func TestCharacteristicDrivesSession(t *testing.T) {
	w, bus, _ := newTestWatcher()
	c := NewAuthCharacteristic(w, testDevice, nil)

	var mu sync.Mutex
	var results []auth.Result
	s := auth.NewSession(string(testDevice), c, auth.SessionConfig{
		Policy: auth.Policy{Key: auth.Key{15: 1}, ResetOption: auth.Never},
		OnComplete: func(_ string, res auth.Result) {
			mu.Lock()
			defer mu.Unlock()
			results = append(results, res)
		},
	})
	require.NoError(t, s.Start())

	w.handleSignal(propertiesChangedSignal(c.Path(), GattCharacteristicInterface, map[string]any{"Value": []byte{0x10, 0x03, 0x04}}))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.Equal(t, auth.StatusKeyMismatch, results[0].Status)

	methods := make([]string, 0, 3)
	for _, call := range bus.Calls() {
		methods = append(methods, call.method)
	}
	assert.Equal(t, []string{
		GattCharacteristicInterface + ".StartNotify",
		GattCharacteristicInterface + ".WriteValue",
		GattCharacteristicInterface + ".StopNotify",
	}, methods)
}
