package bluez

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/godbus/dbus/v5"

	"github.com/bandauth/bandauth-go/pkg/auth"
)

// Characteristic is a GATT characteristic driven through BlueZ.
// It implements auth.Characteristic.
type Characteristic struct {
	watcher *Watcher
	path    dbus.ObjectPath
	obj     dbus.BusObject
	logger  *slog.Logger

	mu      sync.Mutex
	onError func(error)
}

var _ auth.Characteristic = (*Characteristic)(nil)

// NewCharacteristic returns the characteristic at path. Notifications are
// received through w, which must be running.
func NewCharacteristic(w *Watcher, path dbus.ObjectPath, logger *slog.Logger) *Characteristic {
	return &Characteristic{
		watcher: w,
		path:    path,
		obj:     w.bus.Object(BusName, path),
		logger:  logger,
	}
}

// NewAuthCharacteristic returns the authentication characteristic of the
// band at device.
func NewAuthCharacteristic(w *Watcher, device dbus.ObjectPath, logger *slog.Logger) *Characteristic {
	return NewCharacteristic(w, AuthCharacteristicPath(device), logger)
}

// Path returns the characteristic object path.
func (c *Characteristic) Path() dbus.ObjectPath {
	return c.path
}

// StartNotify subscribes to value changes and asks BlueZ to enable
// notifications.
func (c *Characteristic) StartNotify(onValue func([]byte), onError func(error)) error {
	c.mu.Lock()
	c.onError = onError
	c.mu.Unlock()

	c.watcher.subscribe(c.path, onValue)
	if err := c.goCall("StartNotify"); err != nil {
		c.watcher.unsubscribe(c.path)
		return err
	}
	return nil
}

// StopNotify drops the subscription and asks BlueZ to disable
// notifications. Failures are not reported; the device may already be gone.
func (c *Characteristic) StopNotify() error {
	c.watcher.unsubscribe(c.path)

	c.mu.Lock()
	c.onError = nil
	c.mu.Unlock()

	return c.goCall("StopNotify")
}

// WriteValue writes value without waiting for BlueZ to acknowledge it.
func (c *Characteristic) WriteValue(value []byte) error {
	return c.goCall("WriteValue", value, map[string]dbus.Variant{})
}

// goCall issues a method call without blocking. Errors detected while
// sending are returned; errors in the reply go to the error callback.
func (c *Characteristic) goCall(method string, args ...any) error {
	name := GattCharacteristicInterface + "." + method
	done := make(chan *dbus.Call, 1)
	call := c.obj.Go(name, 0, done, args...)
	if call.Err != nil {
		return fmt.Errorf("%s: %w", method, call.Err)
	}

	go func() {
		reply := <-done
		if reply.Err == nil {
			return
		}
		c.debugLog("call failed", "method", method, "error", reply.Err)
		c.mu.Lock()
		onError := c.onError
		c.mu.Unlock()
		if onError != nil {
			onError(fmt.Errorf("%s: %w", method, reply.Err))
		}
	}()
	return nil
}

func (c *Characteristic) debugLog(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, append([]any{"path", string(c.path)}, args...)...)
	}
}
