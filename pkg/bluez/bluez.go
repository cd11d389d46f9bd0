package bluez

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/godbus/dbus/v5"
)

// D-Bus names used by BlueZ.
const (
	BusName = "org.bluez"

	DeviceInterface             = "org.bluez.Device1"
	GattCharacteristicInterface = "org.bluez.GattCharacteristic1"

	propertiesInterface = "org.freedesktop.DBus.Properties"
	propertiesChanged   = "PropertiesChanged"
)

// authCharacteristicSuffix locates the band's authentication characteristic
// below its device object.
const authCharacteristicSuffix = "/service0052/char0053"

// Bluez errors.
var (
	ErrInvalidAdapter  = errors.New("invalid adapter name")
	ErrUnexpectedValue = errors.New("unexpected property type")
)

// Bus is the subset of *dbus.Conn used by this package.
type Bus interface {
	Object(dest string, path dbus.ObjectPath) dbus.BusObject
	AddMatchSignal(options ...dbus.MatchOption) error
	RemoveMatchSignal(options ...dbus.MatchOption) error
	Signal(ch chan<- *dbus.Signal)
	RemoveSignal(ch chan<- *dbus.Signal)
}

var _ Bus = (*dbus.Conn)(nil)

// ConnectSystemBus opens a private connection to the system bus.
// The caller closes it.
func ConnectSystemBus() (*dbus.Conn, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return conn, nil
}

// AdapterPath returns the object path of a local adapter such as "hci0".
func AdapterPath(adapter string) (dbus.ObjectPath, error) {
	if adapter == "" || strings.ContainsAny(adapter, "/ ") {
		return "", fmt.Errorf("%w: %q", ErrInvalidAdapter, adapter)
	}
	p := dbus.ObjectPath("/org/bluez/" + adapter)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidAdapter, adapter)
	}
	return p, nil
}

// AuthCharacteristicPath returns the authentication characteristic path of
// a device object.
func AuthCharacteristicPath(device dbus.ObjectPath) dbus.ObjectPath {
	return device + authCharacteristicSuffix
}

// DeviceName reads the Name property of a device object. It gives up when
// ctx is done.
func DeviceName(ctx context.Context, bus Bus, device dbus.ObjectPath) (string, error) {
	obj := bus.Object(BusName, device)
	call := obj.Go(propertiesInterface+".Get", 0, make(chan *dbus.Call, 1), DeviceInterface, "Name")
	if call.Err != nil {
		return "", fmt.Errorf("read name of %s: %w", device, call.Err)
	}
	select {
	case call = <-call.Done:
	case <-ctx.Done():
		return "", fmt.Errorf("read name of %s: %w", device, ctx.Err())
	}

	var v dbus.Variant
	if err := call.Store(&v); err != nil {
		return "", fmt.Errorf("read name of %s: %w", device, err)
	}
	name, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("%w: %s.Name is %T", ErrUnexpectedValue, DeviceInterface, v.Value())
	}
	return name, nil
}

// isUnder reports whether path equals prefix or lies below it.
func isUnder(path, prefix dbus.ObjectPath) bool {
	if prefix == "" || path == prefix {
		return true
	}
	return strings.HasPrefix(string(path), string(prefix)+"/")
}
