// Package bluez connects band sessions to BlueZ over the system D-Bus.
//
// A Watcher subscribes to PropertiesChanged signals below one adapter. It
// turns ServicesResolved changes on org.bluez.Device1 objects into
// connect/disconnect events and routes Value changes on
// org.bluez.GattCharacteristic1 objects to the Characteristic that
// subscribed to them.
//
// Characteristic implements auth.Characteristic. StartNotify, StopNotify
// and WriteValue are issued asynchronously; failures reported by BlueZ are
// delivered to the error callback given to StartNotify.
package bluez
