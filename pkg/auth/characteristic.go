package auth

// Characteristic is the authentication characteristic of one band, as
// exposed by the Bluetooth stack.
//
// Every method is a request: implementations must not wait for the device.
// Failures that are only known later are reported through the onError
// callback given to StartNotify.
type Characteristic interface {
	// StartNotify subscribes to value notifications.
	StartNotify(onValue func(value []byte), onError func(err error)) error

	// StopNotify cancels the subscription.
	StopNotify() error

	// WriteValue writes value to the characteristic.
	WriteValue(value []byte) error
}
