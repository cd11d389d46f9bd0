package auth

import (
	"sync"
)

// fakeChar records writes and lets tests push notifications.
type fakeChar struct {
	mu         sync.Mutex
	writes     [][]byte
	onValue    func([]byte)
	onError    func(error)
	subscribed bool
	starts     int
	stops      int

	startErr error
	writeErr error
}

func (f *fakeChar) StartNotify(onValue func([]byte), onError func(error)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.onValue = onValue
	f.onError = onError
	f.subscribed = true
	return nil
}

func (f *fakeChar) StopNotify() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.subscribed = false
	return nil
}

func (f *fakeChar) WriteValue(value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return f.writeErr
	}
	f.writes = append(f.writes, append([]byte(nil), value...))
	return nil
}

// notify delivers a notification the way the transport would.
func (f *fakeChar) notify(value []byte) {
	f.mu.Lock()
	fn := f.onValue
	f.mu.Unlock()
	if fn != nil {
		fn(value)
	}
}

func (f *fakeChar) asyncError(err error) {
	f.mu.Lock()
	fn := f.onError
	f.mu.Unlock()
	if fn != nil {
		fn(err)
	}
}

func (f *fakeChar) Writes() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([][]byte, len(f.writes))
	copy(out, f.writes)
	return out
}

func (f *fakeChar) Subscribed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.subscribed
}

func (f *fakeChar) Stops() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stops
}

// resultRecorder collects completion callbacks.
type resultRecorder struct {
	mu      sync.Mutex
	results []Result
	devices []string
	ch      chan Result
}

func newResultRecorder() *resultRecorder {
	return &resultRecorder{ch: make(chan Result, 16)}
}

func (r *resultRecorder) complete(deviceID string, res Result) {
	r.mu.Lock()
	r.results = append(r.results, res)
	r.devices = append(r.devices, deviceID)
	r.mu.Unlock()
	r.ch <- res
}

func (r *resultRecorder) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Result(nil), r.results...)
}

var (
	ntfKeyAccepted   = []byte{0x10, 0x01, 0x01}
	ntfNewKeyAborted = []byte{0x10, 0x01, 0x02}
	ntfAuthOK        = []byte{0x10, 0x03, 0x01}
	ntfKeyMismatch   = []byte{0x10, 0x03, 0x04}
)

func ntfRandom(secret []byte) []byte {
	return append([]byte{0x10, 0x02, 0x01}, secret...)
}
