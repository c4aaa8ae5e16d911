package transport

import (
	"errors"
	"time"
)

// Channel transport errors.
var (
	// ErrDeviceNotFound indicates no T3x device was enumerated.
	ErrDeviceNotFound = errors.New("no T3x device found")

	// ErrTimeout indicates the device did not respond within the
	// requested receive timeout.
	ErrTimeout = errors.New("receive timeout")
)

// Channel is a duplex byte channel to the device with request/response
// semantics. It reports success or failure of single transfer attempts
// only; retry policy lives in the update session.
//
// A Channel is exclusively owned by one update session for the session's
// lifetime; the session closes it on every exit path.
type Channel interface {
	// Send writes one complete frame to the device.
	Send(p []byte) error

	// Receive reads one complete frame from the device, waiting at
	// most timeout for the first byte. Returns ErrTimeout if nothing
	// arrives in time.
	Receive(timeout time.Duration) ([]byte, error)

	// Close releases the channel. Idempotent.
	Close() error
}
