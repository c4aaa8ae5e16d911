package protocol

import (
	"errors"
	"fmt"
)

// Frame-level decode errors. Both indicate a corrupted or foreign frame
// and are never worth a blind retry of the same exchange.
var (
	// ErrMalformed indicates a frame whose structure or declared length
	// does not match the received bytes.
	ErrMalformed = errors.New("malformed frame")

	// ErrChecksumMismatch indicates a frame whose checksum failed
	// recomputation.
	ErrChecksumMismatch = errors.New("frame checksum mismatch")
)

// IsFrameError returns true if err is a frame-level decode error.
func IsFrameError(err error) bool {
	return errors.Is(err, ErrMalformed) || errors.Is(err, ErrChecksumMismatch)
}

// StatusError is a negative acknowledgment returned by the bootloader.
type StatusError struct {
	// Operation is the command that was rejected
	Operation string

	// Code is the status code from the device
	Code byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s rejected: %s (0x%02X)", e.Operation, statusName(e.Code), e.Code)
}

// statusName returns a human-readable name for a status code.
func statusName(code byte) string {
	switch code {
	case StatusAck:
		return "acknowledged"
	case StatusErrLength:
		return "invalid length"
	case StatusErrData:
		return "invalid data"
	case StatusErrCommand:
		return "unrecognized command"
	case StatusErrChecksum:
		return "checksum rejected"
	case StatusErrRange:
		return "offset out of range"
	case StatusErrErase:
		return "erase failed"
	case StatusErrWrite:
		return "write failed"
	case StatusErrBusy:
		return "device busy"
	default:
		return fmt.Sprintf("unknown status 0x%02X", code)
	}
}
