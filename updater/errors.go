package updater

import (
	"errors"
	"fmt"
)

// ErrSessionConsumed indicates Run was called on a session that has
// already run. Sessions are one-shot; a retry needs a fresh session and
// a fresh channel.
var ErrSessionConsumed = errors.New("session already consumed")

// SessionError is the terminal failure of an update session. It reports
// the state the session failed in and the underlying cause, so the user
// can retry from scratch with a clear picture.
type SessionError struct {
	// State is the state the session was in when it failed
	State State

	// Cause is the underlying error
	Cause error
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("update failed while %s: %v", e.State, e.Cause)
}

func (e *SessionError) Unwrap() error {
	return e.Cause
}

// HandshakeError indicates the device never produced a valid, matching
// identification within the retry budget.
type HandshakeError struct {
	// Attempts is the number of identification attempts made
	Attempts int

	// Cause is the error of the final attempt
	Cause error
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("no valid identification after %d attempts: %v", e.Attempts, e.Cause)
}

func (e *HandshakeError) Unwrap() error {
	return e.Cause
}

// ProductMismatchError indicates the update file targets a different
// product than the attached device. Flashing does not start.
type ProductMismatchError struct {
	// ImageProduct is the product the update file is built for
	ImageProduct string

	// DeviceProduct is the product the device reported
	DeviceProduct string
}

func (e *ProductMismatchError) Error() string {
	return fmt.Sprintf("update targets %s but attached device is %s", e.ImageProduct, e.DeviceProduct)
}

// EraseError indicates the flash erase was not acknowledged within the
// retry budget.
type EraseError struct {
	// Cause is the error of the final erase attempt
	Cause error
}

func (e *EraseError) Error() string {
	return fmt.Sprintf("flash erase failed: %v", e.Cause)
}

func (e *EraseError) Unwrap() error {
	return e.Cause
}

// ProgramError indicates a chunk exhausted its retry budget. It records
// the flash offset so the failure is diagnosable.
type ProgramError struct {
	// Offset is the flash offset of the failed chunk
	Offset uint32

	// Cause is the error of the final attempt
	Cause error
}

func (e *ProgramError) Error() string {
	return fmt.Sprintf("programming chunk at offset 0x%08X failed: %v", e.Offset, e.Cause)
}

func (e *ProgramError) Unwrap() error {
	return e.Cause
}

// VerificationError indicates the device's post-write checksum does not
// match the image. The device is left bootloader-resident and not
// rebooted; do not power-cycle assuming the update succeeded.
type VerificationError struct {
	// Want is the image checksum
	Want uint16

	// Got is the checksum the device computed
	Got uint16
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("device checksum 0x%04X does not match image checksum 0x%04X; "+
		"firmware was NOT programmed correctly, do not power-cycle assuming success", e.Got, e.Want)
}
