package updater

import (
	"errors"
	"strings"
	"testing"

	"github.com/c0d3z3r0/aixun-t3x-updater/transport"
)

func TestSessionErrorReportsStateAndCause(t *testing.T) {
	cause := &ProgramError{Offset: 0x800, Cause: transport.ErrTimeout}
	err := &SessionError{State: StateProgramming, Cause: cause}

	msg := err.Error()
	if !strings.Contains(msg, "programming") {
		t.Errorf("message %q does not name the failed state", msg)
	}
	if !strings.Contains(msg, "0x00000800") {
		t.Errorf("message %q does not name the failed offset", msg)
	}

	if !errors.Is(err, transport.ErrTimeout) {
		t.Error("SessionError does not unwrap to the transport cause")
	}

	var perr *ProgramError
	if !errors.As(err, &perr) || perr.Offset != 0x800 {
		t.Error("SessionError does not unwrap to the ProgramError")
	}
}

func TestVerificationErrorWarnsAgainstPowerCycle(t *testing.T) {
	err := &VerificationError{Want: 0x4B37, Got: 0xBEEF}

	msg := err.Error()
	if !strings.Contains(msg, "0x4B37") || !strings.Contains(msg, "0xBEEF") {
		t.Errorf("message %q does not report both checksums", msg)
	}
	if !strings.Contains(msg, "do not power-cycle") {
		t.Errorf("message %q does not warn against power-cycling", msg)
	}
}

func TestProductMismatchErrorNamesBothProducts(t *testing.T) {
	err := &ProductMismatchError{ImageProduct: "T3A", DeviceProduct: "T3B"}

	msg := err.Error()
	if !strings.Contains(msg, "T3A") || !strings.Contains(msg, "T3B") {
		t.Errorf("message %q does not name both products", msg)
	}
}

func TestStateStrings(t *testing.T) {
	states := map[State]string{
		StateIdle:        "idle",
		StateHandshaking: "handshaking",
		StateIdentified:  "identified",
		StateErasing:     "erasing",
		StateProgramming: "programming",
		StateVerifying:   "verifying",
		StateRebooting:   "rebooting",
		StateCompleted:   "completed",
		StateFailed:      "failed",
		State(99):        "unknown",
	}

	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
