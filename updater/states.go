package updater

// State is the update session state.
//
// The machine advances Idle → Handshaking → Identified → Erasing →
// Programming → Verifying → Rebooting → Completed; Failed is terminal
// and reachable from every non-terminal state.
type State int

const (
	// StateIdle is the initial state before Run is called
	StateIdle State = iota

	// StateHandshaking negotiates with the bootloader
	StateHandshaking

	// StateIdentified means the device family and product matched
	StateIdentified

	// StateErasing waits for the flash erase acknowledgment
	StateErasing

	// StateProgramming transfers image chunks in lock-step
	StateProgramming

	// StateVerifying compares the device checksum against the image
	StateVerifying

	// StateRebooting issues the best-effort reboot command
	StateRebooting

	// StateCompleted is the successful terminal state
	StateCompleted

	// StateFailed is the failure terminal state; the cause is carried
	// by the returned SessionError
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandshaking:
		return "handshaking"
	case StateIdentified:
		return "identified"
	case StateErasing:
		return "erasing"
	case StateProgramming:
		return "programming"
	case StateVerifying:
		return "verifying"
	case StateRebooting:
		return "rebooting"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
