// Package updater drives the firmware update session for AiXun T3x
// soldering stations.
//
// # Overview
//
// A Session takes an exclusively-owned transport.Channel and a parsed
// firmware.Image and runs the full bootloader exchange:
//
//	Handshaking → Identified → Erasing → Programming → Verifying → Rebooting → Completed
//
// with a terminal Failed state reachable from every non-terminal state.
// The session is strictly sequential: one request, one response, with a
// per-operation timeout; there is no pipelining and no concurrency.
//
// # Policy
//
// All retry and abort policy lives here. The handshake and each chunk
// get a bounded retry budget with backoff; the erase is retried once on
// timeout; verification is a hard gate that blocks the reboot on any
// mismatch; the reboot acknowledgment is best-effort because the device
// leaves the protocol context when it resets. Corrupted response frames
// are never blindly retried outside the handshake — they indicate a
// protocol mismatch, not line noise.
//
// # Usage
//
//	ch, err := transport.Open()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img, err := firmware.LoadFile("update.bin")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	sess := updater.New(ch,
//	    updater.WithLogger(logger),
//	    updater.WithProgress(func(sent, total int) {
//	        fmt.Printf("\r%d%%", sent*100/total)
//	    }),
//	)
//
//	if err := sess.Run(context.Background(), img); err != nil {
//	    var serr *updater.SessionError
//	    if errors.As(err, &serr) {
//	        log.Fatalf("failed during %s: %v", serr.State, serr.Cause)
//	    }
//	    log.Fatal(err)
//	}
//
// Run closes the channel on every exit path. A Session is one-shot:
// retrying after a failure means a fresh channel and a fresh session,
// starting again from the handshake.
package updater
