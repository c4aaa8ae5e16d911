package updater

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"go.uber.org/zap"

	"github.com/c0d3z3r0/aixun-t3x-updater/firmware"
	"github.com/c0d3z3r0/aixun-t3x-updater/protocol"
	"github.com/c0d3z3r0/aixun-t3x-updater/transport"
)

// Session drives one complete firmware update: handshake, erase,
// program, verify, reboot. It is the only component with retry and
// abort policy; the transport reports single attempts and the codec is
// a pure transform.
//
// A Session owns its Channel exclusively and closes it on every exit
// path. Sessions are one-shot: a failed update is retried with a new
// Session from scratch, never resumed.
type Session struct {
	ch     transport.Channel
	cfg    Config
	state  State
	seq    uint16
	device *protocol.DeviceInfo
	ran    bool
}

// New creates a Session on the given channel.
//
// Example:
//
//	ch, _ := transport.Open()
//	sess := updater.New(ch,
//	    updater.WithLogger(logger),
//	    updater.WithProgress(func(sent, total int) { ... }),
//	)
//	err := sess.Run(ctx, img)
func New(ch transport.Channel, opts ...Option) *Session {
	if ch == nil {
		panic("channel cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{ch: ch, cfg: cfg}
}

// State returns the current session state.
func (s *Session) State() State {
	return s.state
}

// Device returns the identification of the attached device, available
// once the handshake has succeeded.
func (s *Session) Device() *protocol.DeviceInfo {
	return s.device
}

// Run performs the complete update sequence for img:
//
//  1. Handshake: identify the device, switching it into the bootloader
//     if it is still running application firmware
//  2. Refuse to continue on a product mismatch
//  3. Erase the flash region the image occupies
//  4. Program all chunks in offset order, strictly lock-step
//  5. Verify the device checksum against the image checksum (hard gate)
//  6. Reboot into the new firmware (best-effort acknowledgment)
//
// Cancellation is honored between chunks and between phases, never
// mid-frame. On any failure Run returns a *SessionError naming the
// state it failed in; no further device commands are issued.
func (s *Session) Run(ctx context.Context, img *firmware.Image) error {
	if s.ran {
		return ErrSessionConsumed
	}
	s.ran = true
	defer func() { _ = s.ch.Close() }()

	if img == nil {
		return s.fail(StateIdle, fmt.Errorf("image cannot be nil"))
	}
	if len(img.Segments) == 0 {
		return s.fail(StateIdle, fmt.Errorf("image has no segments"))
	}

	start := time.Now()
	log := s.cfg.Logger

	s.setState(StateHandshaking)
	info, err := s.handshake(ctx)
	if err != nil {
		return s.fail(StateHandshaking, err)
	}
	s.device = info

	if info.Product() != img.Product {
		return s.fail(StateHandshaking, &ProductMismatchError{
			ImageProduct:  img.Product,
			DeviceProduct: info.Product(),
		})
	}

	chunkSize := int(info.MaxChunkSize)
	if chunkSize > protocol.MaxChunkSize {
		chunkSize = protocol.MaxChunkSize
	}

	s.setState(StateIdentified)
	log.Info("device identified",
		zap.String("device", info.ID),
		zap.String("product", info.Product()),
		zap.Int("chunk_size", chunkSize),
	)

	chunks, err := img.Chunks(chunkSize)
	if err != nil {
		return s.fail(StateIdentified, err)
	}

	if err := ctx.Err(); err != nil {
		return s.fail(StateIdentified, err)
	}

	s.setState(StateErasing)
	log.Info("erasing flash region",
		zap.Uint32("offset", img.BaseOffset()),
		zap.Uint32("length", img.Span()),
	)
	if err := s.erase(ctx, img.BaseOffset(), img.Span()); err != nil {
		return s.fail(StateErasing, &EraseError{Cause: err})
	}

	s.setState(StateProgramming)
	total := img.TotalSize()
	sent := 0
	for _, chunk := range chunks {
		// Cancellation is honored here only, so an in-flight frame
		// always completes or times out first.
		if err := ctx.Err(); err != nil {
			return s.fail(StateProgramming, err)
		}

		if err := s.writeChunk(ctx, chunk); err != nil {
			return s.fail(StateProgramming, &ProgramError{Offset: chunk.Offset, Cause: err})
		}

		sent += len(chunk.Data)
		if s.cfg.Progress != nil {
			s.cfg.Progress(sent, total)
		}
	}

	s.setState(StateVerifying)
	got, err := s.readChecksum(img.BaseOffset(), img.Span())
	if err != nil {
		return s.fail(StateVerifying, err)
	}
	if got != img.Checksum {
		return s.fail(StateVerifying, &VerificationError{Want: img.Checksum, Got: got})
	}

	s.setState(StateRebooting)
	s.reboot()

	s.setState(StateCompleted)
	log.Info("update complete",
		zap.String("product", img.Product),
		zap.String("version", img.Version),
		zap.Int("bytes", total),
		zap.Duration("elapsed", time.Since(start)),
	)

	return nil
}

// handshake identifies the device, retrying within the configured
// budget. Garbled responses count as failed attempts. A device found in
// application mode is switched into the bootloader first.
func (s *Session) handshake(ctx context.Context) (*protocol.DeviceInfo, error) {
	var info *protocol.DeviceInfo

	err := retry.Do(
		func() error {
			di, err := s.identify()
			if err != nil {
				return err
			}

			if di.Mode == protocol.ModeApplication {
				s.cfg.Logger.Info("device in application mode, entering bootloader")
				s.enterBootloader()

				di, err = s.identify()
				if err != nil {
					return err
				}
				if di.Mode != protocol.ModeBootloader {
					return fmt.Errorf("device did not enter bootloader, still in mode 0x%02X", di.Mode)
				}
			}

			info = di
			return nil
		},
		retry.Attempts(uint(s.cfg.HandshakeAttempts)),
		retry.Delay(s.cfg.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, &HandshakeError{Attempts: s.cfg.HandshakeAttempts, Cause: err}
	}

	return info, nil
}

// identify performs one Identify exchange.
func (s *Session) identify() (*protocol.DeviceInfo, error) {
	seq := s.nextSeq()
	resp, err := s.exchange("identify", protocol.BuildIdentifyCmd(seq), seq, s.cfg.HandshakeTimeout)
	if err != nil {
		return nil, err
	}
	return protocol.ParseIdentifyResponse(resp.Payload)
}

// enterBootloader asks an application-mode device to reset into the
// bootloader and waits out the reset. The reply is best-effort: the
// device may drop the line mid-acknowledgment.
func (s *Session) enterBootloader() {
	seq := s.nextSeq()
	if _, err := s.exchange("enter bootloader", protocol.BuildEnterBootCmd(seq), seq, s.cfg.HandshakeTimeout); err != nil {
		s.cfg.Logger.Debug("enter bootloader reply lost, device likely resetting", zap.Error(err))
	}
	time.Sleep(s.cfg.BootSettle)
}

// erase issues the Erase command for the region the image occupies.
// Only a timeout earns the single retry; a negative acknowledgment or a
// corrupted reply is final.
func (s *Session) erase(ctx context.Context, offset, length uint32) error {
	return retry.Do(
		func() error {
			seq := s.nextSeq()
			_, err := s.exchange("erase", protocol.BuildEraseCmd(seq, offset, length), seq, s.cfg.EraseTimeout)
			return err
		},
		retry.Attempts(uint(s.cfg.EraseAttempts)),
		retry.Delay(s.cfg.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			return errors.Is(err, transport.ErrTimeout)
		}),
	)
}

// writeChunk programs one chunk, retrying on negative acknowledgment,
// timeout or transport failure within the chunk budget. A malformed or
// checksum-failed response frame aborts immediately: that is a protocol
// mismatch, not line noise worth retrying into.
func (s *Session) writeChunk(ctx context.Context, chunk firmware.Chunk) error {
	return retry.Do(
		func() error {
			seq := s.nextSeq()
			wire, err := protocol.BuildWriteChunkCmd(seq, chunk.Offset, chunk.Data)
			if err != nil {
				return retry.Unrecoverable(err)
			}

			_, err = s.exchange("write chunk", wire, seq, s.cfg.WriteTimeout)
			if err != nil && protocol.IsFrameError(err) {
				return retry.Unrecoverable(err)
			}
			return err
		},
		retry.Attempts(uint(s.cfg.ChunkAttempts)),
		retry.Delay(s.cfg.Backoff),
		retry.DelayType(retry.FixedDelay),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
	)
}

// readChecksum requests the device CRC of the programmed region.
func (s *Session) readChecksum(offset, length uint32) (uint16, error) {
	seq := s.nextSeq()
	resp, err := s.exchange("read checksum", protocol.BuildReadChecksumCmd(seq, offset, length), seq, s.cfg.VerifyTimeout)
	if err != nil {
		return 0, err
	}
	return protocol.ParseChecksumResponse(resp.Payload)
}

// reboot issues the Reboot command. The device leaves the protocol
// context on reboot, so a missing reply is expected and never a failure.
func (s *Session) reboot() {
	seq := s.nextSeq()
	if _, err := s.exchange("reboot", protocol.BuildRebootCmd(seq), seq, s.cfg.HandshakeTimeout); err != nil {
		s.cfg.Logger.Debug("no reboot acknowledgment", zap.Error(err))
	}
}

// exchange sends one command frame and blocks for exactly one response:
// strict lock-step, the session's only suspension point. The response
// must decode, echo the request sequence number, and acknowledge.
func (s *Session) exchange(op string, wire []byte, seq uint16, timeout time.Duration) (*protocol.Frame, error) {
	if err := s.ch.Send(wire); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw, err := s.ch.Receive(timeout)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	resp, err := protocol.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if resp.Seq != seq {
		return nil, fmt.Errorf("%s: %w: response sequence %d for request %d",
			op, protocol.ErrMalformed, resp.Seq, seq)
	}

	if resp.Opcode != protocol.StatusAck {
		return nil, &protocol.StatusError{Operation: op, Code: resp.Opcode}
	}

	return resp, nil
}

// nextSeq returns the next request sequence number. The counter wraps
// by uint16 arithmetic; the device tolerates wraparound within one
// session.
func (s *Session) nextSeq() uint16 {
	s.seq++
	return s.seq
}

// setState advances the session state.
func (s *Session) setState(state State) {
	s.state = state
	s.cfg.Logger.Debug("state", zap.Stringer("state", state))
}

// fail marks the session Failed and wraps the cause with the state it
// failed in. The deferred channel close in Run takes care of the
// transport; no further device commands are issued.
func (s *Session) fail(in State, cause error) error {
	s.state = StateFailed
	s.cfg.Logger.Error("update failed", zap.Stringer("state", in), zap.Error(cause))
	return &SessionError{State: in, Cause: cause}
}
