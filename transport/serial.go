package transport

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	// serialNumberPrefix identifies T3x stations among enumerated USB
	// serial devices.
	serialNumberPrefix = "JCID_T3"

	// baudRate is the bootloader link speed.
	baudRate = 115200

	// interByteTimeout bounds the wait for the remainder of a frame
	// once its first byte has arrived.
	interByteTimeout = 50 * time.Millisecond

	// receiveBufferSize is the read buffer size per drain iteration.
	receiveBufferSize = 512
)

// Serial is a Channel over a USB serial link to the station.
type Serial struct {
	port   serial.Port
	closed bool
}

// Find enumerates USB serial ports and returns the port name of the
// attached T3x. Returns ErrDeviceNotFound if none is attached and an
// error if several are, since the updater refuses to guess.
func Find() (string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", fmt.Errorf("enumerate serial ports: %w", err)
	}

	var matches []string
	for _, p := range ports {
		if p.IsUSB && strings.HasPrefix(p.SerialNumber, serialNumberPrefix) {
			matches = append(matches, p.Name)
		}
	}

	switch len(matches) {
	case 0:
		return "", ErrDeviceNotFound
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("multiple T3x devices attached: %s", strings.Join(matches, ", "))
	}
}

// Open finds the attached T3x and opens a channel to it.
func Open() (*Serial, error) {
	name, err := Find()
	if err != nil {
		return nil, err
	}
	return OpenPort(name)
}

// OpenPort opens a channel on a specific serial port.
func OpenPort(name string) (*Serial, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baudRate})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	return &Serial{port: port}, nil
}

// Send writes one complete frame to the device.
func (s *Serial) Send(p []byte) error {
	for len(p) > 0 {
		n, err := s.port.Write(p)
		if err != nil {
			return fmt.Errorf("serial write: %w", err)
		}
		p = p[n:]
	}
	return nil
}

// Receive reads one device response. The first byte is awaited with the
// caller's timeout; the remainder is drained with a short inter-byte
// timeout until the line goes quiet. Trailing NUL padding emitted by the
// bootloader is stripped.
func (s *Serial) Receive(timeout time.Duration) ([]byte, error) {
	if err := s.port.SetReadTimeout(timeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	buf := make([]byte, receiveBufferSize)
	n, err := s.port.Read(buf[:1])
	if err != nil {
		return nil, fmt.Errorf("serial read: %w", err)
	}
	if n == 0 {
		return nil, ErrTimeout
	}

	frame := append([]byte(nil), buf[:1]...)
	if err := s.port.SetReadTimeout(interByteTimeout); err != nil {
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	for {
		n, err := s.port.Read(buf)
		if err != nil {
			return nil, fmt.Errorf("serial read: %w", err)
		}
		if n == 0 {
			break
		}
		frame = append(frame, buf[:n]...)
	}

	return bytes.TrimRight(frame, "\x00"), nil
}

// Close releases the serial port. Idempotent.
func (s *Serial) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}
