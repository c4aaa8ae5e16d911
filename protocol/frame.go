package protocol

import (
	"encoding/binary"
	"fmt"
)

// Frame is one decoded protocol frame.
//
// In a command frame Opcode is one of the Cmd* constants; in a response
// frame it carries the Status* code and Seq echoes the request sequence
// number. Frames are built per exchange and never reused.
type Frame struct {
	// Opcode is the command opcode or response status code
	Opcode byte

	// Seq is the frame sequence number. It increases per direction
	// within a session and wraps by uint16 arithmetic.
	Seq uint16

	// Payload is the frame data (may be empty)
	Payload []byte

	// Checksum is the CRC-32 received with the frame
	Checksum uint32
}

// Encode serializes a frame into its on-wire byte layout:
//
//	[SOF][OPCODE][SEQ_L][SEQ_H][LEN_L][LEN_H][PAYLOAD...][CRC32(4,LE)][EOF]
//
// The CRC-32 covers OPCODE through PAYLOAD.
func Encode(opcode byte, seq uint16, payload []byte) []byte {
	frame := make([]byte, 0, MinFrameSize+len(payload))

	frame = append(frame, StartOfFrame)
	frame = append(frame, opcode)

	seqBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(seqBytes, seq)
	frame = append(frame, seqBytes...)

	lenBytes := make([]byte, 2)
	binary.LittleEndian.PutUint16(lenBytes, uint16(len(payload)))
	frame = append(frame, lenBytes...)

	frame = append(frame, payload...)

	checksum := frameChecksum(frame[1:])
	crcBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(crcBytes, checksum)
	frame = append(frame, crcBytes...)

	frame = append(frame, EndOfFrame)

	return frame
}

// Decode parses and validates a received frame.
//
// It rejects frames whose declared payload length disagrees with the
// received byte count (ErrMalformed) and frames whose checksum fails
// recomputation (ErrChecksumMismatch). It never panics on truncated or
// garbage input.
func Decode(buf []byte) (*Frame, error) {
	if len(buf) < MinFrameSize {
		return nil, fmt.Errorf("%w: %d bytes, minimum is %d", ErrMalformed, len(buf), MinFrameSize)
	}

	if buf[0] != StartOfFrame {
		return nil, fmt.Errorf("%w: invalid start of frame 0x%02X", ErrMalformed, buf[0])
	}

	if buf[len(buf)-1] != EndOfFrame {
		return nil, fmt.Errorf("%w: invalid end of frame 0x%02X", ErrMalformed, buf[len(buf)-1])
	}

	payloadLen := binary.LittleEndian.Uint16(buf[4:6])
	if len(buf) != MinFrameSize+int(payloadLen) {
		return nil, fmt.Errorf("%w: declared payload length %d but frame is %d bytes",
			ErrMalformed, payloadLen, len(buf))
	}

	received := binary.LittleEndian.Uint32(buf[len(buf)-5 : len(buf)-1])
	computed := frameChecksum(buf[1 : len(buf)-5])
	if received != computed {
		return nil, fmt.Errorf("%w: got 0x%08X, computed 0x%08X",
			ErrChecksumMismatch, received, computed)
	}

	frame := &Frame{
		Opcode:   buf[1],
		Seq:      binary.LittleEndian.Uint16(buf[2:4]),
		Checksum: received,
	}

	if payloadLen > 0 {
		frame.Payload = make([]byte, payloadLen)
		copy(frame.Payload, buf[HeaderSize+1:HeaderSize+1+int(payloadLen)])
	}

	return frame, nil
}
