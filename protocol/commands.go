package protocol

import (
	"encoding/binary"
	"fmt"
)

// BuildIdentifyCmd constructs an Identify command frame.
// The response reports the device family, mode and transfer parameters.
func BuildIdentifyCmd(seq uint16) []byte {
	return Encode(CmdIdentify, seq, nil)
}

// BuildEnterBootCmd constructs an EnterBoot command frame.
// An application-mode device resets into the bootloader on receipt; the
// acknowledgment may be cut short by the reset.
func BuildEnterBootCmd(seq uint16) []byte {
	return Encode(CmdEnterBoot, seq, nil)
}

// BuildEraseCmd constructs an Erase command frame covering the flash
// region [offset, offset+length).
//
// Payload layout:
//
//	[OFFSET(4,LE)][LENGTH(4,LE)]
func BuildEraseCmd(seq uint16, offset, length uint32) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], offset)
	binary.LittleEndian.PutUint32(payload[4:8], length)
	return Encode(CmdErase, seq, payload)
}

// BuildWriteChunkCmd constructs a WriteChunk command frame programming
// data at the given flash offset.
//
// Payload layout:
//
//	[OFFSET(4,LE)][DATA...]
//
// Returns an error if the chunk is empty or exceeds MaxChunkSize.
func BuildWriteChunkCmd(seq uint16, offset uint32, data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("chunk data cannot be empty")
	}
	if len(data) > MaxChunkSize {
		return nil, fmt.Errorf("chunk length %d exceeds maximum %d bytes", len(data), MaxChunkSize)
	}

	payload := make([]byte, 0, 4+len(data))
	offsetBytes := make([]byte, 4)
	binary.LittleEndian.PutUint32(offsetBytes, offset)
	payload = append(payload, offsetBytes...)
	payload = append(payload, data...)

	return Encode(CmdWriteChunk, seq, payload), nil
}

// BuildReadChecksumCmd constructs a ReadChecksum command frame requesting
// the device CRC-16 of the flash region [offset, offset+length).
//
// Payload layout:
//
//	[OFFSET(4,LE)][LENGTH(4,LE)]
func BuildReadChecksumCmd(seq uint16, offset, length uint32) []byte {
	payload := make([]byte, 8)
	binary.LittleEndian.PutUint32(payload[0:4], offset)
	binary.LittleEndian.PutUint32(payload[4:8], length)
	return Encode(CmdReadChecksum, seq, payload)
}

// BuildRebootCmd constructs a Reboot command frame.
// The device leaves the bootloader and starts the application; a missing
// acknowledgment after reboot is expected.
func BuildRebootCmd(seq uint16) []byte {
	return Encode(CmdReboot, seq, nil)
}
