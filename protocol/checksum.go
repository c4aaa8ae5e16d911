package protocol

import "hash/crc32"

// Image CRC-16 parameters, matching the checksum embedded in JCID update
// containers: polynomial 0x8005 reflected, initial value 0xFFFF, no final
// XOR.
const (
	// CRC16Polynomial is the reflected form of polynomial 0x8005
	CRC16Polynomial = 0xA001

	// CRC16InitialValue is the CRC-16 initial value
	CRC16InitialValue = 0xFFFF

	// BitsPerByte is the number of bits per byte
	BitsPerByte = 8
)

// frameChecksum computes the 32-bit integrity checksum of a frame.
// It covers all bytes from OPCODE through the end of PAYLOAD, excluding
// SOF, CRC32 and EOF.
func frameChecksum(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

// ImageChecksum computes the CRC-16 of firmware payload data.
//
// This is the checksum embedded at offset 0x64 of a JCID update container
// and the value the bootloader returns for a ReadChecksum command, so it
// is used both to validate an update file and to verify programming.
func ImageChecksum(data []byte) uint16 {
	crc := uint16(CRC16InitialValue)

	for _, b := range data {
		crc ^= uint16(b)
		for i := 0; i < BitsPerByte; i++ {
			if crc&1 != 0 {
				crc = (crc >> 1) ^ CRC16Polynomial
			} else {
				crc >>= 1
			}
		}
	}

	return crc
}
