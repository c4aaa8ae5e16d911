package protocol

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// DeviceInfo contains the device identification reported by the Identify
// command.
type DeviceInfo struct {
	// Family is the device family magic (must equal FamilyMagic)
	Family string

	// Mode is the reported device mode (ModeBootloader or ModeApplication)
	Mode byte

	// MaxChunkSize is the largest WriteChunk data size the device accepts
	MaxChunkSize uint16

	// ID is the device identification string, e.g. "JC_AiXun_T3A"
	ID string
}

// Product returns the product name embedded in the device ID string,
// the last underscore-separated token (e.g. "T3A").
func (d *DeviceInfo) Product() string {
	parts := strings.Split(d.ID, "_")
	return parts[len(parts)-1]
}

// ParseIdentifyResponse parses the data payload of an Identify response.
//
// Data format (IdentifyMinResponseSize bytes minimum):
//
//	[FAMILY(4)][MODE(1)][MAX_CHUNK(2,LE)][ID(variable)]
func ParseIdentifyResponse(data []byte) (*DeviceInfo, error) {
	if len(data) < IdentifyMinResponseSize {
		return nil, fmt.Errorf("invalid data length for Identify response: got %d bytes, minimum is %d",
			len(data), IdentifyMinResponseSize)
	}

	info := &DeviceInfo{
		Family:       string(data[0:4]),
		Mode:         data[4],
		MaxChunkSize: binary.LittleEndian.Uint16(data[5:7]),
		ID:           string(data[IdentifyMinResponseSize:]),
	}

	if info.Family != FamilyMagic {
		return nil, fmt.Errorf("unexpected device family %q, expected %q", info.Family, FamilyMagic)
	}

	if info.Mode != ModeBootloader && info.Mode != ModeApplication {
		return nil, fmt.Errorf("unknown device mode 0x%02X", info.Mode)
	}

	if info.MaxChunkSize == 0 {
		return nil, fmt.Errorf("device reported zero chunk size")
	}

	return info, nil
}

// ParseChecksumResponse parses the data payload of a ReadChecksum
// response and returns the device-computed CRC-16.
//
// Data format (2 bytes):
//
//	[CRC16(2,LE)]
func ParseChecksumResponse(data []byte) (uint16, error) {
	if len(data) != ChecksumResponseSize {
		return 0, fmt.Errorf("invalid data length for ReadChecksum response: got %d bytes, expected %d",
			len(data), ChecksumResponseSize)
	}

	return binary.LittleEndian.Uint16(data), nil
}
