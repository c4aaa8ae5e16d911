package firmware

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"github.com/c0d3z3r0/aixun-t3x-updater/protocol"
)

// JCID update container layout. All offsets are fixed; multi-byte header
// fields are big-endian. This is a compatibility contract with published
// update files, not a design choice.
const (
	// Magic identifies a JCID update container
	Magic = "JCID"

	// HeaderSize is the size of the container header; payload follows
	HeaderSize = 0x100

	// productOffset is where the 16-byte, 0xFF-padded product field starts
	productOffset = 0x20

	// productFieldSize is the size of the product field
	productFieldSize = 16

	// versionOffset is where the 4-byte version field starts
	versionOffset = 0x40

	// versionIndirection marks a header whose real version sits at
	// versionAltOffset instead
	versionIndirection = "vers"

	// versionAltOffset is the alternative version field location
	versionAltOffset = 0x47

	// versionFieldSize is the size of the version field
	versionFieldSize = 4

	// sizeOffset is where the big-endian u32 payload size field starts
	sizeOffset = 0x60

	// checksumOffset is where the big-endian u16 payload CRC-16 starts
	checksumOffset = 0x64

	// FlashCapacity is the application flash capacity of T3x control units
	FlashCapacity = 1 << 20
)

// Image validation errors. All are detected before any device
// communication takes place.
var (
	// ErrInvalidFormat indicates the file is not a JCID update container
	// or its header is inconsistent with the file contents.
	ErrInvalidFormat = errors.New("invalid update file format")

	// ErrImageTooLarge indicates the payload exceeds the device flash capacity.
	ErrImageTooLarge = errors.New("image exceeds flash capacity")

	// ErrChecksumMismatch indicates the payload does not match the
	// container's embedded checksum.
	ErrChecksumMismatch = errors.New("image checksum mismatch")
)

// LoadFile reads and validates a JCID update container from disk.
func LoadFile(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read update file: %w", err)
	}

	return Load(data)
}

// Load validates a JCID update container and returns the parsed image.
//
// Validation order: magic, declared size against actual size, flash
// capacity, payload checksum. A file for the wrong device family or with
// a damaged payload is rejected here, before any device communication.
func Load(data []byte) (*Image, error) {
	if len(data) < HeaderSize {
		return nil, fmt.Errorf("%w: %d bytes is smaller than the %d-byte header",
			ErrInvalidFormat, len(data), HeaderSize)
	}

	if string(data[:len(Magic)]) != Magic {
		return nil, fmt.Errorf("%w: missing %q magic", ErrInvalidFormat, Magic)
	}

	payloadSize := binary.BigEndian.Uint32(data[sizeOffset : sizeOffset+4])
	if int(payloadSize) != len(data)-HeaderSize {
		return nil, fmt.Errorf("%w: header declares %d payload bytes but file carries %d",
			ErrInvalidFormat, payloadSize, len(data)-HeaderSize)
	}
	if payloadSize == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidFormat)
	}
	if payloadSize > FlashCapacity {
		return nil, fmt.Errorf("%w: %d bytes, flash capacity is %d",
			ErrImageTooLarge, payloadSize, FlashCapacity)
	}

	payload := data[HeaderSize:]
	embedded := binary.BigEndian.Uint16(data[checksumOffset : checksumOffset+2])
	computed := protocol.ImageChecksum(payload)
	if computed != embedded {
		return nil, fmt.Errorf("%w: header declares 0x%04X, payload computes to 0x%04X",
			ErrChecksumMismatch, embedded, computed)
	}

	img := &Image{
		Product:  parseProduct(data),
		Version:  parseVersion(data),
		Checksum: embedded,
		Segments: []Segment{{Offset: 0, Data: append([]byte(nil), payload...)}},
	}

	if img.Product == "" {
		return nil, fmt.Errorf("%w: empty product field", ErrInvalidFormat)
	}

	if err := validateSegments(img.Segments); err != nil {
		return nil, err
	}

	return img, nil
}

// parseProduct extracts the product name: the 0xFF-padded field at 0x20,
// trimmed, last underscore-separated token.
func parseProduct(data []byte) string {
	field := bytes.TrimRight(data[productOffset:productOffset+productFieldSize], "\xff")
	parts := bytes.Split(field, []byte("_"))
	return string(parts[len(parts)-1])
}

// parseVersion extracts the version string, following the "vers"
// indirection used by newer containers.
func parseVersion(data []byte) string {
	field := data[versionOffset : versionOffset+versionFieldSize]
	if string(field) == versionIndirection {
		field = data[versionAltOffset : versionAltOffset+versionFieldSize]
	}
	return string(field)
}
