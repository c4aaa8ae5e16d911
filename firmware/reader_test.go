package firmware

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/c0d3z3r0/aixun-t3x-updater/protocol"
)

// buildContainer assembles a valid JCID update container around payload.
// Callers corrupt the result to exercise validation paths.
func buildContainer(product, version string, payload []byte) []byte {
	data := make([]byte, HeaderSize+len(payload))
	copy(data, Magic)

	for i := productOffset; i < productOffset+productFieldSize; i++ {
		data[i] = 0xFF
	}
	copy(data[productOffset:], product)
	copy(data[versionOffset:], version)

	binary.BigEndian.PutUint32(data[sizeOffset:], uint32(len(payload)))
	binary.BigEndian.PutUint16(data[checksumOffset:], protocol.ImageChecksum(payload))
	copy(data[HeaderSize:], payload)

	return data
}

func TestLoad(t *testing.T) {
	payload := bytes.Repeat([]byte{0x5A, 0xA5, 0x00, 0xFF}, 1024)

	tests := []struct {
		name        string
		data        []byte
		wantErr     error
		wantProduct string
		wantVersion string
	}{
		{
			name:        "valid container",
			data:        buildContainer("JC_AiXun_T3A", "1.32", payload),
			wantProduct: "T3A",
			wantVersion: "1.32",
		},
		{
			name: "version indirection",
			data: func() []byte {
				data := buildContainer("JC_AiXun_T3B", "vers", payload)
				copy(data[versionAltOffset:], "1.40")
				return data
			}(),
			wantProduct: "T3B",
			wantVersion: "1.40",
		},
		{
			name:    "wrong magic",
			data:    append([]byte("ACME"), buildContainer("JC_AiXun_T3A", "1.32", payload)[4:]...),
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "truncated header",
			data:    buildContainer("JC_AiXun_T3A", "1.32", payload)[:0x80],
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "empty input",
			data:    nil,
			wantErr: ErrInvalidFormat,
		},
		{
			name: "declared size mismatch",
			data: func() []byte {
				data := buildContainer("JC_AiXun_T3A", "1.32", payload)
				binary.BigEndian.PutUint32(data[sizeOffset:], uint32(len(payload)+16))
				return data
			}(),
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "header only",
			data:    buildContainer("JC_AiXun_T3A", "1.32", nil),
			wantErr: ErrInvalidFormat,
		},
		{
			name: "corrupted payload",
			data: func() []byte {
				data := buildContainer("JC_AiXun_T3A", "1.32", payload)
				data[HeaderSize+100] ^= 0xFF
				return data
			}(),
			wantErr: ErrChecksumMismatch,
		},
		{
			name:    "payload exceeds flash capacity",
			data:    buildContainer("JC_AiXun_T3A", "1.32", make([]byte, FlashCapacity+1)),
			wantErr: ErrImageTooLarge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Load(tt.data)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("expected %v, got image %+v", tt.wantErr, img)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if img.Product != tt.wantProduct {
				t.Errorf("Product = %q, want %q", img.Product, tt.wantProduct)
			}
			if img.Version != tt.wantVersion {
				t.Errorf("Version = %q, want %q", img.Version, tt.wantVersion)
			}
			if img.TotalSize() != len(payload) {
				t.Errorf("TotalSize() = %d, want %d", img.TotalSize(), len(payload))
			}
			if img.Checksum != protocol.ImageChecksum(payload) {
				t.Errorf("Checksum = 0x%04X, want 0x%04X", img.Checksum, protocol.ImageChecksum(payload))
			}
			if len(img.Segments) != 1 || img.Segments[0].Offset != 0 {
				t.Errorf("Segments = %d starting at 0x%08X, want one segment at offset 0",
					len(img.Segments), img.Segments[0].Offset)
			}
		})
	}
}

func TestLoadCopiesPayload(t *testing.T) {
	payload := bytes.Repeat([]byte{0x11}, 256)
	data := buildContainer("JC_AiXun_T3A", "1.32", payload)

	img, err := Load(data)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	data[HeaderSize] = 0xFF
	if img.Segments[0].Data[0] != 0x11 {
		t.Error("image payload aliases the input buffer")
	}
}

func TestChunks(t *testing.T) {
	payload := make([]byte, 5000)
	for i := range payload {
		payload[i] = byte(i)
	}

	img, err := Load(buildContainer("JC_AiXun_T3A", "1.32", payload))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	tests := []struct {
		name      string
		chunkSize int
		wantCount int
	}{
		{"exact multiple", 1000, 5},
		{"with remainder", 2048, 3},
		{"chunk equals image size", 5000, 1},
		{"chunk larger than image", 8192, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks, err := img.Chunks(tt.chunkSize)
			if err != nil {
				t.Fatalf("Chunks() error: %v", err)
			}

			if len(chunks) != tt.wantCount {
				t.Fatalf("chunk count = %d, want %d", len(chunks), tt.wantCount)
			}

			// Reassembly must reproduce the payload exactly, in offset order.
			var reassembled []byte
			next := uint32(0)
			for _, c := range chunks {
				if c.Offset != next {
					t.Fatalf("chunk at offset 0x%08X, want 0x%08X", c.Offset, next)
				}
				reassembled = append(reassembled, c.Data...)
				next += uint32(len(c.Data))
			}
			if !bytes.Equal(reassembled, payload) {
				t.Error("reassembled chunks do not reproduce the payload")
			}
		})
	}

	if _, err := img.Chunks(0); err == nil {
		t.Error("expected error for zero chunk size, got nil")
	}
}

func TestImageGeometry(t *testing.T) {
	img := &Image{
		Segments: []Segment{
			{Offset: 0x1000, Data: make([]byte, 0x200)},
			{Offset: 0x2000, Data: make([]byte, 0x100)},
		},
	}

	if img.BaseOffset() != 0x1000 {
		t.Errorf("BaseOffset() = 0x%08X, want 0x1000", img.BaseOffset())
	}
	if img.Span() != 0x1100 {
		t.Errorf("Span() = 0x%08X, want 0x1100", img.Span())
	}
	if img.TotalSize() != 0x300 {
		t.Errorf("TotalSize() = %d, want %d", img.TotalSize(), 0x300)
	}
}

func TestValidateSegments(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		wantErr  bool
	}{
		{
			name: "valid disjoint segments",
			segments: []Segment{
				{Offset: 0, Data: make([]byte, 16)},
				{Offset: 16, Data: make([]byte, 16)},
			},
		},
		{
			name:     "no segments",
			segments: nil,
			wantErr:  true,
		},
		{
			name: "unsorted",
			segments: []Segment{
				{Offset: 32, Data: make([]byte, 16)},
				{Offset: 0, Data: make([]byte, 16)},
			},
			wantErr: true,
		},
		{
			name: "overlapping",
			segments: []Segment{
				{Offset: 0, Data: make([]byte, 32)},
				{Offset: 16, Data: make([]byte, 16)},
			},
			wantErr: true,
		},
		{
			name: "empty segment",
			segments: []Segment{
				{Offset: 0, Data: nil},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSegments(tt.segments)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
