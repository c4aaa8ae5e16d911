package protocol

import (
	"bytes"
	"testing"
)

func TestImageChecksum(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		expected uint16
	}{
		{
			name:     "empty data",
			data:     []byte{},
			expected: 0xFFFF, // initial value, nothing folded in
		},
		{
			name:     "standard check sequence",
			data:     []byte("123456789"),
			expected: 0x4B37,
		},
		{
			name:     "small sequence",
			data:     []byte{0x01, 0x02, 0x03, 0x04},
			expected: 0x2BA1,
		},
		{
			name:     "erased flash page",
			data:     bytes.Repeat([]byte{0xFF}, 256),
			expected: 0x30FF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ImageChecksum(tt.data)
			if result != tt.expected {
				t.Errorf("ImageChecksum() = 0x%04X, want 0x%04X", result, tt.expected)
			}
		})
	}
}

func TestFrameChecksum(t *testing.T) {
	// CRC-32 IEEE check value for the standard test sequence.
	result := frameChecksum([]byte("123456789"))
	if result != 0xCBF43926 {
		t.Errorf("frameChecksum() = 0x%08X, want 0xCBF43926", result)
	}
}

func BenchmarkImageChecksum(b *testing.B) {
	data := make([]byte, MaxChunkSize)
	for i := range data {
		data[i] = byte(i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ImageChecksum(data)
	}
}
