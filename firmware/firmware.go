package firmware

import (
	"fmt"
	"sort"
)

// Image is a validated firmware update image, created once by Load and
// immutable afterward.
type Image struct {
	// Product is the target product name from the container header, e.g. "T3A"
	Product string

	// Version is the firmware version string from the container header
	Version string

	// Checksum is the container's embedded CRC-16 of the whole payload
	Checksum uint16

	// Segments are the programmable regions, sorted by offset
	Segments []Segment
}

// Segment is a contiguous region of firmware data at a flash offset.
type Segment struct {
	// Offset is the flash offset the data is programmed at
	Offset uint32

	// Data is the segment payload
	Data []byte
}

// Chunk is a bounded-size slice of a segment, sent as one WriteChunk command.
type Chunk struct {
	// Offset is the absolute flash offset of this chunk
	Offset uint32

	// Data is the chunk payload
	Data []byte
}

// End returns the first flash offset past the segment.
func (s Segment) End() uint32 {
	return s.Offset + uint32(len(s.Data))
}

// TotalSize returns the total number of payload bytes across all segments.
func (img *Image) TotalSize() int {
	total := 0
	for _, seg := range img.Segments {
		total += len(seg.Data)
	}
	return total
}

// BaseOffset returns the lowest flash offset occupied by the image.
func (img *Image) BaseOffset() uint32 {
	return img.Segments[0].Offset
}

// Span returns the number of flash bytes between the image's base offset
// and the end of its last segment. This is the region the device erases
// and checksums.
func (img *Image) Span() uint32 {
	last := img.Segments[len(img.Segments)-1]
	return last.End() - img.BaseOffset()
}

// Chunks splits the image into chunks of at most chunkSize bytes, in
// increasing offset order. Chunks never cross segment boundaries, so
// concatenating all chunk data of one segment reproduces that segment's
// bytes exactly.
func (img *Image) Chunks(chunkSize int) ([]Chunk, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	chunks := make([]Chunk, 0, img.TotalSize()/chunkSize+len(img.Segments))
	for _, seg := range img.Segments {
		for off := 0; off < len(seg.Data); off += chunkSize {
			end := off + chunkSize
			if end > len(seg.Data) {
				end = len(seg.Data)
			}
			chunks = append(chunks, Chunk{
				Offset: seg.Offset + uint32(off),
				Data:   seg.Data[off:end],
			})
		}
	}

	return chunks, nil
}

// validateSegments checks the image invariants: at least one non-empty
// segment, sorted by offset, non-overlapping, total size within the
// device flash capacity.
func validateSegments(segments []Segment) error {
	if len(segments) == 0 {
		return fmt.Errorf("image has no segments")
	}

	if !sort.SliceIsSorted(segments, func(i, j int) bool {
		return segments[i].Offset < segments[j].Offset
	}) {
		return fmt.Errorf("segments not sorted by offset")
	}

	total := 0
	for i, seg := range segments {
		if len(seg.Data) == 0 {
			return fmt.Errorf("segment %d at offset 0x%08X is empty", i, seg.Offset)
		}
		if i > 0 && segments[i-1].End() > seg.Offset {
			return fmt.Errorf("segment %d at offset 0x%08X overlaps previous segment ending at 0x%08X",
				i, seg.Offset, segments[i-1].End())
		}
		total += len(seg.Data)
	}

	if total > FlashCapacity {
		return fmt.Errorf("%w: %d bytes, flash capacity is %d", ErrImageTooLarge, total, FlashCapacity)
	}

	return nil
}
