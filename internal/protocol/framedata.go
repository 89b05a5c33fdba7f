package protocol

import (
	"context"
	"fmt"
	"io"
)

// maxPixels bounds height*width so a corrupt size pair cannot force a huge
// allocation
const maxPixels = 1 << 28

// FrameData is the decoded content of a frame data stream.
type FrameData struct {
	Height   int
	Width    int
	Stretch  LookupTable
	Color    LookupTable
	Graphics LookupTable
	Pixels   []byte // wire order, bottom row first
}

// Enhancement derives the display palette from the frame's tables
func (fd *FrameData) Enhancement() EnhancementTable {
	return NewEnhancementTable(fd.Stretch, fd.Color)
}

// String returns a short summary of the frame data
func (fd *FrameData) String() string {
	return fmt.Sprintf("FrameData{height=%d, width=%d, pixels=%d}", fd.Height, fd.Width, len(fd.Pixels))
}

// ReadFrameData decodes a table+pixel stream. The reads happen in the only
// order the stream framing allows: height, width, stretch, color, graphics,
// then height*width pixel bytes under the retry policy.
func ReadFrameData(ctx context.Context, r io.Reader, p RetryPolicy) (*FrameData, ReadResult, error) {
	src := NewStreamWords(r)
	fd := &FrameData{}

	dims, err := src.ReadWords(2)
	if err != nil {
		return nil, ReadResult{}, fmt.Errorf("read frame size: %w", err)
	}
	fd.Height, fd.Width = int(dims[0]), int(dims[1])
	if fd.Height < 0 || fd.Width < 0 || int64(fd.Height)*int64(fd.Width) > maxPixels {
		return nil, ReadResult{}, fmt.Errorf("%w: frame size %dx%d", ErrMalformed, fd.Height, fd.Width)
	}

	tables := []struct {
		name string
		dst  *LookupTable
	}{
		{"stretch", &fd.Stretch},
		{"color", &fd.Color},
		{"graphics", &fd.Graphics},
	}
	for _, t := range tables {
		tbl, err := ReadTable(src)
		if err != nil {
			return nil, ReadResult{}, fmt.Errorf("read %s table: %w", t.name, err)
		}
		*t.dst = tbl
	}

	fd.Pixels = make([]byte, fd.Height*fd.Width)
	res, err := ReadFull(ctx, r, fd.Pixels, p)
	if err != nil {
		return nil, res, fmt.Errorf("read pixels: %w", err)
	}
	return fd, res, nil
}

// EncodeFrameData renders fd as a table+pixel stream
func EncodeFrameData(fd *FrameData) []byte {
	words := make([]int32, 0, 2+3*TableSize)
	words = append(words, int32(fd.Height), int32(fd.Width))
	words = append(words, fd.Stretch[:]...)
	words = append(words, fd.Color[:]...)
	words = append(words, fd.Graphics[:]...)
	return append(EncodeWords(words), fd.Pixels...)
}
