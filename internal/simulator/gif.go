package simulator

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"

	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
)

// gif returns the snapshot of a frame, rendering it from the frame data
// when no GIF was stored
func (e *Engine) gif(number int) ([]byte, bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.frames[number]
	if !ok {
		return nil, false, nil
	}
	if f.GIF != nil {
		return f.GIF, true, nil
	}
	if f.Data == nil {
		return nil, false, nil
	}
	data, err := RenderGIF(f.Data)
	if err != nil {
		return nil, true, err
	}
	return data, true, nil
}

// RenderGIF draws frame data top row first through its enhancement table
func RenderGIF(fd *protocol.FrameData) ([]byte, error) {
	et := fd.Enhancement()
	palette := make(color.Palette, protocol.TableSize)
	for i := range palette {
		r, g, b := et.RGB(i)
		palette[i] = color.RGBA{R: scale(r), G: scale(g), B: scale(b), A: 0xff}
	}

	img := image.NewPaletted(image.Rect(0, 0, fd.Width, fd.Height), palette)
	copy(img.Pix, frame.FlipRows(fd.Pixels, fd.Height, fd.Width))

	var buf bytes.Buffer
	if err := gif.Encode(&buf, img, &gif.Options{NumColors: protocol.TableSize}); err != nil {
		return nil, fmt.Errorf("encode GIF: %w", err)
	}
	return buf.Bytes(), nil
}

// scale maps a 0..1 palette component to a byte
func scale(v float32) uint8 {
	switch {
	case v <= 0:
		return 0
	case v >= 1:
		return 0xff
	}
	return uint8(v*0xff + 0.5)
}
