package ui

import (
	"strings"

	"github.com/muurk/framebridge/internal/frame"
)

// shadeRamp maps brightness to characters, darkest first
const shadeRamp = " .:-=+*#%@"

// OverlayMark is drawn where the overlay has graphics
const OverlayMark = 'o'

// RenderPreview draws img as text at most cols characters wide. Terminal
// cells are about twice as tall as wide, so every output row covers two
// columns' worth of pixel rows. Where overlay is not background the cell
// shows OverlayMark. An overlay with no pixels is ignored.
func RenderPreview(img, overlay frame.Raster, cols int) string {
	if img.Height <= 0 || img.Width <= 0 || cols <= 0 {
		return ""
	}
	outCols := cols
	if outCols > img.Width {
		outCols = img.Width
	}
	outRows := img.Height * outCols / (img.Width * 2)
	if outRows < 1 {
		outRows = 1
	}
	useOverlay := len(overlay.Pix) == len(img.Pix) && overlay.Width == img.Width

	var b strings.Builder
	for r := 0; r < outRows; r++ {
		row := r * img.Height / outRows
		for c := 0; c < outCols; c++ {
			col := c * img.Width / outCols
			if useOverlay && overlay.At(row, col) != frame.Background {
				b.WriteByte(OverlayMark)
				continue
			}
			b.WriteByte(shadeRamp[int(img.At(row, col))*len(shadeRamp)/256])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
