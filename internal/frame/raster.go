package frame

import (
	"fmt"

	"github.com/muurk/framebridge/internal/protocol"
)

// Background is the overlay value meaning "no graphics here"
const Background = 255

// Raster is a height×width grid of palette indices, top row first.
type Raster struct {
	Height int
	Width  int
	Pix    []byte
}

// At returns the value at row, col
func (r Raster) At(row, col int) byte {
	return r.Pix[row*r.Width+col]
}

// Row returns one row of the raster
func (r Raster) Row(row int) []byte {
	return r.Pix[row*r.Width : (row+1)*r.Width]
}

func (r Raster) String() string {
	return fmt.Sprintf("Raster{%dx%d}", r.Height, r.Width)
}

// FlipRows returns a copy of pix with its rows in reverse order: row i of
// the result is row height-1-i of the input. The engine sends rows bottom
// first, so this turns a wire raster into a top-first one and back.
func FlipRows(pix []byte, height, width int) []byte {
	out := make([]byte, height*width)
	for i := 0; i < height; i++ {
		copy(out[i*width:(i+1)*width], pix[(height-1-i)*width:(height-i)*width])
	}
	return out
}

// Composite draws overlay records onto a height×width grid filled with
// Background. A record "Y X COLOR" lands at row Y-1, column X-1 only when
// 0 < X < width and 0 < Y < height; other points are dropped. Records that
// do not parse are returned in skipped.
func Composite(records []string, height, width int) (overlay []byte, skipped []string) {
	overlay = make([]byte, height*width)
	for i := range overlay {
		overlay[i] = Background
	}

	for _, rec := range records {
		pt, err := protocol.ParseOverlayRecord(rec)
		if err != nil {
			skipped = append(skipped, rec)
			continue
		}
		if pt.X > 0 && pt.X < width && pt.Y > 0 && pt.Y < height {
			overlay[(pt.Y-1)*width+(pt.X-1)] = byte(pt.Color)
		}
	}
	return overlay, skipped
}
