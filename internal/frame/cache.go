package frame

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/protocol"
)

// Palette is the display-ready color table of a frame.
type Palette struct {
	Name     string
	Category string
	Table    protocol.EnhancementTable
}

// Palette naming
const (
	PaletteName     = "McIDAS-X"
	PaletteCategory = "Basic"
)

// DirtyFlags tells Refresh which products must be fetched again. They are
// set by the caller only.
type DirtyFlags struct {
	Image      bool
	Graphics   bool
	ColorTable bool
}

// Snapshot is everything Refresh assembled for one frame.
type Snapshot struct {
	Number    int
	Directory *protocol.Directory
	Palette   *Palette
	Image     Raster
	Overlay   Raster
}

// entry is one cached product. ok is false until a load succeeds.
type entry[T any] struct {
	value T
	ok    bool
}

// get returns the cached value, loading it when absent or when refresh is
// set. A failed load clears the entry and returns load's own result.
func (e *entry[T]) get(refresh bool, load func() (T, error)) (T, error) {
	if e.ok && !refresh {
		return e.value, nil
	}
	v, err := load()
	if err != nil {
		e.clear()
		return v, err
	}
	e.value, e.ok = v, true
	return v, nil
}

func (e *entry[T]) clear() {
	var zero T
	e.value, e.ok = zero, false
}

// Frame caches the decoded products of one engine frame. Each accessor
// takes a refresh argument; without it the cached product is returned.
// Two frames are equal when their numbers are.
//
// A Frame is not safe for concurrent use.
type Frame struct {
	client *Client

	lineSize    entry[int]
	elementSize entry[int]
	directory   entry[*protocol.Directory]
	palette     entry[*Palette]
	image       entry[[]byte]   // wire order
	graphics    entry[[]string] // raw records
}

// NewFrame creates a frame cache backed by a new Client
func NewFrame(number int, info *bridge.Info, transport bridge.Transport, opts ...Option) *Frame {
	return &Frame{client: NewClient(number, info, transport, opts...)}
}

// Number returns the frame number
func (f *Frame) Number() int { return f.client.Number() }

// Client returns the underlying protocol client
func (f *Frame) Client() *Client { return f.client }

// SetRefreshData marks the client's table+pixel data stale
func (f *Frame) SetRefreshData(refresh bool) {
	f.client.SetRefreshData(refresh)
}

// Invalidate drops every cached product and the client's data
func (f *Frame) Invalidate() {
	f.client.Invalidate()
	f.lineSize.clear()
	f.elementSize.clear()
	f.directory.clear()
	f.palette.clear()
	f.image.clear()
	f.graphics.clear()
}

// LineSize returns the frame height, or -1 with the error
func (f *Frame) LineSize(ctx context.Context, refresh bool) (int, error) {
	return f.lineSize.get(refresh, func() (int, error) { return f.client.LineSize(ctx) })
}

// ElementSize returns the frame width, or -1 with the error
func (f *Frame) ElementSize(ctx context.Context, refresh bool) (int, error) {
	return f.elementSize.get(refresh, func() (int, error) { return f.client.ElementSize(ctx) })
}

// FrameDirectory returns the decoded directory
func (f *Frame) FrameDirectory(ctx context.Context, refresh bool) (*protocol.Directory, error) {
	return f.directory.get(refresh, func() (*protocol.Directory, error) { return f.client.FrameDirectory(ctx) })
}

// ColorTable returns the frame's palette
func (f *Frame) ColorTable(ctx context.Context, refresh bool) (*Palette, error) {
	return f.palette.get(refresh, func() (*Palette, error) {
		et, err := f.client.EnhancementTable(ctx)
		if err != nil {
			return nil, err
		}
		return &Palette{Name: PaletteName, Category: PaletteCategory, Table: et}, nil
	})
}

// dims returns the cached height and width
func (f *Frame) dims(ctx context.Context, refresh bool) (int, int, error) {
	height, err := f.LineSize(ctx, refresh)
	if err != nil {
		return -1, -1, err
	}
	width, err := f.ElementSize(ctx, refresh)
	if err != nil {
		return -1, -1, err
	}
	return height, width, nil
}

// ImageData returns the raster with its top row first. The flip runs on
// every call, so the result is always a fresh copy.
func (f *Frame) ImageData(ctx context.Context, refresh bool) ([]byte, error) {
	raw, err := f.image.get(refresh, func() ([]byte, error) { return f.client.Image(ctx) })
	if err != nil {
		return []byte{}, err
	}
	height, width, err := f.dims(ctx, refresh)
	if err != nil {
		return []byte{}, err
	}
	if len(raw) != height*width {
		return []byte{}, bridge.NewMalformedError("image", f.Number(),
			fmt.Sprintf("%d pixels cached for a %dx%d frame", len(raw), height, width))
	}
	return FlipRows(raw, height, width), nil
}

// GraphicsData returns the overlay composited from the cached records.
// Compositing runs on every call. Records that do not parse are skipped.
func (f *Frame) GraphicsData(ctx context.Context, refresh bool) ([]byte, error) {
	records, err := f.graphics.get(refresh, func() ([]string, error) { return f.client.Graphics(ctx) })
	if err != nil {
		return []byte{}, err
	}
	height, width, err := f.dims(ctx, false)
	if err != nil {
		return []byte{}, err
	}

	overlay, skipped := Composite(records, height, width)
	for _, rec := range skipped {
		logging.Warn("Overlay record skipped",
			zap.Int("frame", f.Number()),
			zap.String("record", rec),
		)
	}
	return overlay, nil
}

// GIF returns the engine's snapshot of the frame. It is never cached.
func (f *Frame) GIF(ctx context.Context) ([]byte, error) {
	return f.client.GIF(ctx)
}

// Refresh assembles a Snapshot, re-fetching the products named by flags.
// Stale image or color data marks the client for a new table+pixel fetch,
// which then serves the size, palette and image steps.
func (f *Frame) Refresh(ctx context.Context, flags DirtyFlags) (*Snapshot, error) {
	f.SetRefreshData(flags.Image || flags.ColorTable)

	dir, err := f.FrameDirectory(ctx, flags.Image)
	if err != nil {
		return nil, err
	}
	height, width, err := f.dims(ctx, flags.Image)
	if err != nil {
		return nil, err
	}
	pal, err := f.ColorTable(ctx, flags.ColorTable)
	if err != nil {
		return nil, err
	}
	img, err := f.ImageData(ctx, flags.Image)
	if err != nil {
		return nil, err
	}
	overlay, err := f.GraphicsData(ctx, flags.Graphics)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Number:    f.Number(),
		Directory: dir,
		Palette:   pal,
		Image:     Raster{Height: height, Width: width, Pix: img},
		Overlay:   Raster{Height: height, Width: width, Pix: overlay},
	}, nil
}

// Equal reports whether two frames have the same number
func (f *Frame) Equal(other *Frame) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.Number() == other.Number()
}

// String returns "Frame N", or "" for frame numbers below 1
func (f *Frame) String() string {
	if f.Number() > 0 {
		return "Frame " + strconv.Itoa(f.Number())
	}
	return ""
}
