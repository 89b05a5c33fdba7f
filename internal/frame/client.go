package frame

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/metrics"
	"github.com/muurk/framebridge/internal/protocol"
)

// DefaultMaxGIFBytes is the snapshot read budget. Longer snapshots are
// truncated without error.
const DefaultMaxGIFBytes = 1 << 20

// Client fetches and decodes one frame's table+pixel stream. The decoded
// data is held until it is invalidated; a failed fetch clears it, so the
// next Load always goes back to the engine.
//
// A Client is not safe for concurrent use.
type Client struct {
	number    int
	info      *bridge.Info
	transport bridge.Transport
	policy    protocol.RetryPolicy
	names     protocol.SensorNamer
	maxGIF    int

	data    *protocol.FrameData // nil until fetched
	refresh bool
}

// Option configures a Client
type Option func(*Client)

// WithRetryPolicy sets the pixel read policy
func WithRetryPolicy(p protocol.RetryPolicy) Option {
	return func(c *Client) { c.policy = p }
}

// WithSensorNamer sets the resolver for directory sensor names
func WithSensorNamer(n protocol.SensorNamer) Option {
	return func(c *Client) { c.names = n }
}

// WithMaxGIFBytes sets the snapshot read budget
func WithMaxGIFBytes(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxGIF = n
		}
	}
}

// NewClient creates a client for frame number over transport. info is kept
// for the set descriptors built from this frame.
func NewClient(number int, info *bridge.Info, transport bridge.Transport, opts ...Option) *Client {
	c := &Client{
		number:    number,
		info:      info,
		transport: transport,
		policy:    protocol.DefaultRetryPolicy(),
		maxGIF:    DefaultMaxGIFBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Number returns the frame number
func (c *Client) Number() int { return c.number }

// Info returns the connection parameters the client was created with
func (c *Client) Info() *bridge.Info { return c.info }

// SetRefreshData marks the loaded data stale so the next Load fetches
// again. false leaves the current state alone.
func (c *Client) SetRefreshData(refresh bool) {
	if refresh {
		c.refresh = true
	}
}

// Invalidate drops the loaded data
func (c *Client) Invalidate() {
	c.data = nil
	c.refresh = false
}

// Data returns the loaded data without fetching
func (c *Client) Data() (*protocol.FrameData, error) {
	if c.data == nil {
		return nil, bridge.Wrap("data", c.number, bridge.ErrNotFetched)
	}
	return c.data, nil
}

// Load returns the loaded data, fetching it first if there is none or it
// has been marked stale.
func (c *Client) Load(ctx context.Context) (*protocol.FrameData, error) {
	if c.data != nil && !c.refresh {
		return c.data, nil
	}
	return c.Fetch(ctx)
}

// Fetch runs a full fetch-decode cycle: size, stretch, color and graphics
// tables, then the pixel block under the retry policy. On failure the
// loaded data is cleared and the error returned.
func (c *Client) Fetch(ctx context.Context) (*protocol.FrameData, error) {
	start := time.Now()
	c.data = nil

	fd, err := c.fetch(ctx)
	logging.LogFetch(c.number, "data", time.Since(start), err)
	if err != nil {
		metrics.RecordFetch("data", outcome(err))
		return nil, err
	}

	metrics.RecordFetch("data", metrics.OutcomeOK)
	c.data = fd
	c.refresh = false
	return fd, nil
}

func (c *Client) fetch(ctx context.Context) (*protocol.FrameData, error) {
	body, err := c.transport.OpenData(ctx, c.number)
	if err != nil {
		return nil, bridge.Wrap("open_data", c.number, err)
	}
	defer func() { _ = body.Close() }()

	fd, res, err := protocol.ReadFrameData(ctx, body, c.policy)
	if res.Attempts > 0 {
		metrics.RecordPixelRead(res.Attempts)
	}
	if err != nil {
		return nil, bridge.Wrap("read_data", c.number, err)
	}
	return fd, nil
}

// LineSize returns the frame height, or -1 with the error
func (c *Client) LineSize(ctx context.Context) (int, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return -1, err
	}
	return fd.Height, nil
}

// ElementSize returns the frame width, or -1 with the error
func (c *Client) ElementSize(ctx context.Context) (int, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return -1, err
	}
	return fd.Width, nil
}

// StretchTable returns the stretch table, zeroed on error
func (c *Client) StretchTable(ctx context.Context) (protocol.LookupTable, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return protocol.LookupTable{}, err
	}
	return fd.Stretch, nil
}

// ColorTable returns the color table, zeroed on error
func (c *Client) ColorTable(ctx context.Context) (protocol.LookupTable, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return protocol.LookupTable{}, err
	}
	return fd.Color, nil
}

// GraphicsTable returns the graphics table, zeroed on error
func (c *Client) GraphicsTable(ctx context.Context) (protocol.LookupTable, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return protocol.LookupTable{}, err
	}
	return fd.Graphics, nil
}

// Image returns the raw pixel block in wire order (bottom row first),
// empty on error.
func (c *Client) Image(ctx context.Context) ([]byte, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return []byte{}, err
	}
	return fd.Pixels, nil
}

// EnhancementTable derives the palette from the loaded tables, zeroed on
// error.
func (c *Client) EnhancementTable(ctx context.Context) (protocol.EnhancementTable, error) {
	fd, err := c.Load(ctx)
	if err != nil {
		return protocol.EnhancementTable{}, err
	}
	return fd.Enhancement(), nil
}

// DirectoryFile returns the engine file name holding a frame's directory
func DirectoryFile(number int) string {
	return "Frame" + strconv.Itoa(number) + ".0"
}

// FrameDirectory fetches and decodes the frame directory. It is independent
// of the loaded table+pixel data.
func (c *Client) FrameDirectory(ctx context.Context) (*protocol.Directory, error) {
	start := time.Now()
	dir, err := c.frameDirectory(ctx)
	logging.LogFetch(c.number, "directory", time.Since(start), err)
	if err != nil {
		metrics.RecordFetch("directory", outcome(err))
		return nil, err
	}
	metrics.RecordFetch("directory", metrics.OutcomeOK)
	return dir, nil
}

func (c *Client) frameDirectory(ctx context.Context) (*protocol.Directory, error) {
	body, err := c.transport.OpenFile(ctx, DirectoryFile(c.number))
	if err != nil {
		return nil, bridge.Wrap("open_directory", c.number, err)
	}
	defer func() { _ = body.Close() }()

	dir, err := protocol.DecodeDirectory(protocol.NewStreamWords(body), c.names)
	if err != nil {
		return nil, bridge.Wrap("read_directory", c.number, err)
	}
	return dir, nil
}

// Graphics returns the raw overlay records, in stream order
func (c *Client) Graphics(ctx context.Context) ([]string, error) {
	start := time.Now()
	records, err := c.graphics(ctx)
	logging.LogFetch(c.number, "graphics", time.Since(start), err)
	if err != nil {
		metrics.RecordFetch("graphics", outcome(err))
		return records, err
	}
	metrics.RecordFetch("graphics", metrics.OutcomeOK)
	return records, nil
}

func (c *Client) graphics(ctx context.Context) ([]string, error) {
	body, err := c.transport.OpenGraphics(ctx, c.number)
	if err != nil {
		return []string{}, bridge.Wrap("open_graphics", c.number, err)
	}
	defer func() { _ = body.Close() }()

	records, err := protocol.ReadRecords(body)
	if err != nil {
		return records, bridge.Wrap("read_graphics", c.number, err)
	}
	return records, nil
}

// GIF returns the encoded snapshot, truncated to the read budget
func (c *Client) GIF(ctx context.Context) ([]byte, error) {
	body, err := c.transport.OpenGIF(ctx, c.number)
	if err != nil {
		return []byte{}, bridge.Wrap("open_gif", c.number, err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, int64(c.maxGIF)))
	if err != nil {
		return data, bridge.Wrap("read_gif", c.number, err)
	}
	return data, nil
}

// String returns the client state
func (c *Client) String() string {
	if c.data == nil {
		return fmt.Sprintf("Client{frame=%d, loaded=false}", c.number)
	}
	return fmt.Sprintf("Client{frame=%d, loaded=true, %s}", c.number, c.data)
}

func outcome(err error) string {
	switch {
	case bridge.IsRetryExhausted(err):
		return metrics.OutcomeRetryExhausted
	case bridge.IsMalformed(err):
		return metrics.OutcomeMalformed
	default:
		return metrics.OutcomeTransport
	}
}
