package bridge

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/metrics"
)

// Transport opens the engine's byte streams. Every call returns a fresh
// stream the caller must drain and close.
type Transport interface {
	OpenData(ctx context.Context, frame int) (io.ReadCloser, error)
	OpenGraphics(ctx context.Context, frame int) (io.ReadCloser, error)
	OpenFile(ctx context.Context, name string) (io.ReadCloser, error)
	OpenGIF(ctx context.Context, frame int) (io.ReadCloser, error)
}

// Engine is a Transport that can also answer frame queries and run commands.
type Engine interface {
	Transport
	CurrentFrame(ctx context.Context) (int, error)
	NumberOfFrames(ctx context.Context) (int, error)
	FrameNumbers(ctx context.Context) ([]int, error)
	Command(ctx context.Context, line string, frame int) ([]string, error)
}

// HTTPTransport talks to the engine's HTTP bridge.
type HTTPTransport struct {
	// Info supplies the request URLs. Changes to it apply to the next call.
	Info *Info

	// HTTPClient is the underlying HTTP client. Its timeout is 0 by default,
	// so a stalled stream blocks until ctx is done.
	HTTPClient *http.Client
}

// NewHTTPTransport creates a transport for info
func NewHTTPTransport(info *Info) *HTTPTransport {
	return &HTTPTransport{
		Info:       info,
		HTTPClient: &http.Client{},
	}
}

// SetTimeout sets the HTTP request timeout (0 = none)
func (t *HTTPTransport) SetTimeout(timeout time.Duration) {
	t.HTTPClient.Timeout = timeout
}

// open issues a GET and returns the body when the bridge answers 200
func (t *HTTPTransport) open(ctx context.Context, op string, frame int, stream string, rawURL string) (io.ReadCloser, error) {
	logging.LogRequest(op, rawURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, NewTransportError(op, frame, err)
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		metrics.RecordFetch(op, metrics.OutcomeTransport)
		return nil, NewTransportError(op, frame, err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		metrics.RecordFetch(op, metrics.OutcomeTransport)
		return nil, NewStatusError(op, frame, resp.StatusCode)
	}

	return &countingBody{ReadCloser: resp.Body, stream: stream}, nil
}

// resolve maps frame numbers below 1 to the engine's current frame
func (t *HTTPTransport) resolve(ctx context.Context, frame int) (int, error) {
	if frame >= 1 {
		return frame, nil
	}
	current, err := t.CurrentFrame(ctx)
	if err != nil {
		return 0, err
	}
	logging.Debug("Resolved current frame", zap.Int("frame", current))
	return current, nil
}

// OpenData opens the table+pixel stream of a frame
func (t *HTTPTransport) OpenData(ctx context.Context, frame int) (io.ReadCloser, error) {
	frame, err := t.resolve(ctx, frame)
	if err != nil {
		return nil, err
	}
	return t.open(ctx, "open_data", frame, "data", t.Info.DataRequest(frame))
}

// OpenGraphics opens the overlay record stream of a frame
func (t *HTTPTransport) OpenGraphics(ctx context.Context, frame int) (io.ReadCloser, error) {
	frame, err := t.resolve(ctx, frame)
	if err != nil {
		return nil, err
	}
	return t.open(ctx, "open_graphics", frame, "graphics", t.Info.GraphicsRequest(frame))
}

// OpenFile opens a named file on the engine host
func (t *HTTPTransport) OpenFile(ctx context.Context, name string) (io.ReadCloser, error) {
	return t.open(ctx, "open_file", 0, "file", t.Info.FileRequest(name))
}

// OpenGIF opens the GIF snapshot of a frame
func (t *HTTPTransport) OpenGIF(ctx context.Context, frame int) (io.ReadCloser, error) {
	return t.open(ctx, "open_gif", frame, "gif", t.Info.GIFRequest(frame))
}

// lines fetches a text response and returns it split into lines
func (t *HTTPTransport) lines(ctx context.Context, op string, rawURL string) ([]string, error) {
	body, err := t.open(ctx, op, 0, "query", rawURL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	var out []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		out = append(out, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return out, NewTransportError(op, 0, err)
	}
	return out, nil
}

// frameRecord returns the fields of the V record that follows the key line
func (t *HTTPTransport) frameRecord(ctx context.Context, op string) ([]string, error) {
	lines, err := t.lines(ctx, op, t.Info.FrameRequest())
	if err != nil {
		return nil, err
	}
	if len(lines) < 2 {
		return nil, NewMalformedError(op, 0, "missing V record")
	}
	fields := strings.Fields(lines[1])
	if len(fields) < 2 || fields[0] != TypeFrame {
		logging.LogRawBytes("Unexpected frame record", []byte(lines[1]))
		return nil, NewMalformedError(op, 0, "unexpected response "+strconv.Quote(lines[1]))
	}
	return fields, nil
}

// CurrentFrame returns the frame the engine is displaying
func (t *HTTPTransport) CurrentFrame(ctx context.Context) (int, error) {
	fields, err := t.frameRecord(ctx, "current_frame")
	if err != nil {
		return -1, err
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return -1, NewMalformedError("current_frame", 0, err.Error())
	}
	return n, nil
}

// NumberOfFrames returns the frame count reported with the current frame.
// The count is characters 1-3 of the third field of the V record.
func (t *HTTPTransport) NumberOfFrames(ctx context.Context) (int, error) {
	fields, err := t.frameRecord(ctx, "number_of_frames")
	if err != nil {
		return -1, err
	}
	if len(fields) < 3 || len(fields[2]) < 4 {
		return -1, NewMalformedError("number_of_frames", 0, "short V record")
	}
	n, err := strconv.Atoi(strings.TrimSpace(fields[2][1:4]))
	if err != nil {
		return -1, NewMalformedError("number_of_frames", 0, err.Error())
	}
	return n, nil
}

// FrameNumbers returns the engine's frame list in response order
func (t *HTTPTransport) FrameNumbers(ctx context.Context) ([]int, error) {
	lines, err := t.lines(ctx, "frame_numbers", t.Info.FramesRequest())
	if err != nil {
		return nil, err
	}

	numbers := make([]int, 0)
	for i, line := range lines {
		// First line echoes the request key
		if i == 0 || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if fields[0] != TypeFrames || len(fields) < 2 {
			return nil, NewMalformedError("frame_numbers", 0, "unexpected response "+strconv.Quote(line))
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, NewMalformedError("frame_numbers", 0, err.Error())
		}
		numbers = append(numbers, n)
	}
	return numbers, nil
}

// Command runs a command line on the engine and returns its output
func (t *HTTPTransport) Command(ctx context.Context, line string, frame int) ([]string, error) {
	return t.lines(ctx, "command", t.Info.CommandRequest(url.QueryEscape(line), frame))
}

// countingBody reports bytes read to the stream counter
type countingBody struct {
	io.ReadCloser
	stream string
}

func (b *countingBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	metrics.AddBytes(b.stream, n)
	return n, err
}
