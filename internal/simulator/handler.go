package simulator

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/protocol"
)

// Handler serves the bridge request protocol for an Engine.
type Handler struct {
	Engine *Engine

	// ChunkSize, when positive, sends the pixel block in pieces of this
	// many bytes with ChunkDelay between them, so clients see a slow
	// stream.
	ChunkSize  int
	ChunkDelay time.Duration
}

// NewHandler creates a handler for engine
func NewHandler(engine *Engine) *Handler {
	return &Handler{Engine: engine}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	reqType := q.Get("type")

	if q.Get("sessionkey") != h.Engine.Key() {
		logging.Warn("Rejected request with wrong session key",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("type", reqType),
		)
		http.Error(w, "invalid session key", http.StatusForbidden)
		return
	}
	if v := q.Get("version"); v != "" && v != bridge.ProtocolVersion {
		http.Error(w, "unsupported version "+v, http.StatusBadRequest)
		return
	}

	text := q.Get("text")
	frameField, _ := strconv.Atoi(q.Get("frame"))

	var (
		size int
		num  int
		err  error
	)
	switch reqType {
	case bridge.TypeFrame:
		size, err = h.writeLines(w, h.Engine.frameLines())
	case bridge.TypeFrames:
		size, err = h.writeLines(w, h.Engine.frameListLines())
	case bridge.TypeFile:
		data, ok := h.Engine.File(text)
		if !ok {
			http.NotFound(w, r)
			return
		}
		size, err = w.Write(data)
	case bridge.TypeData:
		num, size, err = h.serveData(w, r, text)
	case bridge.TypeGraphics:
		num, _ = strconv.Atoi(text)
		records, ok := h.Engine.graphics(num)
		if !ok {
			http.NotFound(w, r)
			return
		}
		size, err = h.writeLines(w, records)
	case bridge.TypeCommand:
		num = frameField
		size, err = h.writeLines(w, h.Engine.Command(text, frameField))
	case bridge.TypeGIF:
		num, _ = strconv.Atoi(text)
		data, ok, gerr := h.Engine.gif(num)
		if gerr != nil {
			logging.Error("GIF render failed", zap.Int("frame", num), zap.Error(gerr))
			http.Error(w, gerr.Error(), http.StatusInternalServerError)
			return
		}
		if !ok {
			http.NotFound(w, r)
			return
		}
		size, err = w.Write(data)
	default:
		http.Error(w, "unknown request type "+strconv.Quote(reqType), http.StatusBadRequest)
		return
	}

	if err != nil {
		logging.Warn("Response write failed",
			zap.String("remote_addr", r.RemoteAddr),
			zap.String("type", reqType),
			zap.Error(err),
		)
		return
	}
	if size >= 0 {
		logging.LogServed(r.RemoteAddr, reqType, num, size)
	}
}

// serveData writes the table+pixel stream of a frame. It returns -1 as the
// size when the frame does not exist and the response is already written.
func (h *Handler) serveData(w http.ResponseWriter, r *http.Request, text string) (int, int, error) {
	num, err := strconv.Atoi(text)
	if err != nil {
		http.Error(w, "invalid frame "+strconv.Quote(text), http.StatusBadRequest)
		return 0, -1, nil
	}
	head, pixels, ok := h.Engine.data(num)
	if !ok {
		http.NotFound(w, r)
		return num, -1, nil
	}

	n, err := w.Write(head)
	if err != nil || h.ChunkSize <= 0 {
		if err == nil {
			var m int
			m, err = w.Write(pixels)
			n += m
		}
		return num, n, err
	}

	flusher, _ := w.(http.Flusher)
	for off := 0; off < len(pixels); off += h.ChunkSize {
		end := min(off+h.ChunkSize, len(pixels))
		if flusher != nil {
			flusher.Flush()
		}
		select {
		case <-r.Context().Done():
			return num, n, r.Context().Err()
		case <-time.After(h.ChunkDelay):
		}
		m, err := w.Write(pixels[off:end])
		n += m
		if err != nil {
			return num, n, err
		}
	}
	return num, n, nil
}

func (h *Handler) writeLines(w http.ResponseWriter, lines []string) (int, error) {
	w.Header().Set("Content-Type", "text/plain")
	if len(lines) == 0 {
		return 0, nil
	}
	return fmt.Fprint(w, strings.Join(lines, "\n")+"\n")
}

func (e *Engine) frameLines() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return []string{"key " + e.key, e.frameLine()}
}

func (e *Engine) frameListLines() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := []string{"key " + e.key}
	for _, n := range e.numbersLocked() {
		out = append(out, fmt.Sprintf("%s %d", bridge.TypeFrames, n))
	}
	return out
}

// data encodes a frame's table+pixel stream, split before the pixels
func (e *Engine) data(number int) (head, pixels []byte, ok bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.frames[number]
	if !ok || f.Data == nil {
		return nil, nil, false
	}
	all := protocol.EncodeFrameData(f.Data)
	split := len(all) - len(f.Data.Pixels)
	return all[:split], all[split:], true
}

func (e *Engine) graphics(number int) ([]string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.frames[number]
	if !ok {
		return nil, false
	}
	return append([]string(nil), f.Graphics...), true
}
