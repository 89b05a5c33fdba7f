package frame

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/muurk/framebridge/internal/protocol"
)

var errUnavailable = errors.New("engine unavailable")

// fakeEngine serves canned streams and counts how often each is opened
type fakeEngine struct {
	mu       sync.Mutex
	data     map[int][]byte
	graphics map[int]string
	files    map[string][]byte
	gifs     map[int][]byte
	numbers  []int

	failData int // remaining OpenData calls that fail
	opens    map[string]int
}

func newFakeEngine() *fakeEngine {
	return &fakeEngine{
		data:     make(map[int][]byte),
		graphics: make(map[int]string),
		files:    make(map[string][]byte),
		gifs:     make(map[int][]byte),
		opens:    make(map[string]int),
	}
}

func (e *fakeEngine) count(key string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.opens[key]
}

func (e *fakeEngine) note(key string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.opens[key]++
}

func (e *fakeEngine) OpenData(ctx context.Context, frame int) (io.ReadCloser, error) {
	e.note("data")
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.failData > 0 {
		e.failData--
		return nil, errUnavailable
	}
	b, ok := e.data[frame]
	if !ok {
		return nil, errUnavailable
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (e *fakeEngine) OpenGraphics(ctx context.Context, frame int) (io.ReadCloser, error) {
	e.note("graphics")
	e.mu.Lock()
	defer e.mu.Unlock()
	return io.NopCloser(strings.NewReader(e.graphics[frame])), nil
}

func (e *fakeEngine) OpenFile(ctx context.Context, name string) (io.ReadCloser, error) {
	e.note("file")
	e.mu.Lock()
	defer e.mu.Unlock()
	b, ok := e.files[name]
	if !ok {
		return nil, errUnavailable
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (e *fakeEngine) OpenGIF(ctx context.Context, frame int) (io.ReadCloser, error) {
	e.note("gif")
	e.mu.Lock()
	defer e.mu.Unlock()
	return io.NopCloser(bytes.NewReader(e.gifs[frame])), nil
}

func (e *fakeEngine) FrameNumbers(ctx context.Context) ([]int, error) {
	return e.numbers, nil
}

// addFrame registers a frame with the given wire pixels and a standard
// navigation directory
func (e *fakeEngine) addFrame(number, height, width int, pixels []byte) *protocol.FrameData {
	fd := &protocol.FrameData{Height: height, Width: width, Pixels: pixels}
	for i := 0; i < protocol.TableSize; i++ {
		fd.Stretch[i] = int32(i)
		fd.Color[i] = int32(i * 0x010101)
	}

	dir := make([]int32, protocol.HeaderWords+protocol.StandardNavWords)
	dir[0] = int32(number)
	dir[protocol.HeaderWords] = protocol.NavCode("GOES")

	e.mu.Lock()
	defer e.mu.Unlock()
	e.data[number] = protocol.EncodeFrameData(fd)
	e.files[DirectoryFile(number)] = protocol.EncodeWords(dir)
	return fd
}
