package simulator

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
)

// DefaultSensor is the sensor number written into synthetic directories
const DefaultSensor = 70

// Frame is one frame held by the simulated engine.
type Frame struct {
	Number    int
	Data      *protocol.FrameData
	Directory []int32  // header, navigation and aux words
	Graphics  []string // overlay records, "Y X COLOR"
	GIF       []byte   // served as is; rendered from Data when nil

	dirty bridge.FrameStatus
}

// SyntheticFrame builds a frame with a diagonal gradient raster, grey
// tables, standard GOES navigation and a border overlay. The nominal
// time of the directory is at.
func SyntheticFrame(number, height, width int, at time.Time) *Frame {
	fd := &protocol.FrameData{Height: height, Width: width}
	for i := 0; i < protocol.TableSize; i++ {
		fd.Stretch[i] = int32(i)
		fd.Color[i] = int32(i * 0x010101)
		fd.Graphics[i] = int32((i * 0x3f) & 0xffffff)
	}

	// Display row r is sent as wire row height-1-r
	fd.Pixels = make([]byte, height*width)
	for r := 0; r < height; r++ {
		wire := height - 1 - r
		for c := 0; c < width; c++ {
			fd.Pixels[wire*width+c] = byte(r + c + number*32)
		}
	}

	header := protocol.Header{
		SensorNumber: DefaultSensor,
		Cyd:          at.Year()*1000 + at.YearDay(),
		Hms:          at.Hour()*10000 + at.Minute()*100 + at.Second(),
		Band:         number,
		ULLine:       1,
		ULEle:        1,
		LineRes:      1,
		EleRes:       1,
		LineMag:      1,
		EleMag:       1,
	}
	nav := make([]int32, protocol.StandardNavWords)
	nav[0] = protocol.NavCode("GOES")
	dir := append(protocol.EncodeHeader(header), nav...)

	return &Frame{
		Number:    number,
		Data:      fd,
		Directory: dir,
		Graphics:  borderRecords(height, width, 1),
	}
}

// borderRecords outlines the frame with overlay records of one color.
// Record coordinates are 1-based and must stay below the frame size.
func borderRecords(height, width, color int) []string {
	var out []string
	if height < 2 || width < 2 {
		return out
	}
	for x := 1; x < width; x++ {
		out = append(out, fmt.Sprintf("1 %d %d", x, color), fmt.Sprintf("%d %d %d", height-1, x, color))
	}
	for y := 2; y < height-1; y++ {
		out = append(out, fmt.Sprintf("%d 1 %d", y, color), fmt.Sprintf("%d %d %d", y, width-1, color))
	}
	return out
}

// Engine is an in-memory X engine. It is safe for concurrent use.
type Engine struct {
	key string

	mu      sync.RWMutex
	current int
	frames  map[int]*Frame
	files   map[string][]byte
	seq     int
}

// NewEngine creates an engine that accepts requests carrying key
func NewEngine(key string) *Engine {
	if key == "" {
		key = bridge.DefaultKey
	}
	return &Engine{
		key:    key,
		frames: make(map[int]*Frame),
		files:  make(map[string][]byte),
	}
}

// Key returns the session key the engine accepts
func (e *Engine) Key() string { return e.key }

// AddFrame stores f, replacing any frame with the same number. The first
// frame added becomes the current frame.
func (e *Engine) AddFrame(f *Frame) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.frames[f.Number] = f
	if e.current == 0 {
		e.current = f.Number
	}
}

// AddFile stores a named file served by F requests
func (e *Engine) AddFile(name string, data []byte) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.files[name] = data
}

// Frame returns a stored frame
func (e *Engine) Frame(number int) (*Frame, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	f, ok := e.frames[number]
	return f, ok
}

// Numbers returns the stored frame numbers in ascending order
func (e *Engine) Numbers() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.numbersLocked()
}

func (e *Engine) numbersLocked() []int {
	out := make([]int, 0, len(e.frames))
	for n := range e.frames {
		out = append(out, n)
	}
	sort.Ints(out)
	return out
}

// Current returns the frame being displayed
func (e *Engine) Current() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.current
}

// SetCurrent shows frame number
func (e *Engine) SetCurrent(number int) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.frames[number]; !ok {
		return fmt.Errorf("frame %d does not exist", number)
	}
	e.current = number
	return nil
}

// File returns a named file. Frame directories are served as
// "Frame<N>.0" from the stored frames.
func (e *Engine) File(name string) ([]byte, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if data, ok := e.files[name]; ok {
		return data, true
	}
	for n, f := range e.frames {
		if name == frame.DirectoryFile(n) {
			return protocol.EncodeWords(f.Directory), true
		}
	}
	return nil, false
}

// frameLine is the V record: current frame and frame count
func (e *Engine) frameLine() string {
	return fmt.Sprintf("%s %d F%03d", bridge.TypeFrame, e.current, len(e.frames))
}

// Command runs a command line and returns the response records, key line
// first. Frame status is reported for every frame and then cleared.
//
// Supported commands:
//
//	SF n       show frame n
//	ERASE G n  erase the graphics of frame n (current frame when omitted)
//	EU REST    restore the default color tables
func (e *Engine) Command(line string, target int) []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.seq++
	seq := fmt.Sprintf("%03d", e.seq%1000)
	out := []string{"key " + e.key, bridge.RecordEcho + " " + seq + " " + line}
	text := func(kind, msg string) {
		out = append(out, kind+" "+seq+" "+msg)
	}

	if target < 1 {
		target = e.current
	}
	fields := strings.Fields(strings.ToUpper(line))
	switch {
	case len(fields) == 0:
		text(bridge.RecordMessage, "No command given")

	case fields[0] == "SF":
		n := target
		if len(fields) > 1 {
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				text(bridge.RecordMessage, "Invalid frame "+fields[1])
				break
			}
			n = v
		}
		f, ok := e.frames[n]
		if !ok {
			text(bridge.RecordMessage, fmt.Sprintf("Frame %d does not exist", n))
			break
		}
		e.current = n
		f.dirty.Image = true
		text(bridge.RecordText, fmt.Sprintf("Frame %d shown", n))

	case fields[0] == "ERASE" && len(fields) > 1 && fields[1] == "G":
		n := target
		if len(fields) > 2 {
			if v, err := strconv.Atoi(fields[2]); err == nil {
				n = v
			}
		}
		f, ok := e.frames[n]
		if !ok {
			text(bridge.RecordMessage, fmt.Sprintf("Frame %d does not exist", n))
			break
		}
		f.Graphics = nil
		f.dirty.Graphics = true
		text(bridge.RecordText, fmt.Sprintf("Graphics erased on frame %d", n))

	case fields[0] == "EU" && len(fields) > 1 && fields[1] == "REST":
		for _, f := range e.frames {
			for i := 0; i < protocol.TableSize; i++ {
				f.Data.Color[i] = int32(i * 0x010101)
			}
			f.dirty.ColorTable = true
		}
		text(bridge.RecordText, "Enhancement restored")

	default:
		text(bridge.RecordMessage, "Unknown command: "+fields[0])
	}

	out = append(out, e.frameLine())
	for _, n := range e.numbersLocked() {
		f := e.frames[n]
		out = append(out, fmt.Sprintf("%s %d I%dG%dC%d", bridge.RecordStatus, n,
			flag(f.dirty.Image), flag(f.dirty.Graphics), flag(f.dirty.ColorTable)))
		f.dirty = bridge.FrameStatus{}
	}
	return out
}

func flag(b bool) int {
	if b {
		return 1
	}
	return 0
}
