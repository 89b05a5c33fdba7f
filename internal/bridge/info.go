package bridge

import (
	"fmt"
	"strconv"
)

const (
	// DefaultHost is the engine host used when none is configured
	DefaultHost = "localhost"

	// DefaultPort is the bridge HTTP port
	DefaultPort = "8080"

	// DefaultKey is the all-zero session key
	DefaultKey = "00000000000000000000000000000000"

	// ProtocolVersion is sent with every request
	ProtocolVersion = "2"
)

// Request types understood by the bridge
const (
	TypeFrame    = "V" // current frame and frame count
	TypeFrames   = "U" // list of frame numbers
	TypeFile     = "F" // named file, e.g. a frame directory
	TypeData     = "D" // tables and pixels
	TypeGraphics = "P" // overlay records
	TypeCommand  = "T" // command line output
	TypeGIF      = "C" // GIF snapshot
)

// Info holds the connection parameters for one engine session. The
// canonical request URL is rebuilt by every setter, so Request never
// returns a value built from an older host, port or key.
//
// Info does no validation or escaping of its fields.
type Info struct {
	host    string
	port    string
	key     string
	request string
}

// NewInfo returns an Info with the default host, port and key
func NewInfo() *Info {
	return NewInfoWith(DefaultHost, DefaultPort, DefaultKey)
}

// NewInfoWith returns an Info for the given host, port and key
func NewInfoWith(host, port, key string) *Info {
	i := &Info{host: host, port: port, key: key}
	i.recompute()
	return i
}

// Clone returns an independent copy
func (i *Info) Clone() *Info {
	return NewInfoWith(i.host, i.port, i.key)
}

// Host returns the engine host
func (i *Info) Host() string { return i.host }

// Port returns the engine port
func (i *Info) Port() string { return i.port }

// Key returns the session key
func (i *Info) Key() string { return i.key }

// SetHost sets the engine host
func (i *Info) SetHost(host string) {
	i.host = host
	i.recompute()
}

// SetPort sets the engine port
func (i *Info) SetPort(port string) {
	i.port = port
	i.recompute()
}

// SetKey sets the session key
func (i *Info) SetKey(key string) {
	i.key = key
	i.recompute()
}

// Request returns the canonical request URL, ending in "type=" so a
// request type can be appended.
func (i *Info) Request() string {
	return i.request
}

func (i *Info) recompute() {
	i.request = i.base(0)
}

func (i *Info) base(frame int) string {
	return "http://" + i.host + ":" + i.port + "/?sessionkey=" + i.key +
		"&version=" + ProtocolVersion + "&frame=" + strconv.Itoa(frame) + "&x=0&y=0&type="
}

// FrameRequest queries the current frame
func (i *Info) FrameRequest() string {
	return i.Request() + TypeFrame
}

// FramesRequest queries the frame list
func (i *Info) FramesRequest() string {
	return i.Request() + TypeFrames
}

// FileRequest fetches a named file
func (i *Info) FileRequest(name string) string {
	return i.Request() + TypeFile + "&text=" + name
}

// DataRequest fetches the table+pixel stream of a frame
func (i *Info) DataRequest(frame int) string {
	return i.Request() + TypeData + "&text=" + strconv.Itoa(frame)
}

// GraphicsRequest fetches the overlay records of a frame
func (i *Info) GraphicsRequest(frame int) string {
	return i.Request() + TypeGraphics + "&text=" + strconv.Itoa(frame)
}

// CommandRequest runs a command line. A non-zero frame is sent in the
// frame field instead of the text.
func (i *Info) CommandRequest(line string, frame int) string {
	if frame == 0 {
		return i.Request() + TypeCommand + "&text=" + line
	}
	return i.base(frame) + TypeCommand + "&text=" + line
}

// GIFRequest fetches a GIF snapshot of a frame
func (i *Info) GIFRequest(frame int) string {
	return i.Request() + TypeGIF + "&text=" + strconv.Itoa(frame)
}

// String returns the connection parameters
func (i *Info) String() string {
	return fmt.Sprintf("Info{host=%s, port=%s, key=%s}", i.host, i.port, i.key)
}
