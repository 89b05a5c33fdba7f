package protocol

import (
	"encoding/binary"
	"fmt"
)

// Navigation block lengths in words
const (
	LaloNavWords     = 128
	StandardNavWords = 640
)

// Word offsets inside a LALO navigation block
const (
	laloRowsWord      = 65
	laloColsWord      = 66
	laloLatOffsetWord = 78
	laloLonOffsetWord = 79
)

// maxAuxWords bounds the auxiliary block so a corrupt header cannot make
// the decoder allocate without limit.
const maxAuxWords = 1 << 24

// Navigation type codes are four ASCII characters packed big-endian.
var (
	NavLALO = NavCode("LALO")
	NavGRAF = NavCode("GRAF")
	NavRECT = NavCode("RECT")
)

// NavCode packs a four-character navigation type name into its word value
func NavCode(name string) int32 {
	var b [4]byte
	copy(b[:], name)
	return int32(binary.BigEndian.Uint32(b[:]))
}

// NavName unpacks a navigation type word into its four characters
func NavName(code int32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(code))
	for i, c := range b {
		if c < 32 || c > 126 {
			b[i] = '?'
		}
	}
	return string(b[:])
}

// NavigationLength returns the block length selected by the discriminant word
func NavigationLength(discriminant int32) int {
	if discriminant == NavLALO {
		return LaloNavWords
	}
	return StandardNavWords
}

// Navigation is a decoded navigation block. It is either a
// *LaloNavigation or a *StandardNavigation.
type Navigation interface {
	// Type returns the discriminant word
	Type() int32
	// Words returns the full block, discriminant included
	Words() []int32
}

// LaloNavigation is the 128-word latitude/longitude navigation. Its grid
// geometry is embedded in the block itself.
type LaloNavigation struct {
	Raw       []int32
	Rows      int
	Cols      int
	LatOffset int // first word of the latitude grid in the aux block
	LonOffset int // first word of the longitude grid in the aux block
}

// Type implements Navigation
func (n *LaloNavigation) Type() int32 { return NavLALO }

// Words implements Navigation
func (n *LaloNavigation) Words() []int32 { return n.Raw }

// Points returns the number of grid points in each of the two grids
func (n *LaloNavigation) Points() int { return n.Rows * n.Cols }

// AuxLength returns the length in words of the auxiliary block that follows
func (n *LaloNavigation) AuxLength() int { return n.LonOffset + n.Rows*n.Cols }

func (n *LaloNavigation) String() string {
	return fmt.Sprintf("LALO{rows=%d, cols=%d, lat=%d, lon=%d}", n.Rows, n.Cols, n.LatOffset, n.LonOffset)
}

// newLaloNavigation extracts the aux geometry from a 128-word block
func newLaloNavigation(words []int32) (*LaloNavigation, error) {
	n := &LaloNavigation{
		Raw:       words,
		Rows:      int(words[laloRowsWord]),
		Cols:      int(words[laloColsWord]),
		LatOffset: int(words[laloLatOffsetWord] / 4),
		LonOffset: int(words[laloLonOffsetWord] / 4),
	}
	if n.Rows < 0 || n.Cols < 0 || n.LatOffset < 0 || n.LonOffset < 0 {
		return nil, fmt.Errorf("%w: negative LALO grid geometry %s", ErrMalformed, n)
	}
	if int64(n.LonOffset)+int64(n.Rows)*int64(n.Cols) > maxAuxWords {
		return nil, fmt.Errorf("%w: LALO aux block too large %s", ErrMalformed, n)
	}
	return n, nil
}

// StandardNavigation is any 640-word navigation block
type StandardNavigation struct {
	Raw []int32
}

// Type implements Navigation
func (n *StandardNavigation) Type() int32 { return n.Raw[0] }

// Words implements Navigation
func (n *StandardNavigation) Words() []int32 { return n.Raw }

func (n *StandardNavigation) String() string {
	return fmt.Sprintf("Navigation{type=%s}", NavName(n.Type()))
}

// GRAF navigation word offsets
const (
	grafMinLat = 21
	grafMaxLat = 22
	grafMinLon = 23
	grafMaxLon = 24
	grafMinY   = 25
	grafMaxY   = 26
	grafMinX   = 27
	grafMaxX   = 28
)

// Earth constants written into rewritten RECT blocks
const (
	rectEarthRadius  = 6378388
	rectEccentricity = 81992
)

// GRAFToRECT rewrites a GRAF navigation block in place as RECT. GRAF is
// not a real projection, but its lat/lon and line/element bounds are enough
// to describe an equivalent rectilinear one. Blocks of any other type are
// returned unchanged.
func GRAFToRECT(nav []int32) []int32 {
	if len(nav) < 29 || nav[0] != NavGRAF {
		return nav
	}

	minLat, maxLat := nav[grafMinLat], nav[grafMaxLat]
	minLon, maxLon := nav[grafMinLon], nav[grafMaxLon]
	minY, maxY := nav[grafMinY], nav[grafMaxY]
	minX, maxX := nav[grafMinX], nav[grafMaxX]

	rangeLat, rangeLon := maxLat-minLat, maxLon-minLon
	rangeY, rangeX := maxY-minY, maxX-minX

	centerY := rangeY/2 + minY
	centerX := rangeX/2 + minX

	nav[0] = NavRECT
	nav[1] = centerY - minY
	nav[2] = rangeLat/2 + minLat
	nav[3] = centerX - minX
	nav[4] = rangeLon/2 + minLon
	nav[5] = 0
	if rangeY != 0 {
		nav[5] = rangeLat / rangeY
	}
	nav[6] = 0
	if rangeX != 0 {
		nav[6] = rangeLon / rangeX
	}
	nav[7] = rectEarthRadius
	nav[8] = rectEccentricity
	for i := 9; i < 24; i++ {
		nav[i] = 0
	}
	return nav
}
