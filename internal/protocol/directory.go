package protocol

import (
	"fmt"
	"time"
)

// HeaderWords is the length of the fixed frame directory header
const HeaderWords = 64

// Header word offsets
const (
	hdrSensor  = 0
	hdrCyd     = 1
	hdrHms     = 2
	hdrBand    = 3
	hdrULLine  = 4
	hdrULEle   = 5
	hdrLineRes = 10
	hdrEleRes  = 11
	hdrLineMag = 19
	hdrEleMag  = 20
)

// SensorNamer resolves a sensor number to a human-readable name.
type SensorNamer interface {
	SensorName(sensor int) string
}

// Header holds the fields of the 64-word frame directory header.
type Header struct {
	SensorNumber int
	Cyd          int // calendar day, yyddd or yyyyddd
	Hms          int // time of day, hhmmss
	Band         int
	ULLine       int // upper-left image line
	ULEle        int // upper-left image element
	LineRes      int
	EleRes       int
	LineMag      int // always >= 1 after parsing
	EleMag       int // always >= 1 after parsing
	Raw          []int32
}

// ParseHeader extracts the header fields from 64 directory words.
// Negative magnification factors are normalized to 1.
func ParseHeader(words []int32) (Header, error) {
	if len(words) < HeaderWords {
		return Header{}, fmt.Errorf("%w: directory header has %d words, want %d", ErrMalformed, len(words), HeaderWords)
	}

	h := Header{
		SensorNumber: int(words[hdrSensor]),
		Cyd:          int(words[hdrCyd]),
		Hms:          int(words[hdrHms]),
		Band:         int(words[hdrBand]),
		ULLine:       int(words[hdrULLine]),
		ULEle:        int(words[hdrULEle]),
		LineRes:      int(words[hdrLineRes]),
		EleRes:       int(words[hdrEleRes]),
		LineMag:      int(words[hdrLineMag]),
		EleMag:       int(words[hdrEleMag]),
		Raw:          words[:HeaderWords],
	}
	if h.LineMag < 0 {
		h.LineMag = 1
	}
	if h.EleMag < 0 {
		h.EleMag = 1
	}
	return h, nil
}

// EncodeHeader lays the header fields out as 64 directory words. Words
// not covered by a field are taken from Raw when it is long enough.
func EncodeHeader(h Header) []int32 {
	words := make([]int32, HeaderWords)
	copy(words, h.Raw)
	words[hdrSensor] = int32(h.SensorNumber)
	words[hdrCyd] = int32(h.Cyd)
	words[hdrHms] = int32(h.Hms)
	words[hdrBand] = int32(h.Band)
	words[hdrULLine] = int32(h.ULLine)
	words[hdrULEle] = int32(h.ULEle)
	words[hdrLineRes] = int32(h.LineRes)
	words[hdrEleRes] = int32(h.EleRes)
	words[hdrLineMag] = int32(h.LineMag)
	words[hdrEleMag] = int32(h.EleMag)
	return words
}

// Directory is a decoded frame directory.
type Directory struct {
	Header
	SensorName  string
	NominalTime time.Time
	Nav         Navigation
	Aux         []int32 // nil unless Nav is LALO
}

// DecodeDirectory reads a complete frame directory from src: the header,
// the navigation block selected by its discriminant, and for LALO
// navigation the auxiliary block. names may be nil.
func DecodeDirectory(src WordSource, names SensorNamer) (*Directory, error) {
	head, err := src.ReadWords(HeaderWords)
	if err != nil {
		return nil, fmt.Errorf("read directory header: %w", err)
	}
	header, err := ParseHeader(head)
	if err != nil {
		return nil, err
	}

	disc, err := src.ReadWords(1)
	if err != nil {
		return nil, fmt.Errorf("read navigation type: %w", err)
	}
	navLen := NavigationLength(disc[0])

	rest, err := src.ReadWords(navLen - 1)
	if err != nil {
		return nil, fmt.Errorf("read %s navigation: %w", NavName(disc[0]), err)
	}
	nav := make([]int32, 0, navLen)
	nav = append(nav, disc[0])
	nav = append(nav, rest...)

	dir := &Directory{
		Header:      header,
		NominalTime: NominalTime(header.Cyd, header.Hms),
	}
	if names != nil {
		dir.SensorName = names.SensorName(header.SensorNumber)
	}

	if navLen != LaloNavWords {
		dir.Nav = &StandardNavigation{Raw: GRAFToRECT(nav)}
		return dir, nil
	}

	lalo, err := newLaloNavigation(nav)
	if err != nil {
		return nil, err
	}
	aux, err := src.ReadWords(lalo.AuxLength())
	if err != nil {
		return nil, fmt.Errorf("read LALO aux block: %w", err)
	}
	dir.Nav = lalo
	dir.Aux = aux
	return dir, nil
}

// LatitudeGrid returns the rows*cols latitude words of a LALO directory,
// or nil when there is no such grid.
func (d *Directory) LatitudeGrid() []int32 {
	lalo, ok := d.Nav.(*LaloNavigation)
	if !ok {
		return nil
	}
	return auxRegion(d.Aux, lalo.LatOffset, lalo.Points())
}

// LongitudeGrid returns the rows*cols longitude words of a LALO directory,
// or nil when there is no such grid.
func (d *Directory) LongitudeGrid() []int32 {
	lalo, ok := d.Nav.(*LaloNavigation)
	if !ok {
		return nil
	}
	return auxRegion(d.Aux, lalo.LonOffset, lalo.Points())
}

func auxRegion(aux []int32, off, n int) []int32 {
	if off < 0 || off+n > len(aux) {
		return nil
	}
	return aux[off : off+n]
}

// Words flattens the directory back into wire order: header, navigation,
// then the auxiliary block if any.
func (d *Directory) Words() []int32 {
	nav := d.Nav.Words()
	out := make([]int32, 0, len(d.Raw)+len(nav)+len(d.Aux))
	out = append(out, d.Raw...)
	out = append(out, nav...)
	out = append(out, d.Aux...)
	return out
}

// String returns "name sensor cyd hms band"
func (d *Directory) String() string {
	return fmt.Sprintf("%s %d %d %d %d", d.SensorName, d.SensorNumber, d.Cyd, d.Hms, d.Band)
}
