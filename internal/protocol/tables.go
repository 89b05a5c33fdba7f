package protocol

import "fmt"

const (
	// TableSize is the number of entries in every lookup table
	TableSize = 256

	// DirectColorEntries is the first palette index that goes through the
	// stretch table. Indices below it map straight through the color table.
	DirectColorEntries = 18
)

// LookupTable is one of the three 256-entry tables sent with each frame.
// The stretch table remaps palette indices, the color table holds packed
// 0xRRGGBB values and the graphics table is the overlay palette.
type LookupTable [TableSize]int32

// ReadTable reads one lookup table from src
func ReadTable(src WordSource) (LookupTable, error) {
	var tbl LookupTable
	words, err := src.ReadWords(TableSize)
	if err != nil {
		return tbl, err
	}
	copy(tbl[:], words)
	return tbl, nil
}

// EnhancementTable is a normalized RGB palette, indexed [channel][entry].
// Every value lies in [0, 1].
type EnhancementTable [3][TableSize]float32

// Channel indices into an EnhancementTable
const (
	Red = iota
	Green
	Blue
)

// SplitRGB extracts the red, green and blue bytes of a packed color word.
// The division is signed, matching the engine's own arithmetic.
func SplitRGB(c int32) (r, g, b int32) {
	return (c / 0x10000) & 0xff, (c / 0x100) & 0xff, c & 0xff
}

// NewEnhancementTable derives the display palette from the stretch and
// color tables. Entry 0 is always black. Entries 1-17 use color[i];
// entries 18-255 use color[stretch[i]]. A stretch entry outside the table
// leaves its palette entry black.
func NewEnhancementTable(stretch, color LookupTable) EnhancementTable {
	var et EnhancementTable

	for i := 1; i < TableSize; i++ {
		c := color[i]
		if i >= DirectColorEntries {
			s := stretch[i]
			if s < 0 || s >= TableSize {
				continue
			}
			c = color[s]
		}
		r, g, b := SplitRGB(c)
		et[Red][i] = float32(r)
		et[Green][i] = float32(g)
		et[Blue][i] = float32(b)
	}

	for ch := range et {
		for i := range et[ch] {
			et[ch][i] /= 0xff
		}
	}
	return et
}

// RGB returns the three channel values of entry i
func (et *EnhancementTable) RGB(i int) (r, g, b float32) {
	return et[Red][i], et[Green][i], et[Blue][i]
}

// String returns a short summary of the table
func (et *EnhancementTable) String() string {
	r, g, b := et.RGB(TableSize - 1)
	return fmt.Sprintf("EnhancementTable{last=(%.3f, %.3f, %.3f)}", r, g, b)
}
