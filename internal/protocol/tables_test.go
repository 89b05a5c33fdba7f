package protocol

import "testing"

func TestSplitRGB(t *testing.T) {
	tests := []struct {
		in      int32
		r, g, b int32
	}{
		{0x000000, 0, 0, 0},
		{0xffffff, 0xff, 0xff, 0xff},
		{0x123456, 0x12, 0x34, 0x56},
		{0xff0000, 0xff, 0, 0},
		{0x0000ff, 0, 0, 0xff},
	}

	for _, tt := range tests {
		r, g, b := SplitRGB(tt.in)
		if r != tt.r || g != tt.g || b != tt.b {
			t.Errorf("SplitRGB(0x%06x) = (%d, %d, %d), want (%d, %d, %d)", tt.in, r, g, b, tt.r, tt.g, tt.b)
		}
	}
}

func TestNewEnhancementTable_DirectEntries(t *testing.T) {
	var stretch, color LookupTable
	color[0] = 0xffffff
	color[5] = 0xff8000
	// stretch is ignored below the direct color boundary
	stretch[5] = 200
	color[200] = 0x0000ff

	et := NewEnhancementTable(stretch, color)

	if r, g, b := et.RGB(0); r != 0 || g != 0 || b != 0 {
		t.Errorf("entry 0 = (%v, %v, %v), want black", r, g, b)
	}
	r, g, b := et.RGB(5)
	if r != 1 || g != float32(0x80)/0xff || b != 0 {
		t.Errorf("entry 5 = (%v, %v, %v), want color[5] normalized", r, g, b)
	}
}

func TestNewEnhancementTable_StretchedEntries(t *testing.T) {
	var stretch, color LookupTable
	color[30] = 0x102030
	color[18] = 0xffffff
	stretch[18] = 30
	stretch[19] = 300 // out of range
	stretch[20] = -1  // out of range
	color[19] = 0xffffff
	color[20] = 0xffffff

	et := NewEnhancementTable(stretch, color)

	r, g, b := et.RGB(18)
	if r != float32(0x10)/0xff || g != float32(0x20)/0xff || b != float32(0x30)/0xff {
		t.Errorf("entry 18 = (%v, %v, %v), want color[stretch[18]] normalized", r, g, b)
	}
	for _, i := range []int{19, 20} {
		if r, g, b := et.RGB(i); r != 0 || g != 0 || b != 0 {
			t.Errorf("entry %d = (%v, %v, %v), want black for out-of-range stretch", i, r, g, b)
		}
	}
}

func TestNewEnhancementTable_Range(t *testing.T) {
	var stretch, color LookupTable
	for i := range color {
		color[i] = int32(i*0x010101) | 0x800000
		stretch[i] = int32(TableSize - 1 - i)
	}

	et := NewEnhancementTable(stretch, color)
	for ch := range et {
		for i, v := range et[ch] {
			if v < 0 || v > 1 {
				t.Fatalf("et[%d][%d] = %v, outside [0, 1]", ch, i, v)
			}
		}
	}
}

func TestReadTable(t *testing.T) {
	words := make([]int32, TableSize+1)
	for i := range words {
		words[i] = int32(i * 3)
	}
	src := NewSliceWords(words)

	tbl, err := ReadTable(src)
	if err != nil {
		t.Fatalf("ReadTable() error = %v", err)
	}
	if tbl[0] != 0 || tbl[255] != 765 {
		t.Errorf("table ends = %d/%d, want 0/765", tbl[0], tbl[255])
	}
	if src.Remaining() != 1 {
		t.Errorf("Remaining() = %d, want 1", src.Remaining())
	}

	if _, err := ReadTable(src); err == nil {
		t.Error("ReadTable() on a short source should fail")
	}
}
