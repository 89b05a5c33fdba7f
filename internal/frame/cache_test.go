package frame

import (
	"bytes"
	"context"
	"testing"

	"github.com/muurk/framebridge/internal/bridge"
)

func TestFrame_ImageDataNormalized(t *testing.T) {
	const A, B, C, D = 10, 20, 30, 40

	engine := newFakeEngine()
	engine.addFrame(1, 2, 2, []byte{A, B, C, D})
	f := NewFrame(1, bridge.NewInfo(), engine, testPolicy())

	img, err := f.ImageData(context.Background(), false)
	if err != nil {
		t.Fatalf("ImageData() error = %v", err)
	}
	want := []byte{C, D, A, B}
	if !bytes.Equal(img, want) {
		t.Errorf("ImageData() = %v, want top row [C D], bottom row [A B]", img)
	}

	// Each call returns a fresh copy
	img[0] = 0
	again, _ := f.ImageData(context.Background(), false)
	if again[0] != C {
		t.Error("ImageData() returned a shared buffer")
	}
}

func TestFrame_GraphicsData(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 3, 4, make([]byte, 12))
	engine.graphics[1] = "1 1 5\n2 3 6\n3 1 7\nbad record\n"
	f := NewFrame(1, bridge.NewInfo(), engine, testPolicy())

	overlay, err := f.GraphicsData(context.Background(), false)
	if err != nil {
		t.Fatalf("GraphicsData() error = %v", err)
	}

	want := []byte{
		5, Background, Background, Background,
		Background, Background, 6, Background,
		Background, Background, Background, Background,
	}
	if !bytes.Equal(overlay, want) {
		t.Errorf("GraphicsData() = %v, want %v", overlay, want)
	}
}

func TestFrame_ColorTable(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 1, 1, []byte{0})
	f := NewFrame(1, bridge.NewInfo(), engine, testPolicy())

	pal, err := f.ColorTable(context.Background(), false)
	if err != nil {
		t.Fatalf("ColorTable() error = %v", err)
	}
	if pal.Name != "McIDAS-X" || pal.Category != "Basic" {
		t.Errorf("palette = %s/%s, want McIDAS-X/Basic", pal.Name, pal.Category)
	}
	if r, _, _ := pal.Table.RGB(255); r != 1 {
		t.Errorf("entry 255 red = %v, want 1", r)
	}
}

func TestFrame_CachesUntilRefresh(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(2, 1, 1, []byte{0})
	f := NewFrame(2, bridge.NewInfo(), engine, testPolicy())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := f.FrameDirectory(ctx, false); err != nil {
			t.Fatalf("FrameDirectory() error = %v", err)
		}
	}
	if n := engine.count("file"); n != 1 {
		t.Errorf("directory fetched %d times, want 1", n)
	}

	if _, err := f.FrameDirectory(ctx, true); err != nil {
		t.Fatalf("FrameDirectory(refresh) error = %v", err)
	}
	if n := engine.count("file"); n != 2 {
		t.Errorf("directory fetched %d times, want 2", n)
	}
}

func TestFrame_FailedLoadIsNotCached(t *testing.T) {
	engine := newFakeEngine()
	f := NewFrame(3, bridge.NewInfo(), engine, testPolicy())
	ctx := context.Background()

	if v, err := f.LineSize(ctx, false); err == nil || v != -1 {
		t.Fatalf("LineSize() = %d, %v; want -1 and an error", v, err)
	}

	engine.addFrame(3, 4, 1, make([]byte, 4))
	v, err := f.LineSize(ctx, false)
	if err != nil {
		t.Fatalf("LineSize() error = %v", err)
	}
	if v != 4 {
		t.Errorf("LineSize() = %d, want 4", v)
	}
}

func TestFrame_Refresh(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 2, 2, []byte{1, 2, 3, 4})
	engine.graphics[1] = "1 1 9\n"
	f := NewFrame(1, bridge.NewInfo(), engine, testPolicy())
	ctx := context.Background()

	snap, err := f.Refresh(ctx, DirtyFlags{})
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if snap.Number != 1 || snap.Image.Height != 2 || snap.Image.Width != 2 {
		t.Errorf("snapshot = %d %s, want frame 1 2x2", snap.Number, snap.Image)
	}
	if !bytes.Equal(snap.Image.Pix, []byte{3, 4, 1, 2}) {
		t.Errorf("image = %v, want [3 4 1 2]", snap.Image.Pix)
	}
	if snap.Overlay.At(0, 0) != 9 {
		t.Errorf("overlay (0,0) = %d, want 9", snap.Overlay.At(0, 0))
	}

	steps := []struct {
		name                    string
		flags                   DirtyFlags
		data, files, graphicsN int
	}{
		{"clean", DirtyFlags{}, 1, 1, 1},
		{"image", DirtyFlags{Image: true}, 2, 2, 1},
		{"graphics", DirtyFlags{Graphics: true}, 2, 2, 2},
		{"color table", DirtyFlags{ColorTable: true}, 3, 2, 2},
		{"everything", DirtyFlags{Image: true, Graphics: true, ColorTable: true}, 4, 3, 3},
	}
	for _, st := range steps {
		if _, err := f.Refresh(ctx, st.flags); err != nil {
			t.Fatalf("%s: Refresh() error = %v", st.name, err)
		}
		if got := engine.count("data"); got != st.data {
			t.Errorf("%s: data opened %d times, want %d", st.name, got, st.data)
		}
		if got := engine.count("file"); got != st.files {
			t.Errorf("%s: directory opened %d times, want %d", st.name, got, st.files)
		}
		if got := engine.count("graphics"); got != st.graphicsN {
			t.Errorf("%s: graphics opened %d times, want %d", st.name, got, st.graphicsN)
		}
	}
}

func TestFrame_Invalidate(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 1, 1, []byte{0})
	f := NewFrame(1, bridge.NewInfo(), engine, testPolicy())
	ctx := context.Background()

	_, _ = f.ElementSize(ctx, false)
	f.Invalidate()
	_, _ = f.ElementSize(ctx, false)

	if n := engine.count("data"); n != 2 {
		t.Errorf("data opened %d times, want 2", n)
	}
}

func TestFrame_EqualAndString(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 1, 1, []byte{0})

	a := NewFrame(1, bridge.NewInfo(), engine)
	b := NewFrame(1, bridge.NewInfoWith("elsewhere", "1", "k"), newFakeEngine())
	c := NewFrame(2, bridge.NewInfo(), engine)

	// Loading content into one does not change equality
	_, _ = a.LineSize(context.Background(), false)

	if !a.Equal(b) {
		t.Error("frames with the same number should be equal")
	}
	if a.Equal(c) {
		t.Error("frames with different numbers should not be equal")
	}
	if a.String() != "Frame 1" {
		t.Errorf("String() = %q, want Frame 1", a.String())
	}
	if s := NewFrame(0, bridge.NewInfo(), engine).String(); s != "" {
		t.Errorf("String() for frame 0 = %q, want empty", s)
	}
}
