package frame

import (
	"context"
	"slices"
	"testing"

	"github.com/muurk/framebridge/internal/bridge"
)

func TestSession_FrameCached(t *testing.T) {
	s, err := NewSession(bridge.NewInfo(), newFakeEngine(), 2)
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}

	a := s.Frame(1)
	if s.Frame(1) != a {
		t.Error("Frame(1) should return the cached frame")
	}

	s.Frame(2)
	s.Frame(3) // evicts 1
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.Frame(1) == a {
		t.Error("evicted frame should be recreated")
	}
}

func TestSession_Set(t *testing.T) {
	engine := newFakeEngine()
	engine.numbers = []int{5, 6, 8}
	info := bridge.NewInfoWith("engine", "8080", "k")

	s, _ := NewSession(info, engine, 0)
	set, err := s.Set(context.Background(), "all")
	if err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if !slices.Equal(set.Numbers, []int{5, 6, 8}) || set.Request != info.Request() {
		t.Errorf("Set() = %+v", set)
	}

	engine.numbers = nil
	set, _ = s.Set(context.Background(), "none")
	if !set.Empty() {
		t.Errorf("Set() with no frames = %v, want empty", set.Numbers)
	}
}

func TestSession_Prefetch(t *testing.T) {
	engine := newFakeEngine()
	for n := 1; n <= 4; n++ {
		engine.addFrame(n, 2, 2, []byte{byte(n), 0, 0, 0})
	}

	s, _ := NewSession(bridge.NewInfo(), engine, 8, testPolicy())
	s.PrefetchLimit = 2

	snaps, err := s.Prefetch(context.Background(), []int{3, 1, 3, 4, 1, 2}, DirtyFlags{Image: true})
	if err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}

	got := make([]int, len(snaps))
	for i, snap := range snaps {
		got[i] = snap.Number
	}
	if !slices.Equal(got, []int{3, 1, 4, 2}) {
		t.Errorf("snapshot order = %v, want [3 1 4 2]", got)
	}
	if n := engine.count("data"); n != 4 {
		t.Errorf("data opened %d times, want once per distinct frame", n)
	}
	// The first wire row is the bottom one, so it ends up last after the flip
	if snaps[0].Image.At(1, 0) != 3 {
		t.Errorf("frame 3 pixel = %d, want 3", snaps[0].Image.At(1, 0))
	}
}

func TestSession_PrefetchFailure(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 1, 1, []byte{0})

	s, _ := NewSession(bridge.NewInfo(), engine, 4, testPolicy())
	_, err := s.Prefetch(context.Background(), []int{1, 7}, DirtyFlags{})
	if !bridge.IsTransportError(err) {
		t.Errorf("error = %v, want transport error for the missing frame", err)
	}
}

func TestSession_Update(t *testing.T) {
	engine := newFakeEngine()
	engine.addFrame(1, 1, 1, []byte{1})
	engine.addFrame(2, 1, 1, []byte{2})

	s, _ := NewSession(bridge.NewInfo(), engine, 4, testPolicy())
	ctx := context.Background()
	if _, err := s.Prefetch(ctx, []int{1, 2}, DirtyFlags{}); err != nil {
		t.Fatalf("Prefetch() error = %v", err)
	}

	statuses := []bridge.FrameStatus{
		{Frame: 1, Image: true},
		{Frame: 2},                 // clean
		{Frame: 9, Graphics: true}, // not cached
	}
	snaps, err := s.Update(ctx, statuses)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(snaps) != 1 || snaps[0].Number != 1 {
		t.Fatalf("Update() refreshed %d frames, want only frame 1", len(snaps))
	}
	if n := engine.count("data"); n != 3 {
		t.Errorf("data opened %d times, want 3", n)
	}
	if s.Len() != 2 {
		t.Errorf("Update() must not add frames to the cache, Len() = %d", s.Len())
	}
}
