package frame

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
)

// DefaultCacheFrames is the number of frames a Session keeps
const DefaultCacheFrames = 16

// DefaultPrefetchLimit bounds concurrent fetches in Prefetch
const DefaultPrefetchLimit = 4

// Source is a transport that can also list the engine's frames.
type Source interface {
	bridge.Transport
	FrameNumbers(ctx context.Context) ([]int, error)
}

// Session owns the frames of one engine connection. Frames are kept in an
// LRU cache; an evicted frame is refetched from scratch on next use.
type Session struct {
	info   *bridge.Info
	source Source
	opts   []Option

	mu     sync.Mutex
	frames *lru.Cache[int, *Frame]

	// PrefetchLimit bounds concurrent fetches (default 4)
	PrefetchLimit int
}

// NewSession creates a session caching up to size frames
func NewSession(info *bridge.Info, source Source, size int, opts ...Option) (*Session, error) {
	if size <= 0 {
		size = DefaultCacheFrames
	}
	cache, err := lru.NewWithEvict(size, func(number int, f *Frame) {
		logging.Debug("Frame evicted", zap.Int("frame", number))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create frame cache: %w", err)
	}
	return &Session{
		info:          info,
		source:        source,
		opts:          opts,
		frames:        cache,
		PrefetchLimit: DefaultPrefetchLimit,
	}, nil
}

// Info returns the session's connection parameters
func (s *Session) Info() *bridge.Info { return s.info }

// Frame returns the cached frame for number, creating it if needed
func (s *Session) Frame(number int) *Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f, ok := s.frames.Get(number); ok {
		return f
	}
	f := NewFrame(number, s.info, s.source, s.opts...)
	s.frames.Add(number, f)
	return f
}

// Len returns the number of cached frames
func (s *Session) Len() int {
	return s.frames.Len()
}

// Set builds a set from the engine's current frame list
func (s *Session) Set(ctx context.Context, name string) (*Set, error) {
	numbers, err := s.source.FrameNumbers(ctx)
	if err != nil {
		return nil, err
	}
	return NewSet(name, s.info.Request(), numbers...), nil
}

// Prefetch refreshes the given frames concurrently and returns their
// snapshots in the order of first appearance. Repeated numbers are
// fetched once. The first failure cancels the remaining fetches.
func (s *Session) Prefetch(ctx context.Context, numbers []int, flags DirtyFlags) ([]*Snapshot, error) {
	distinct := make([]int, 0, len(numbers))
	seen := make(map[int]bool, len(numbers))
	for _, n := range numbers {
		if !seen[n] {
			seen[n] = true
			distinct = append(distinct, n)
		}
	}

	frames := make([]*Frame, len(distinct))
	flagSet := make([]DirtyFlags, len(distinct))
	for i, n := range distinct {
		frames[i] = s.Frame(n)
		flagSet[i] = flags
	}
	return s.refresh(ctx, frames, flagSet)
}

// Update applies the frame status records of a command response. Only
// cached frames with a dirty flag are refreshed; their snapshots are
// returned in status order.
func (s *Session) Update(ctx context.Context, statuses []bridge.FrameStatus) ([]*Snapshot, error) {
	var frames []*Frame
	var flagSet []DirtyFlags

	s.mu.Lock()
	for _, st := range statuses {
		if !st.Dirty() {
			continue
		}
		f, ok := s.frames.Peek(st.Frame)
		if !ok {
			continue
		}
		frames = append(frames, f)
		flagSet = append(flagSet, DirtyFlags{Image: st.Image, Graphics: st.Graphics, ColorTable: st.ColorTable})
	}
	s.mu.Unlock()

	logging.Debug("Applying frame status", zap.Int("statuses", len(statuses)), zap.Int("dirty", len(frames)))
	return s.refresh(ctx, frames, flagSet)
}

// refresh runs Frame.Refresh for each frame with at most PrefetchLimit in
// flight. The first failure cancels the rest.
func (s *Session) refresh(ctx context.Context, frames []*Frame, flags []DirtyFlags) ([]*Snapshot, error) {
	snapshots := make([]*Snapshot, len(frames))
	g, gctx := errgroup.WithContext(ctx)
	limit := s.PrefetchLimit
	if limit <= 0 {
		limit = DefaultPrefetchLimit
	}
	g.SetLimit(limit)

	for i, f := range frames {
		g.Go(func() error {
			snap, err := f.Refresh(gctx, flags[i])
			if err != nil {
				return err
			}
			snapshots[i] = snap
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return snapshots, nil
}
