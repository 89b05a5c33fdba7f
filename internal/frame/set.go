package frame

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"slices"
)

// NoFrames is the single number held by a set built from no frames
const NoFrames = -1

// Set is a named, ordered list of frame numbers plus the base request of
// the engine they came from.
type Set struct {
	Name    string
	Request string
	Numbers []int
}

// NewSet creates a set from frame numbers. With no numbers the set holds
// only NoFrames.
func NewSet(name, request string, numbers ...int) *Set {
	if len(numbers) == 0 {
		numbers = []int{NoFrames}
	}
	return &Set{
		Name:    name,
		Request: request,
		Numbers: slices.Clone(numbers),
	}
}

// NewSetFromFrames creates a set from frames, keeping only their numbers.
// The request is taken from the first frame.
func NewSetFromFrames(name string, frames []*Frame) *Set {
	if len(frames) == 0 {
		return NewSet(name, "")
	}

	numbers := make([]int, len(frames))
	for i, f := range frames {
		numbers[i] = f.Number()
	}

	request := ""
	if info := frames[0].Client().Info(); info != nil {
		request = info.Request()
	}
	return NewSet(name, request, numbers...)
}

// Empty reports whether the set holds no real frames
func (s *Set) Empty() bool {
	return len(s.Numbers) == 1 && s.Numbers[0] == NoFrames
}

// Equal compares name and the full number sequence
func (s *Set) Equal(other *Set) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Name == other.Name && slices.Equal(s.Numbers, other.Numbers)
}

// Hash combines name and the full number sequence, consistent with Equal
func (s *Set) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s.Name))
	_, _ = h.Write([]byte{0})

	var buf [8]byte
	for _, n := range s.Numbers {
		binary.BigEndian.PutUint64(buf[:], uint64(int64(n)))
		_, _ = h.Write(buf[:])
	}
	return h.Sum64()
}

func (s *Set) String() string {
	return fmt.Sprintf("%s %v", s.Name, s.Numbers)
}
