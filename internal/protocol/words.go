package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// WordSize is the size in bytes of one wire word
const WordSize = 4

// WordSource yields 32-bit words in wire order.
type WordSource interface {
	// ReadWords returns the next n words. A source that cannot supply all n
	// words returns an error wrapping ErrMalformed.
	ReadWords(n int) ([]int32, error)
}

// StreamWords reads big-endian words from a byte stream.
type StreamWords struct {
	r        io.Reader
	consumed int64
}

// NewStreamWords wraps r as a WordSource
func NewStreamWords(r io.Reader) *StreamWords {
	return &StreamWords{r: r}
}

// ReadWords reads exactly n big-endian words from the stream
func (s *StreamWords) ReadWords(n int) ([]int32, error) {
	if n <= 0 {
		return []int32{}, nil
	}

	buf := make([]byte, n*WordSize)
	got, err := io.ReadFull(s.r, buf)
	s.consumed += int64(got)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: want %d words, stream ended after %d bytes", ErrMalformed, n, got)
		}
		return nil, fmt.Errorf("failed to read %d words: %w", n, err)
	}

	words := make([]int32, n)
	for i := range words {
		words[i] = int32(binary.BigEndian.Uint32(buf[i*WordSize:]))
	}
	return words, nil
}

// Consumed returns the number of bytes read from the stream so far
func (s *StreamWords) Consumed() int64 {
	return s.consumed
}

// SliceWords serves words from an in-memory slice.
type SliceWords struct {
	words []int32
	off   int
}

// NewSliceWords wraps words as a WordSource. The slice is not copied.
func NewSliceWords(words []int32) *SliceWords {
	return &SliceWords{words: words}
}

// ReadWords returns the next n words of the slice
func (s *SliceWords) ReadWords(n int) ([]int32, error) {
	if n <= 0 {
		return []int32{}, nil
	}
	if s.off+n > len(s.words) {
		return nil, fmt.Errorf("%w: want %d words, only %d left", ErrMalformed, n, len(s.words)-s.off)
	}

	out := make([]int32, n)
	copy(out, s.words[s.off:s.off+n])
	s.off += n
	return out, nil
}

// Remaining returns the number of unread words
func (s *SliceWords) Remaining() int {
	return len(s.words) - s.off
}

// EncodeWords renders words in big-endian wire order
func EncodeWords(words []int32) []byte {
	buf := make([]byte, len(words)*WordSize)
	for i, w := range words {
		binary.BigEndian.PutUint32(buf[i*WordSize:], uint32(w))
	}
	return buf
}
