package protocol

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
)

func sampleFrameData(height, width int) *FrameData {
	fd := &FrameData{Height: height, Width: width}
	for i := 0; i < TableSize; i++ {
		fd.Stretch[i] = int32(i)
		fd.Color[i] = int32(i * 0x010101)
		fd.Graphics[i] = int32(0xff0000 - i)
	}
	fd.Pixels = make([]byte, height*width)
	for i := range fd.Pixels {
		fd.Pixels[i] = byte(i)
	}
	return fd
}

func TestReadFrameData(t *testing.T) {
	want := sampleFrameData(3, 4)
	stream := EncodeFrameData(want)

	got, res, err := ReadFrameData(context.Background(), bytes.NewReader(stream), fastPolicy(100))
	if err != nil {
		t.Fatalf("ReadFrameData() error = %v", err)
	}

	if got.Height != 3 || got.Width != 4 {
		t.Errorf("size = %dx%d, want 3x4", got.Height, got.Width)
	}
	if got.Stretch != want.Stretch || got.Color != want.Color || got.Graphics != want.Graphics {
		t.Error("tables differ from the encoded ones")
	}
	if !bytes.Equal(got.Pixels, want.Pixels) {
		t.Errorf("pixels = %v, want %v", got.Pixels, want.Pixels)
	}
	if res.Bytes != 12 {
		t.Errorf("pixel bytes = %d, want 12", res.Bytes)
	}
}

func TestReadFrameData_SlowPixels(t *testing.T) {
	fd := sampleFrameData(2, 2)
	stream := EncodeFrameData(fd)
	header := len(stream) - len(fd.Pixels)

	// tables arrive in one piece, pixels one byte at a time
	r := io.MultiReader(bytes.NewReader(stream[:header]), &trickleReader{data: stream[header:]})

	got, res, err := ReadFrameData(context.Background(), r, fastPolicy(100))
	if err != nil {
		t.Fatalf("ReadFrameData() error = %v", err)
	}
	if !bytes.Equal(got.Pixels, fd.Pixels) {
		t.Errorf("pixels = %v, want %v", got.Pixels, fd.Pixels)
	}
	if res.Attempts < 4 {
		t.Errorf("Attempts = %d, want at least 4", res.Attempts)
	}
}

func TestReadFrameData_Errors(t *testing.T) {
	full := EncodeFrameData(sampleFrameData(2, 3))

	tests := []struct {
		name   string
		stream []byte
		want   error
	}{
		{"empty", nil, ErrMalformed},
		{"size only", full[:8], ErrMalformed},
		{"partial tables", full[:8+TableSize*WordSize+10], ErrMalformed},
		{"short pixels", full[:len(full)-2], ErrMalformed},
		{"negative size", EncodeWords([]int32{-1, 5}), ErrMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadFrameData(context.Background(), bytes.NewReader(tt.stream), fastPolicy(100))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestReadFrameData_StalledPixels(t *testing.T) {
	fd := sampleFrameData(2, 2)
	stream := EncodeFrameData(fd)
	header := len(stream) - len(fd.Pixels)
	r := io.MultiReader(bytes.NewReader(stream[:header]), &stallReader{})

	_, res, err := ReadFrameData(context.Background(), r, fastPolicy(5))
	if !errors.Is(err, ErrRetryExhausted) {
		t.Fatalf("error = %v, want ErrRetryExhausted", err)
	}
	if res.Attempts != 5 {
		t.Errorf("Attempts = %d, want 5", res.Attempts)
	}
}

func TestReadFrameData_ZeroSize(t *testing.T) {
	got, _, err := ReadFrameData(context.Background(), bytes.NewReader(EncodeFrameData(sampleFrameData(0, 0))), fastPolicy(1))
	if err != nil {
		t.Fatalf("ReadFrameData() error = %v", err)
	}
	if len(got.Pixels) != 0 {
		t.Errorf("pixels = %d, want 0", len(got.Pixels))
	}
}
