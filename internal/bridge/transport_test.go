package bridge

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

// newTestTransport points an HTTPTransport at an httptest server
func newTestTransport(t *testing.T, handler http.HandlerFunc) *HTTPTransport {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}
	return NewHTTPTransport(NewInfoWith(u.Hostname(), u.Port(), "testkey"))
}

// engineHandler answers V and U queries and echoes stream requests
func engineHandler(current int, frames []int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("sessionkey") != "testkey" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch q.Get("type") {
		case "V":
			fmt.Fprintf(w, "key %s\nV %d F%03d\n", q.Get("sessionkey"), current, len(frames))
		case "U":
			fmt.Fprintf(w, "key %s\n", q.Get("sessionkey"))
			for _, n := range frames {
				fmt.Fprintf(w, "U %d\n", n)
			}
		case "D", "P", "C", "F":
			fmt.Fprintf(w, "%s:%s", q.Get("type"), q.Get("text"))
		case "T":
			fmt.Fprintf(w, "key\n%s on %s\n", q.Get("text"), q.Get("frame"))
		default:
			w.WriteHeader(http.StatusBadRequest)
		}
	}
}

func readAll(t *testing.T, rc io.ReadCloser) string {
	t.Helper()
	defer func() { _ = rc.Close() }()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(data)
}

func TestHTTPTransport_Queries(t *testing.T) {
	tr := newTestTransport(t, engineHandler(7, []int{1, 2, 7, 12}))
	ctx := context.Background()

	current, err := tr.CurrentFrame(ctx)
	if err != nil {
		t.Fatalf("CurrentFrame() error = %v", err)
	}
	if current != 7 {
		t.Errorf("CurrentFrame() = %d, want 7", current)
	}

	count, err := tr.NumberOfFrames(ctx)
	if err != nil {
		t.Fatalf("NumberOfFrames() error = %v", err)
	}
	if count != 4 {
		t.Errorf("NumberOfFrames() = %d, want 4", count)
	}

	numbers, err := tr.FrameNumbers(ctx)
	if err != nil {
		t.Fatalf("FrameNumbers() error = %v", err)
	}
	if fmt.Sprint(numbers) != "[1 2 7 12]" {
		t.Errorf("FrameNumbers() = %v, want [1 2 7 12]", numbers)
	}
}

func TestHTTPTransport_OpenStreams(t *testing.T) {
	tr := newTestTransport(t, engineHandler(5, nil))
	ctx := context.Background()

	tests := []struct {
		name string
		open func() (io.ReadCloser, error)
		want string
	}{
		{"data", func() (io.ReadCloser, error) { return tr.OpenData(ctx, 3) }, "D:3"},
		{"data current", func() (io.ReadCloser, error) { return tr.OpenData(ctx, 0) }, "D:5"},
		{"graphics", func() (io.ReadCloser, error) { return tr.OpenGraphics(ctx, 2) }, "P:2"},
		{"graphics current", func() (io.ReadCloser, error) { return tr.OpenGraphics(ctx, -1) }, "P:5"},
		{"file", func() (io.ReadCloser, error) { return tr.OpenFile(ctx, "Frame2.0") }, "F:Frame2.0"},
		{"gif", func() (io.ReadCloser, error) { return tr.OpenGIF(ctx, 9) }, "C:9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := tt.open()
			if err != nil {
				t.Fatalf("open error = %v", err)
			}
			if got := readAll(t, body); got != tt.want {
				t.Errorf("body = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHTTPTransport_Command(t *testing.T) {
	tr := newTestTransport(t, engineHandler(1, nil))

	lines, err := tr.Command(context.Background(), "EG 1 2", 3)
	if err != nil {
		t.Fatalf("Command() error = %v", err)
	}
	if len(lines) != 2 || lines[1] != "EG 1 2 on 3" {
		t.Errorf("Command() = %q, want echo of the command line", lines)
	}
}

func TestHTTPTransport_StatusError(t *testing.T) {
	tr := newTestTransport(t, engineHandler(1, nil))
	tr.Info.SetKey("wrong")

	_, err := tr.OpenData(context.Background(), 1)
	if !IsTransportError(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
	be := err.(*Error)
	if be.StatusCode != http.StatusForbidden {
		t.Errorf("StatusCode = %d, want 403", be.StatusCode)
	}
	if !strings.Contains(Hint(err), "HTTP 403") {
		t.Errorf("Hint() = %q, want status mention", Hint(err))
	}
}

func TestHTTPTransport_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	u, _ := url.Parse(server.URL)
	server.Close()

	tr := NewHTTPTransport(NewInfoWith(u.Hostname(), u.Port(), DefaultKey))
	_, err := tr.OpenGIF(context.Background(), 1)
	if !IsTransportError(err) {
		t.Fatalf("error = %v, want transport error", err)
	}
}

func TestHTTPTransport_MalformedQueries(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"key only", "key\n"},
		{"wrong type", "key\nX 3 F010\n"},
		{"not a number", "key\nV three F010\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, tt.body)
			})
			n, err := tr.CurrentFrame(context.Background())
			if !IsMalformed(err) {
				t.Errorf("error = %v, want malformed", err)
			}
			if n != -1 {
				t.Errorf("CurrentFrame() = %d, want -1", n)
			}
		})
	}
}

func TestHTTPTransport_FrameNumbersUnexpected(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "key\nU 1\nV 2\n")
	})

	if _, err := tr.FrameNumbers(context.Background()); !IsMalformed(err) {
		t.Errorf("error = %v, want malformed", err)
	}
}

func TestHTTPTransport_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := tr.OpenData(ctx, 1); !IsTransportError(err) {
		t.Errorf("error = %v, want transport error", err)
	}
}
