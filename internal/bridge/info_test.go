package bridge

import (
	"strings"
	"testing"
)

const defaultRequest = "http://localhost:8080/?sessionkey=00000000000000000000000000000000&version=2&frame=0&x=0&y=0&type="

func TestNewInfo(t *testing.T) {
	info := NewInfo()

	if info.Host() != DefaultHost || info.Port() != DefaultPort || info.Key() != DefaultKey {
		t.Errorf("NewInfo() = %s, want defaults", info)
	}
	if info.Request() != defaultRequest {
		t.Errorf("Request() = %s, want %s", info.Request(), defaultRequest)
	}
}

func TestInfo_SettersRecompute(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Info)
		want string
	}{
		{
			name: "host",
			set:  func(i *Info) { i.SetHost("engine.example.org") },
			want: "http://engine.example.org:8080/?sessionkey=00000000000000000000000000000000&version=2&frame=0&x=0&y=0&type=",
		},
		{
			name: "port",
			set:  func(i *Info) { i.SetPort("9090") },
			want: "http://localhost:9090/?sessionkey=00000000000000000000000000000000&version=2&frame=0&x=0&y=0&type=",
		},
		{
			name: "key",
			set:  func(i *Info) { i.SetKey("abc") },
			want: "http://localhost:8080/?sessionkey=abc&version=2&frame=0&x=0&y=0&type=",
		},
		{
			name: "all three",
			set: func(i *Info) {
				i.SetHost("h")
				i.SetPort("1")
				i.SetKey("k")
			},
			want: "http://h:1/?sessionkey=k&version=2&frame=0&x=0&y=0&type=",
		},
		{
			name: "no validation",
			set:  func(i *Info) { i.SetPort("not-a-port") },
			want: "http://localhost:not-a-port/?sessionkey=00000000000000000000000000000000&version=2&frame=0&x=0&y=0&type=",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewInfo()
			tt.set(info)
			if got := info.Request(); got != tt.want {
				t.Errorf("Request() = %s, want %s", got, tt.want)
			}
			if !strings.HasPrefix(info.DataRequest(1), tt.want) {
				t.Errorf("DataRequest(1) = %s, not built on %s", info.DataRequest(1), tt.want)
			}
		})
	}
}

func TestInfo_TypedRequests(t *testing.T) {
	info := NewInfo()

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"frame", info.FrameRequest(), defaultRequest + "V"},
		{"frames", info.FramesRequest(), defaultRequest + "U"},
		{"file", info.FileRequest("Frame3.0"), defaultRequest + "F&text=Frame3.0"},
		{"data", info.DataRequest(3), defaultRequest + "D&text=3"},
		{"graphics", info.GraphicsRequest(12), defaultRequest + "P&text=12"},
		{"gif", info.GIFRequest(1), defaultRequest + "C&text=1"},
		{"command", info.CommandRequest("ERASE", 0), defaultRequest + "T&text=ERASE"},
		{
			"command on frame",
			info.CommandRequest("ERASE", 4),
			"http://localhost:8080/?sessionkey=00000000000000000000000000000000&version=2&frame=4&x=0&y=0&type=T&text=ERASE",
		},
	}

	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestInfo_Clone(t *testing.T) {
	orig := NewInfoWith("a", "1", "k")
	clone := orig.Clone()
	clone.SetHost("b")

	if orig.Host() != "a" {
		t.Errorf("original host = %s, want a", orig.Host())
	}
	if !strings.Contains(clone.Request(), "http://b:1/") {
		t.Errorf("clone request = %s, want host b", clone.Request())
	}
}

func TestInfo_String(t *testing.T) {
	got := NewInfoWith("h", "2", "k").String()
	for _, part := range []string{"host=h", "port=2", "key=k"} {
		if !strings.Contains(got, part) {
			t.Errorf("String() = %s, missing %s", got, part)
		}
	}
}
