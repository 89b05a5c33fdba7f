package bridge

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"testing"
)

func TestParseCommandResponse(t *testing.T) {
	lines := []string{
		"key 0000",
		"C 001 SF 3",
		"T 001 Frame 3 shown",
		"",
		"V 3 F004",
		"U 3 I1G0C0",
		"U 4 I0G1C1",
		"M 001 no such area",
		"H whatever",
		"Z unknown record",
	}

	res, err := ParseCommandResponse(lines)
	if err != nil {
		t.Fatalf("ParseCommandResponse() error = %v", err)
	}

	want := &CommandResult{
		Current: 3,
		Text:    []string{"Frame 3 shown"},
		Echo:    []string{"SF 3"},
		Errors:  []string{"no such area"},
		Status: []FrameStatus{
			{Frame: 3, Image: true},
			{Frame: 4, Graphics: true, ColorTable: true},
		},
	}
	if !reflect.DeepEqual(res, want) {
		t.Errorf("ParseCommandResponse() = %+v, want %+v", res, want)
	}
}

func TestParseCommandResponse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
	}{
		{"short V", []string{"key", "V"}},
		{"bad V number", []string{"key", "V x"}},
		{"short U", []string{"key", "U 3"}},
		{"short U flags", []string{"key", "U 3 I1"}},
		{"bad U frame", []string{"key", "U x I1G0C0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCommandResponse(tt.lines); !IsMalformed(err) {
				t.Errorf("error = %v, want malformed", err)
			}
		})
	}
}

func TestParseCommandResponse_Empty(t *testing.T) {
	res, err := ParseCommandResponse(nil)
	if err != nil {
		t.Fatalf("ParseCommandResponse() error = %v", err)
	}
	if res.Current != -1 || res.Status != nil {
		t.Errorf("empty response = %+v, want no current frame and no status", res)
	}
}

func TestFrameStatus_Dirty(t *testing.T) {
	if (FrameStatus{Frame: 1}).Dirty() {
		t.Error("clean status reported dirty")
	}
	if !(FrameStatus{Frame: 1, ColorTable: true}).Dirty() {
		t.Error("color table change not reported dirty")
	}
}

func TestHTTPTransport_Run(t *testing.T) {
	tr := newTestTransport(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "key\nC 001 %s\nV 2 F002\nU 2 I1G0C0\n", r.URL.Query().Get("text"))
	})

	res, err := tr.Run(context.Background(), "SF 2", 0)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Current != 2 || len(res.Echo) != 1 || res.Echo[0] != "SF 2" {
		t.Errorf("Run() = %+v", res)
	}
	if len(res.Status) != 1 || !res.Status[0].Image {
		t.Errorf("Status = %+v, want frame 2 image dirty", res.Status)
	}
}
