package simulator

import (
	"testing"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
)

func TestSyntheticFrame(t *testing.T) {
	at := time.Date(2024, time.February, 14, 18, 30, 15, 0, time.UTC)
	f := SyntheticFrame(2, 3, 5, at)

	if f.Data.Height != 3 || f.Data.Width != 5 || len(f.Data.Pixels) != 15 {
		t.Fatalf("data = %s, want 3x5", f.Data)
	}
	// Wire row 0 is the bottom display row
	if got, want := f.Data.Pixels[0], byte(2+0+64); got != want {
		t.Errorf("first wire pixel = %d, want %d", got, want)
	}

	dir, err := protocol.DecodeDirectory(protocol.NewSliceWords(f.Directory), nil)
	if err != nil {
		t.Fatalf("DecodeDirectory() error = %v", err)
	}
	if dir.SensorNumber != DefaultSensor || dir.Band != 2 {
		t.Errorf("directory = %s, want sensor %d band 2", dir, DefaultSensor)
	}
	if !dir.NominalTime.Equal(at) {
		t.Errorf("NominalTime = %v, want %v", dir.NominalTime, at)
	}
	if protocol.NavName(dir.Nav.Type()) != "GOES" {
		t.Errorf("navigation = %s, want GOES", protocol.NavName(dir.Nav.Type()))
	}

	if _, skipped := frame.Composite(f.Graphics, 3, 5); len(skipped) != 0 {
		t.Errorf("border records did not parse: %q", skipped)
	}
}

func TestBorderRecords_TinyFrame(t *testing.T) {
	if got := borderRecords(1, 10, 1); len(got) != 0 {
		t.Errorf("borderRecords() for a single row = %q, want none", got)
	}
}

func TestEngine_Frames(t *testing.T) {
	e := NewEngine("")
	if e.Key() != bridge.DefaultKey {
		t.Errorf("Key() = %q, want default key", e.Key())
	}

	now := time.Now()
	e.AddFrame(SyntheticFrame(3, 2, 2, now))
	e.AddFrame(SyntheticFrame(1, 2, 2, now))

	if e.Current() != 3 {
		t.Errorf("Current() = %d, want the first frame added", e.Current())
	}
	if got := e.Numbers(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Numbers() = %v, want [1 3]", got)
	}
	if err := e.SetCurrent(7); err == nil {
		t.Error("SetCurrent() to a missing frame should fail")
	}

	if _, ok := e.File(frame.DirectoryFile(1)); !ok {
		t.Error("directory file of frame 1 should exist")
	}
	if _, ok := e.File("Frame9.0"); ok {
		t.Error("directory file of a missing frame should not exist")
	}
	e.AddFile("SATANNOT", []byte("x"))
	if data, ok := e.File("SATANNOT"); !ok || string(data) != "x" {
		t.Error("stored file not served")
	}
}

func TestEngine_Command(t *testing.T) {
	now := time.Now()
	newEngine := func() *Engine {
		e := NewEngine("k")
		e.AddFrame(SyntheticFrame(1, 2, 2, now))
		e.AddFrame(SyntheticFrame(2, 2, 2, now))
		return e
	}

	tests := []struct {
		name       string
		line       string
		target     int
		current    int
		wantErrors int
		status     map[int]bridge.FrameStatus
	}{
		{
			name:    "show frame",
			line:    "SF 2",
			current: 2,
			status:  map[int]bridge.FrameStatus{2: {Frame: 2, Image: true}},
		},
		{
			name:    "show target frame",
			line:    "sf",
			target:  2,
			current: 2,
			status:  map[int]bridge.FrameStatus{2: {Frame: 2, Image: true}},
		},
		{
			name:       "show missing frame",
			line:       "SF 9",
			current:    1,
			wantErrors: 1,
		},
		{
			name:    "erase graphics",
			line:    "ERASE G 2",
			current: 1,
			status:  map[int]bridge.FrameStatus{2: {Frame: 2, Graphics: true}},
		},
		{
			name:    "restore enhancement",
			line:    "EU REST",
			current: 1,
			status: map[int]bridge.FrameStatus{
				1: {Frame: 1, ColorTable: true},
				2: {Frame: 2, ColorTable: true},
			},
		},
		{
			name:       "unknown",
			line:       "IMGDISP GOES/EAST",
			current:    1,
			wantErrors: 1,
		},
		{
			name:       "empty",
			line:       "",
			current:    1,
			wantErrors: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine()
			res, err := bridge.ParseCommandResponse(e.Command(tt.line, tt.target))
			if err != nil {
				t.Fatalf("ParseCommandResponse() error = %v", err)
			}
			if res.Current != tt.current {
				t.Errorf("Current = %d, want %d", res.Current, tt.current)
			}
			if len(res.Errors) != tt.wantErrors {
				t.Errorf("Errors = %q, want %d", res.Errors, tt.wantErrors)
			}
			if len(res.Echo) != 1 || res.Echo[0] != tt.line {
				t.Errorf("Echo = %q, want %q", res.Echo, tt.line)
			}
			if len(res.Status) != 2 {
				t.Fatalf("Status has %d records, want one per frame", len(res.Status))
			}
			for _, st := range res.Status {
				want, ok := tt.status[st.Frame]
				if !ok {
					want = bridge.FrameStatus{Frame: st.Frame}
				}
				if st != want {
					t.Errorf("status of frame %d = %+v, want %+v", st.Frame, st, want)
				}
			}

			// Status is reported once
			again, _ := bridge.ParseCommandResponse(e.Command("", 0))
			for _, st := range again.Status {
				if st.Dirty() {
					t.Errorf("frame %d still dirty on the next command", st.Frame)
				}
			}
		})
	}
}
