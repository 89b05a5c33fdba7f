package browse

import (
	"context"
	"errors"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/discovery"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
	"github.com/muurk/framebridge/internal/simulator"
)

// startBridge serves a two-frame simulated engine
func startBridge(t *testing.T) (*simulator.Engine, *Bridge) {
	t.Helper()
	e := simulator.NewEngine("simkey")
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	e.AddFrame(simulator.SyntheticFrame(1, 4, 6, now))
	e.AddFrame(simulator.SyntheticFrame(2, 4, 6, now))

	server := httptest.NewServer(simulator.NewHandler(e))
	t.Cleanup(server.Close)
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatalf("parse server URL: %v", err)
	}

	tr := bridge.NewHTTPTransport(bridge.NewInfoWith(u.Hostname(), u.Port(), "simkey"))
	s, err := frame.NewSession(tr.Info, tr, 4,
		frame.WithRetryPolicy(protocol.RetryPolicy{MaxAttempts: 1000, Delay: time.Millisecond}))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return e, &Bridge{Session: s, Transport: tr}
}

// step feeds msg to the model and runs the returned command, if any,
// feeding its message back once
func step(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	m = next.(AppModel)
	if cmd == nil {
		return m, nil
	}
	return m, cmd()
}

func keyPress(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestApp_BrowseFrames(t *testing.T) {
	ctx := context.Background()
	engine, b := startBridge(t)

	m := NewAppModel(ctx, Options{Bridge: b})
	if m.CurrentScreen != ScreenFrames || !m.Connecting {
		t.Fatalf("start screen = %s (connecting %v), want frames", m.CurrentScreen, m.Connecting)
	}

	m, msg := step(t, m, connectCmd(ctx, b)())
	if m.Connecting {
		t.Fatal("still connecting after the frame list arrived")
	}
	if got := m.Frames.Numbers; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Fatalf("Numbers = %v, want [1 2]", got)
	}
	if m.Frames.Current != 1 || m.Frames.Selected() != 1 {
		t.Errorf("Current/Selected = %d/%d, want 1/1", m.Frames.Current, m.Frames.Selected())
	}

	m, _ = step(t, m, msg)
	if m.Frames.Err != nil {
		t.Fatalf("load error = %v", m.Frames.Err)
	}
	if m.Frames.Snapshot == nil || m.Frames.Snapshot.Number != 1 {
		t.Fatal("frame 1 snapshot not loaded")
	}
	if view := m.View(); !strings.Contains(view, "Frame 1  4x6") {
		t.Errorf("view does not show frame 1:\n%s", view)
	}

	m, msg = step(t, m, keyPress("down"))
	if m.Frames.Selected() != 2 || !m.Frames.Loading {
		t.Fatalf("after down: selected %d loading %v", m.Frames.Selected(), m.Frames.Loading)
	}
	m, _ = step(t, m, msg)
	if m.Frames.Snapshot == nil || m.Frames.Snapshot.Number != 2 {
		t.Fatal("frame 2 snapshot not loaded")
	}

	m, msg = step(t, m, keyPress("enter"))
	m, _ = step(t, m, msg)
	if m.Frames.Err != nil {
		t.Fatalf("show error = %v", m.Frames.Err)
	}
	if m.Frames.Current != 2 || engine.Current() != 2 {
		t.Errorf("current frame = %d (engine %d), want 2", m.Frames.Current, engine.Current())
	}

	if _, cmd := m.Update(keyPress("q")); cmd == nil {
		t.Error("q did not quit")
	} else if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q did not return tea.Quit")
	}
}

func TestFrames_StaleSnapshotDropped(t *testing.T) {
	_, b := startBridge(t)
	m := NewFramesModel(context.Background(), b, []int{1, 2}, 2, false)
	if m.Selected() != 2 {
		t.Fatalf("cursor starts on %d, want the current frame 2", m.Selected())
	}

	m, _ = m.Update(snapshotMsg{number: 1, snap: &frame.Snapshot{Number: 1}})
	if m.Snapshot != nil {
		t.Error("snapshot for a frame no longer selected was applied")
	}

	m, _ = m.Update(keyPress("esc"))
	if m.BackRequested {
		t.Error("esc went back without a scanner")
	}
}

func TestFrames_CommandErrors(t *testing.T) {
	_, b := startBridge(t)
	m := NewFramesModel(context.Background(), b, []int{1}, 1, false)

	res := &bridge.CommandResult{Current: 1, Errors: []string{"frame 9 does not exist"}}
	m, _ = m.Update(commandMsg{line: "SF 9", res: res})
	if m.Err == nil || !strings.Contains(m.Err.Error(), "frame 9 does not exist") {
		t.Errorf("Err = %v, want the engine's error", m.Err)
	}
}

func TestApp_Discovery(t *testing.T) {
	ctx := context.Background()
	_, b := startBridge(t)
	ep := &discovery.Endpoint{Instance: "lab", IP: "127.0.0.1", Port: 8080, Metadata: map[string]string{"frames": "2"}}

	var connected *discovery.Endpoint
	m := NewAppModel(ctx, Options{
		Scan: func(context.Context) ([]*discovery.Endpoint, error) {
			return []*discovery.Endpoint{ep}, nil
		},
		Connect: func(e *discovery.Endpoint) (*Bridge, error) {
			connected = e
			return b, nil
		},
	})
	if m.CurrentScreen != ScreenDiscovery || !m.Discovery.Scanning {
		t.Fatalf("start screen = %s, want scanning discovery", m.CurrentScreen)
	}

	m, _ = step(t, m, m.Discovery.scanCmd()())
	if len(m.Discovery.Endpoints) != 1 {
		t.Fatalf("Endpoints = %d, want 1", len(m.Discovery.Endpoints))
	}
	if view := m.View(); !strings.Contains(view, "lab") || !strings.Contains(view, "2 frames") {
		t.Errorf("discovery view does not list the bridge:\n%s", view)
	}

	m, msg := step(t, m, keyPress("enter"))
	if !m.Connecting {
		t.Fatal("enter did not start connecting")
	}
	m, _ = step(t, m, msg)
	if connected != ep {
		t.Error("Connect not called with the selected endpoint")
	}
	if m.CurrentScreen != ScreenFrames || len(m.Frames.Numbers) != 2 {
		t.Fatalf("screen = %s with %d frames, want frames screen", m.CurrentScreen, len(m.Frames.Numbers))
	}

	m, _ = step(t, m, keyPress("esc"))
	if m.CurrentScreen != ScreenDiscovery || !m.Discovery.Scanning {
		t.Errorf("esc: screen = %s, want a fresh scan", m.CurrentScreen)
	}
}

func TestApp_ConnectFailure(t *testing.T) {
	ctx := context.Background()
	ep := &discovery.Endpoint{Instance: "gone", IP: "127.0.0.1", Port: 1}
	m := NewAppModel(ctx, Options{
		Scan: func(context.Context) ([]*discovery.Endpoint, error) {
			return []*discovery.Endpoint{ep}, nil
		},
		Connect: func(*discovery.Endpoint) (*Bridge, error) {
			return nil, errors.New("refused")
		},
	})

	m, _ = step(t, m, m.Discovery.scanCmd()())
	m, msg := step(t, m, keyPress("enter"))
	m, _ = step(t, m, msg)

	if m.CurrentScreen != ScreenDiscovery || m.Connecting {
		t.Fatalf("screen = %s connecting %v, want discovery", m.CurrentScreen, m.Connecting)
	}
	if view := m.View(); !strings.Contains(view, "refused") {
		t.Errorf("view does not show the connect error:\n%s", view)
	}
}

func TestRun_NeedsSource(t *testing.T) {
	if err := Run(context.Background(), Options{}); err == nil {
		t.Error("Run() without bridge or scanner should fail")
	}
}
