package main

import (
	"context"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/muurk/framebridge/internal/simulator"
)

func TestParseFrames(t *testing.T) {
	tests := []struct {
		args    []string
		want    []int
		wantErr bool
	}{
		{args: nil, want: nil},
		{args: []string{"1,2", "5"}, want: []int{1, 2, 5}},
		{args: []string{" 3 , ,4"}, want: []int{3, 4}},
		{args: []string{"x"}, wantErr: true},
		{args: []string{"-1"}, wantErr: true},
	}
	for _, tt := range tests {
		got, err := parseFrames(tt.args)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFrames(%q) error = %v, wantErr %v", tt.args, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFrames(%q) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestFrameArg(t *testing.T) {
	if n, err := frameArg(nil); err != nil || n != 0 {
		t.Errorf("frameArg(nil) = %d, %v; want current frame", n, err)
	}
	if n, err := frameArg([]string{"7"}); err != nil || n != 7 {
		t.Errorf("frameArg(7) = %d, %v", n, err)
	}
	if _, err := frameArg([]string{"seven"}); err == nil {
		t.Error("frameArg(seven) should fail")
	}
	if frameLabel(0) != "current" || frameLabel(4) != "4" {
		t.Error("frameLabel() mislabels frames")
	}
}

func TestYAMLOutput(t *testing.T) {
	defer func(f string) { outputFormat = f }(outputFormat)

	for format, want := range map[string]bool{"": false, "text": false, "yaml": true} {
		outputFormat = format
		if got, err := yamlOutput(); err != nil || got != want {
			t.Errorf("yamlOutput(%q) = %v, %v; want %v", format, got, err, want)
		}
	}
	outputFormat = "json"
	if _, err := yamlOutput(); err == nil {
		t.Error("unknown format should fail")
	}
}

// TestCommands runs the CLI against the simulator
func TestCommands(t *testing.T) {
	engine := simulator.NewEngine("simkey")
	now := time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC)
	for n := 1; n <= 2; n++ {
		engine.AddFrame(simulator.SyntheticFrame(n, 4, 6, now))
	}
	server := httptest.NewServer(simulator.NewHandler(engine))
	defer server.Close()
	u, _ := url.Parse(server.URL)

	cfg := filepath.Join(t.TempDir(), "config.yaml")
	common := []string{"--config", cfg, "--host", u.Hostname(), "--port", u.Port(), "--key", "simkey", "--format", "yaml"}

	tests := [][]string{
		{"config", "init", "--force"},
		{"config", "show"},
		{"frames"},
		{"dims", "2"},
		{"directory", "1", "--words"},
		{"info", "2"},
		{"tables", "1"},
		{"enhancement", "1"},
		{"graphics", "1"},
		{"set", "loop"},
		{"prefetch", "1,2"},
		{"command", "SF", "2", "--watch", "1,2"},
	}
	for _, args := range tests {
		t.Run(args[0], func(t *testing.T) {
			rootCmd.SetArgs(append(args, common...))
			if err := rootCmd.ExecuteContext(context.Background()); err != nil {
				t.Fatalf("xframe %v error = %v", args, err)
			}
		})
	}

	if engine.Current() != 2 {
		t.Errorf("engine current frame = %d, want 2 after SF 2", engine.Current())
	}
}
