package discovery

import (
	"testing"

	"github.com/muurk/framebridge/internal/bridge"
)

func TestEndpoint_String(t *testing.T) {
	e := &Endpoint{
		Instance: "mcidas-lab",
		Hostname: "wxserver.local.",
		IP:       "192.168.4.16",
		Port:     8080,
	}

	expected := "Bridge mcidas-lab (wxserver.local.) at 192.168.4.16:8080"
	if e.String() != expected {
		t.Errorf("Endpoint.String() = %v, want %v", e.String(), expected)
	}
}

func TestEndpoint_BaseURL(t *testing.T) {
	tests := []struct {
		name     string
		endpoint *Endpoint
		expected string
	}{
		{
			name:     "default bridge port",
			endpoint: &Endpoint{IP: "192.168.4.16", Port: 8080},
			expected: "http://192.168.4.16:8080",
		},
		{
			name:     "custom port",
			endpoint: &Endpoint{IP: "10.0.0.5", Port: 9000},
			expected: "http://10.0.0.5:9000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.endpoint.BaseURL(); got != tt.expected {
				t.Errorf("Endpoint.BaseURL() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEndpoint_GetMetadata(t *testing.T) {
	e := &Endpoint{
		Metadata: map[string]string{
			"version": "2",
			"frames":  "4",
		},
	}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{"existing key", "version", "2"},
		{"another existing key", "frames", "4"},
		{"non-existent key", "missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.GetMetadata(tt.key); got != tt.expected {
				t.Errorf("Endpoint.GetMetadata(%v) = %v, want %v", tt.key, got, tt.expected)
			}
		})
	}

	if got := (&Endpoint{}).GetMetadata("anything"); got != "" {
		t.Errorf("Endpoint.GetMetadata() with nil map = %v, want empty string", got)
	}
}

func TestEndpoint_Info(t *testing.T) {
	e := &Endpoint{IP: "10.0.0.5", Port: 9000}

	info := e.Info("abc")
	if info.Host() != "10.0.0.5" || info.Port() != "9000" || info.Key() != "abc" {
		t.Errorf("Info() = %s", info)
	}
	if got := e.Info("").Key(); got != bridge.DefaultKey {
		t.Errorf("Info(\"\").Key() = %v, want default key", got)
	}
}
