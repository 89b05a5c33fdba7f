package discovery

import (
	"fmt"
	"strconv"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
)

// Endpoint represents an engine bridge discovered on the network
type Endpoint struct {
	// Instance is the advertised service instance name (e.g., "mcidas-lab")
	Instance string `yaml:"instance"`

	// Hostname is the mDNS hostname (e.g., "wxserver.local.")
	Hostname string `yaml:"hostname"`

	// IP is the address the bridge answered from, IPv4 preferred
	IP string `yaml:"ip"`

	// Port is the bridge HTTP port
	Port int `yaml:"port"`

	// Metadata contains the mDNS TXT record data
	// Common fields: "version=2", "frames=4"
	Metadata map[string]string `yaml:"metadata,omitempty"`

	// DiscoveredAt is when the bridge was discovered
	DiscoveredAt time.Time `yaml:"discovered_at"`
}

// String returns a human-readable string representation of the endpoint
func (e *Endpoint) String() string {
	return fmt.Sprintf("Bridge %s (%s) at %s:%d", e.Instance, e.Hostname, e.IP, e.Port)
}

// BaseURL returns the HTTP base URL for the bridge
func (e *Endpoint) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", e.IP, e.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (e *Endpoint) GetMetadata(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

// Info returns request parameters for the endpoint using the given
// session key. An empty key keeps the default.
func (e *Endpoint) Info(key string) *bridge.Info {
	if key == "" {
		key = bridge.DefaultKey
	}
	return bridge.NewInfoWith(e.IP, strconv.Itoa(e.Port), key)
}
