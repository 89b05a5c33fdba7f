package config

import (
	"sort"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/protocol"
)

// Registry represents the entire user configuration file.
type Registry struct {
	Version       int                `yaml:"version"`
	DefaultBridge string             `yaml:"default_bridge,omitempty"`
	Bridges       map[string]*Bridge `yaml:"bridges,omitempty"` // Keyed by profile name
	Fetch         *FetchPrefs        `yaml:"fetch,omitempty"`
	Sensors       map[int]string     `yaml:"sensors,omitempty"`     // Sensor number to display name
	SensorFile    string             `yaml:"sensor_file,omitempty"` // Optional SATANNOT file
}

// Bridge is a named engine endpoint.
type Bridge struct {
	Host     string    `yaml:"host"`
	Port     string    `yaml:"port"`
	Key      string    `yaml:"key,omitempty"`
	LastSeen time.Time `yaml:"last_seen,omitempty"` // Last discovery time
}

// FetchPrefs tunes how frames are pulled from the engine.
type FetchPrefs struct {
	RetryAttempts      int `yaml:"retry_attempts"`       // Pixel read attempts
	RetryDelayMS       int `yaml:"retry_delay_ms"`       // Pause between attempts
	GIFMaxBytes        int `yaml:"gif_max_bytes"`        // Cap on a GIF download
	HTTPTimeoutSeconds int `yaml:"http_timeout_seconds"` // 0 means no deadline
	CacheFrames        int `yaml:"cache_frames"`         // Frames kept per session
}

// DefaultFetchPrefs returns the built-in fetch preferences.
func DefaultFetchPrefs() *FetchPrefs {
	return &FetchPrefs{
		RetryAttempts:      protocol.DefaultMaxAttempts,
		RetryDelayMS:       int(protocol.DefaultRetryDelay / time.Millisecond),
		GIFMaxBytes:        1 << 20,
		HTTPTimeoutSeconds: 0,
		CacheFrames:        16,
	}
}

// RetryPolicy converts the preferences into a pixel-read policy.
func (f *FetchPrefs) RetryPolicy() protocol.RetryPolicy {
	if f == nil || f.RetryAttempts <= 0 {
		return protocol.DefaultRetryPolicy()
	}
	return protocol.RetryPolicy{
		MaxAttempts: f.RetryAttempts,
		Delay:       time.Duration(f.RetryDelayMS) * time.Millisecond,
	}
}

// HTTPTimeout is the per-request deadline, zero when none is configured.
func (f *FetchPrefs) HTTPTimeout() time.Duration {
	if f == nil || f.HTTPTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(f.HTTPTimeoutSeconds) * time.Second
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:       1,
		DefaultBridge: "local",
		Bridges: map[string]*Bridge{
			"local": {Host: bridge.DefaultHost, Port: bridge.DefaultPort, Key: bridge.DefaultKey},
		},
		Fetch:   DefaultFetchPrefs(),
		Sensors: make(map[int]string),
	}
}

// GetBridge retrieves a bridge profile by name.
// An empty name selects the default profile. Returns nil if it doesn't exist.
func (r *Registry) GetBridge(name string) *Bridge {
	if name == "" {
		name = r.DefaultBridge
	}
	return r.Bridges[name]
}

// SetBridge adds or replaces a bridge profile.
func (r *Registry) SetBridge(name, host, port, key string) *Bridge {
	if r.Bridges == nil {
		r.Bridges = make(map[string]*Bridge)
	}
	b := &Bridge{Host: host, Port: port, Key: key}
	r.Bridges[name] = b
	if r.DefaultBridge == "" {
		r.DefaultBridge = name
	}
	return b
}

// UpdateBridgeLastSeen records that a profile was seen on the network.
func (r *Registry) UpdateBridgeLastSeen(name, host, port string) {
	b := r.GetBridge(name)
	if b == nil {
		b = r.SetBridge(name, host, port, bridge.DefaultKey)
	}
	b.Host = host
	b.Port = port
	b.LastSeen = time.Now()
}

// BridgeNames lists the profile names in sorted order.
func (r *Registry) BridgeNames() []string {
	names := make([]string, 0, len(r.Bridges))
	for name := range r.Bridges {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info builds the request configuration for a profile. Unset fields keep
// the bridge defaults.
func (b *Bridge) Info() *bridge.Info {
	info := bridge.NewInfo()
	if b == nil {
		return info
	}
	if b.Host != "" {
		info.SetHost(b.Host)
	}
	if b.Port != "" {
		info.SetPort(b.Port)
	}
	if b.Key != "" {
		info.SetKey(b.Key)
	}
	return info
}

// SetSensorName names a sensor number.
func (r *Registry) SetSensorName(sensor int, name string) {
	if r.Sensors == nil {
		r.Sensors = make(map[int]string)
	}
	r.Sensors[sensor] = name
}

// SensorName returns the configured name for a sensor, or "" if unknown.
func (r *Registry) SensorName(sensor int) string {
	return r.Sensors[sensor]
}
