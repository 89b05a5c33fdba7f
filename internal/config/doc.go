// Package config provides user configuration management for the Frame Bridge.
//
// This package manages a YAML-based configuration file that stores named
// bridge profiles (engine host, port and session key), fetch tuning and a
// sensor name table. It also reads the engine's SATANNOT sensor annotation
// file. The configuration follows OS-specific conventions for storage
// location.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/framebridge/config.yaml or $HOME/.config/framebridge/config.yaml
//   - macOS: $HOME/.config/framebridge/config.yaml
//   - Windows: %LOCALAPPDATA%\framebridge\config.yaml
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	registry.SetBridge("lab", "mcidas.example.org", "8080", key)
//	registry.SetSensorName(70, "GOES-16")
//
//	// Save changes atomically
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
//	info := registry.GetBridge("lab").Info()
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File operations are protected by a mutex to ensure atomic writes.
package config
