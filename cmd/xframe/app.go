package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/config"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/ui"
)

// app is what every bridge command works with: the loaded config, the
// resolved bridge, and a frame session over it.
type app struct {
	registry  *config.Registry
	info      *bridge.Info
	transport *bridge.HTTPTransport
	session   *frame.Session
	printer   *ui.Printer
}

// loadRegistry reads --config, or the default config file
func loadRegistry() (*config.Registry, error) {
	if configFile != "" {
		return config.LoadRegistryFile(configFile)
	}
	return config.LoadRegistry()
}

// newApp resolves the bridge from the profile and flag overrides and
// opens a session on it
func newApp() (*app, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	profile := reg.GetBridge(bridgeName)
	if profile == nil && bridgeName != "" {
		return nil, fmt.Errorf("unknown bridge profile %q (have: %s)", bridgeName, strings.Join(reg.BridgeNames(), ", "))
	}
	info := profile.Info()
	if hostFlag != "" {
		info.SetHost(hostFlag)
	}
	if portFlag != "" {
		info.SetPort(portFlag)
	}
	if keyFlag != "" {
		info.SetKey(keyFlag)
	}

	return openApp(reg, info)
}

// openApp opens a frame session on info with the registry's fetch
// preferences
func openApp(reg *config.Registry, info *bridge.Info) (*app, error) {
	namer, err := reg.SensorNamer()
	if err != nil {
		logging.Warn("Sensor file unavailable, using configured names only",
			zap.String("file", reg.SensorFile), zap.Error(err))
	}

	prefs := reg.Fetch
	if prefs == nil {
		prefs = config.DefaultFetchPrefs()
	}

	transport := bridge.NewHTTPTransport(info)
	transport.SetTimeout(prefs.HTTPTimeout())

	session, err := frame.NewSession(info, transport, prefs.CacheFrames,
		frame.WithRetryPolicy(prefs.RetryPolicy()),
		frame.WithSensorNamer(namer),
		frame.WithMaxGIFBytes(prefs.GIFMaxBytes),
	)
	if err != nil {
		return nil, err
	}

	logging.Debug("Bridge resolved", zap.String("bridge", info.String()), zap.String("profile", bridgeName))

	return &app{
		registry:  reg,
		info:      info,
		transport: transport,
		session:   session,
		printer:   ui.NewPrinter(os.Stdout),
	}, nil
}

// bridgeField labels the bridge in command headers
func (a *app) bridgeField() ui.Field {
	return ui.Field{Key: "Bridge", Value: a.info.Host() + ":" + a.info.Port()}
}

// yamlOutput reports whether --format asks for YAML
func yamlOutput() (bool, error) {
	switch outputFormat {
	case "", "text":
		return false, nil
	case "yaml":
		return true, nil
	default:
		return false, fmt.Errorf("unknown output format %q (text, yaml)", outputFormat)
	}
}

// printYAML writes v to stdout as YAML
func printYAML(v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = os.Stdout.Write(data)
	return err
}

// frameArg parses the optional frame number argument. No argument means
// frame 0, the frame the engine is currently showing.
func frameArg(args []string) (int, error) {
	if len(args) == 0 {
		return 0, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid frame number %q", args[0])
	}
	return n, nil
}

// parseFrames parses frame numbers given as arguments or comma lists
// ("1,2 5")
func parseFrames(args []string) ([]int, error) {
	var out []int
	for _, arg := range args {
		for _, part := range strings.Split(arg, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			n, err := strconv.Atoi(part)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("invalid frame number %q", part)
			}
			out = append(out, n)
		}
	}
	return out, nil
}

// frameLabel names a frame in output; frame 0 is the current frame
func frameLabel(n int) string {
	if n == 0 {
		return "current"
	}
	return strconv.Itoa(n)
}
