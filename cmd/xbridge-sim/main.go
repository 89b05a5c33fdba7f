// Xbridge-sim runs a simulated X engine bridge.
//
// It serves synthetic frames over the same HTTP requests the engine's bridge
// answers (frame queries, table and pixel data, directories, overlays,
// snapshots and commands), so xframe and the client packages can be used
// without a running engine. Prometheus metrics are served on /metrics.
//
// Usage:
//
//	xbridge-sim serve [flags]
//
// See 'xbridge-sim serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/simulator"
	"github.com/muurk/framebridge/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "xbridge-sim",
	Short: "Simulated X engine bridge",
	Long: `A stand-in for the X engine's HTTP bridge.

Serves a configurable number of synthetic frames: a gradient image, grey
color tables, GOES navigation and a border overlay. Commands SF, ERASE G
and EU REST change the simulated state and report the frames they dirtied.`,
	Version: version.Version,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// Serve flags
var (
	host       string
	port       int
	key        string
	frames     int
	height     int
	width      int
	chunkSize  int
	chunkDelay time.Duration
	advertise  bool
	instance   string
	logLevel   string
	logFile    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the simulated bridge",
	Long: `Start the simulated bridge and serve until interrupted.

--chunk-size and --chunk-delay trickle the pixel block out slowly, the way
a busy engine does, to exercise the client's retry policy. --advertise
publishes the bridge over mDNS so 'xframe scan' can find it.`,
	Example: `  # Four 480x640 frames on port 8080
  xbridge-sim serve

  # Small frames, slow pixels, discoverable
  xbridge-sim serve --frames 2 --height 64 --width 64 \
      --chunk-size 512 --chunk-delay 20ms --advertise

  # Debug logging of every request
  xbridge-sim serve --log-level debug`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	defaults := simulator.DefaultConfig()

	serveCmd.Flags().StringVar(&host, "host", defaults.Host, "Listen address")
	serveCmd.Flags().IntVar(&port, "port", defaults.Port, "Listen port")
	serveCmd.Flags().StringVar(&key, "key", bridge.DefaultKey, "Session key clients must send")
	serveCmd.Flags().IntVar(&frames, "frames", defaults.Frames, "Number of frames")
	serveCmd.Flags().IntVar(&height, "height", defaults.Height, "Frame lines")
	serveCmd.Flags().IntVar(&width, "width", defaults.Width, "Frame elements")
	serveCmd.Flags().IntVar(&chunkSize, "chunk-size", 0, "Send pixels in chunks of this many bytes (0 = all at once)")
	serveCmd.Flags().DurationVar(&chunkDelay, "chunk-delay", 0, "Pause between pixel chunks")
	serveCmd.Flags().BoolVar(&advertise, "advertise", false, "Advertise the bridge over mDNS")
	serveCmd.Flags().StringVar(&instance, "instance", defaults.Instance, "mDNS instance name")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	serveCmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stdout")
}

func runServe(cmd *cobra.Command, args []string) error {
	if frames < 1 {
		return fmt.Errorf("--frames must be at least 1")
	}
	if chunkSize < 0 || chunkDelay < 0 {
		return fmt.Errorf("--chunk-size and --chunk-delay must not be negative")
	}
	if err := logging.InitializeWithOptions(logging.Options{Level: logLevel, File: logFile}); err != nil {
		return err
	}

	config := &simulator.Config{
		Host:       host,
		Port:       port,
		Key:        key,
		Frames:     frames,
		Height:     height,
		Width:      width,
		ChunkSize:  chunkSize,
		ChunkDelay: chunkDelay,
		Advertise:  advertise,
		Instance:   instance,
	}

	srv, err := simulator.New(config)
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}
	cmd.SilenceUsage = true
	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xbridge-sim %s\n", version.Full())
	},
}
