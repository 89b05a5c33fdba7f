// Xframe reads frames from a running X engine through its HTTP bridge.
//
// It fetches frame directories, lookup tables, image and overlay rasters
// and GIF snapshots, sends engine commands, browses frames full-screen,
// and finds bridges on the local network over mDNS. Bridge profiles, fetch tuning and sensor names live in
// the YAML config file (see 'xframe config show').
//
// Usage:
//
//	xframe [command] [flags]
//
// See 'xframe --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/logging"
	"github.com/muurk/framebridge/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// Global flags
var (
	configFile   string
	bridgeName   string
	hostFlag     string
	portFlag     string
	keyFlag      string
	logLevel     string
	logFile      string
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "xframe",
	Short: "X engine frame bridge client",
	Long: `A client for the HTTP bridge of the X engine.

Reads frame directories, stretch/color/graphics tables, image pixels,
graphics overlays and GIF snapshots, and sends engine commands.

The bridge is taken from the default profile in the config file unless
--bridge names another profile or --host/--port/--key override it.`,
	Version:       version.Version,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.InitializeWithOptions(logging.Options{Level: logLevel, File: logFile})
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/framebridge/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&bridgeName, "bridge", "b", "", "Bridge profile name (default profile if empty)")
	rootCmd.PersistentFlags().StringVar(&hostFlag, "host", "", "Bridge host (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&portFlag, "port", "", "Bridge port (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&keyFlag, "key", "", "Session key (overrides the profile)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); silent if unset")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stdout")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "o", "text", "Output format (text, yaml)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("xframe %s\n", version.Full())
	},
}
