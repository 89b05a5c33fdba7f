package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/browse"
	"github.com/muurk/framebridge/internal/discovery"
	"github.com/muurk/framebridge/internal/ui"
)

// Browse flags
var (
	browseDiscover bool
	browseTimeout  int
)

func init() {
	rootCmd.AddCommand(browseCmd)

	browseCmd.Flags().BoolVar(&browseDiscover, "discover", false, "Pick the bridge from an mDNS scan instead of the profile")
	browseCmd.Flags().IntVar(&browseTimeout, "timeout", 5, "Scan timeout in seconds with --discover")
}

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse frames interactively",
	Long: `Open a full-screen browser over the bridge's frames.

The frame list and a text preview of the selected frame are kept in one
session, so frames already fetched are shown from the cache. Press enter
to have the engine show the selected frame, r to refetch it.`,
	Example: `  # Browse the default profile's bridge
  xframe browse

  # Pick a bridge found on the network
  xframe browse --discover`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	if !ui.IsTerminal() {
		return errors.New("browse needs an interactive terminal")
	}
	if logLevel != "" && logFile == "" {
		return errors.New("browse draws over the whole terminal; add --log-file to keep logs")
	}
	cmd.SilenceUsage = true

	if !browseDiscover {
		a, err := newApp()
		if err != nil {
			return err
		}
		return browse.Run(cmd.Context(), browse.Options{
			Bridge: &browse.Bridge{Session: a.session, Transport: a.transport},
		})
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	key := keyFlag
	if key == "" {
		if profile := reg.GetBridge(bridgeName); profile != nil {
			key = profile.Key
		}
	}
	timeout := time.Duration(browseTimeout) * time.Second

	return browse.Run(cmd.Context(), browse.Options{
		Scan: func(ctx context.Context) ([]*discovery.Endpoint, error) {
			return discovery.Scan(ctx, timeout)
		},
		Connect: func(ep *discovery.Endpoint) (*browse.Bridge, error) {
			a, err := openApp(reg, ep.Info(key))
			if err != nil {
				return nil, err
			}
			return &browse.Bridge{Session: a.session, Transport: a.transport}, nil
		},
	})
}
