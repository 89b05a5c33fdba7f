package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/discovery"
	"github.com/muurk/framebridge/internal/ui"
)

// Scan flags
var (
	scanTimeout int
	scanSave    bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 10, "Scan timeout in seconds")
	scanCmd.Flags().BoolVar(&scanSave, "save", false, "Save every bridge found as a profile named after its instance")
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for engine bridges on the network",
	Long: `Scan for engine bridges using mDNS/DNS-SD discovery.

Bridges advertise the ` + discovery.ServiceType + ` service with a TXT record
carrying the protocol version; bridges speaking another version are
ignored.`,
	Example: `  # Scan for 10 seconds (default)
  xframe scan

  # Quick scan, saving what is found as profiles
  xframe scan --timeout 3 --save`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	quiet, err := yamlOutput()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	timeout := time.Duration(scanTimeout) * time.Second
	var endpoints []*discovery.Endpoint
	label := fmt.Sprintf("Scanning for bridges (timeout: %ds)", scanTimeout)
	err = ui.Spin(cmd.Context(), os.Stdout, label, func(ctx context.Context) error {
		var err error
		endpoints, err = discovery.Scan(ctx, timeout)
		return err
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if scanSave && len(endpoints) > 0 {
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		for _, e := range endpoints {
			reg.UpdateBridgeLastSeen(e.Instance, e.IP, strconv.Itoa(e.Port))
		}
		if err := saveRegistry(reg); err != nil {
			return err
		}
	}

	if quiet {
		return printYAML(endpoints)
	}

	printer := ui.NewPrinter(os.Stdout)
	if len(endpoints) == 0 {
		printer.PrintWarning("No bridges found",
			ui.Field{Key: "Service", Value: discovery.ServiceType},
			ui.Field{Key: "Hint", Value: "check the bridge is running and on this network"},
			ui.Field{Key: "Hint", Value: "try a longer --timeout, or --host to connect directly"},
		)
		return nil
	}

	rows := make([][]string, len(endpoints))
	for i, e := range endpoints {
		rows[i] = []string{e.Instance, e.Hostname, e.IP + ":" + strconv.Itoa(e.Port), e.GetMetadata("frames")}
	}
	printer.PrintTable([]string{"Instance", "Host", "Address", "Frames"}, rows)
	if scanSave {
		fmt.Println("Saved as profiles; use --bridge <instance> to select one.")
	}
	return nil
}
