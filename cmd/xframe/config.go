package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/config"
	"github.com/muurk/framebridge/internal/ui"
)

// Config command flags
var (
	forceInit     bool
	makeDefault   bool
	sensorFileArg string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configBridgeCmd)
	configCmd.AddCommand(configSensorCmd)

	configInitCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing config file without asking")
	configBridgeCmd.Flags().BoolVar(&makeDefault, "default", false, "Make this the default profile")
	configSensorCmd.Flags().StringVar(&sensorFileArg, "file", "", "Use a SATANNOT file for sensor names")
}

// configPath returns --config or the default config path
func configPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return config.GetConfigPath()
}

// saveRegistry writes reg to --config or the default path
func saveRegistry(reg *config.Registry) error {
	if configFile != "" {
		return reg.SaveFile(configFile)
	}
	return reg.Save()
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage bridge profiles and sensor names",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path, err := configPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !forceInit {
			if !ui.ConfirmOverwrite(os.Stdin, os.Stdout, path) {
				return nil
			}
		}

		reg := config.NewRegistry()
		if err := reg.SaveFile(path); err != nil {
			return err
		}
		ui.NewPrinter(os.Stdout).PrintSuccess("Config written",
			ui.Field{Key: "File", Value: path},
			ui.Field{Key: "Default bridge", Value: reg.DefaultBridge},
		)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		reg, err := loadRegistry()
		if err != nil {
			return err
		}
		if quiet, err := yamlOutput(); err != nil {
			return err
		} else if quiet {
			data, err := reg.Marshal()
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(data)
			return err
		}

		path, _ := configPath()
		printer := ui.NewPrinter(os.Stdout)
		printer.PrintHeader("Configuration", path,
			ui.Field{Key: "Default bridge", Value: reg.DefaultBridge},
			ui.Field{Key: "Sensor file", Value: orDash(reg.SensorFile)},
		)

		rows := make([][]string, 0, len(reg.Bridges))
		for _, name := range reg.BridgeNames() {
			b := reg.Bridges[name]
			seen := "-"
			if !b.LastSeen.IsZero() {
				seen = b.LastSeen.Format("2006-01-02 15:04")
			}
			rows = append(rows, []string{name, b.Host + ":" + b.Port, seen})
		}
		printer.PrintTable([]string{"Profile", "Address", "Last seen"}, rows)

		prefs := reg.Fetch
		if prefs == nil {
			prefs = config.DefaultFetchPrefs()
		}
		timeout := "none"
		if d := prefs.HTTPTimeout(); d > 0 {
			timeout = d.String()
		}
		printer.PrintTable([]string{"Fetch", "Value"}, [][]string{
			{"Retry attempts", strconv.Itoa(prefs.RetryAttempts)},
			{"Retry delay", strconv.Itoa(prefs.RetryDelayMS) + "ms"},
			{"GIF limit", strconv.Itoa(prefs.GIFMaxBytes) + " bytes"},
			{"HTTP timeout", timeout},
			{"Cached frames", strconv.Itoa(prefs.CacheFrames)},
		})
		return nil
	},
}

var configBridgeCmd = &cobra.Command{
	Use:   "bridge <name> <host> <port> [key]",
	Short: "Add or replace a bridge profile",
	Args:  cobra.RangeArgs(3, 4),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if _, err := strconv.Atoi(args[2]); err != nil {
			return fmt.Errorf("invalid port %q", args[2])
		}
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		key := ""
		if len(args) == 4 {
			key = args[3]
		}
		reg.SetBridge(args[0], args[1], args[2], key)
		if makeDefault {
			reg.DefaultBridge = args[0]
		}
		if err := saveRegistry(reg); err != nil {
			return err
		}
		fmt.Printf("Saved bridge profile %q (%s:%s)\n", args[0], args[1], args[2])
		return nil
	},
}

var configSensorCmd = &cobra.Command{
	Use:   "sensor [number name]",
	Short: "Name a sensor number, or set the SATANNOT file",
	Example: `  xframe config sensor 70 GOES-16
  xframe config sensor --file /home/mcidas/data/SATANNOT`,
	Args: func(cmd *cobra.Command, args []string) error {
		if sensorFileArg != "" {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(2)(cmd, args)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		reg, err := loadRegistry()
		if err != nil {
			return err
		}

		if sensorFileArg != "" {
			table, err := config.LoadSatannot(sensorFileArg)
			if err != nil {
				return err
			}
			reg.SensorFile = sensorFileArg
			if err := saveRegistry(reg); err != nil {
				return err
			}
			fmt.Printf("Using %s (%d sensors)\n", sensorFileArg, len(table))
			return nil
		}

		sensor, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid sensor number %q", args[0])
		}
		reg.SetSensorName(sensor, args[1])
		if err := saveRegistry(reg); err != nil {
			return err
		}
		fmt.Printf("Sensor %d is now %q\n", sensor, args[1])
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
