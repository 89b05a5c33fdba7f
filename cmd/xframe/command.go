package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/ui"
)

// Command flags
var (
	commandFrame int
	watchFrames  string
)

func init() {
	rootCmd.AddCommand(commandCmd)

	commandCmd.Flags().IntVar(&commandFrame, "frame", 0, "Frame the command applies to (0 = current)")
	commandCmd.Flags().StringVar(&watchFrames, "watch", "", "Frames to fetch before the command and refresh after it if it changed them (e.g. 1,2,3)")
}

var commandCmd = &cobra.Command{
	Use:   "command <engine command...>",
	Short: "Send a command line to the engine",
	Long: `Run one command on the engine and print its response.

Frames listed with --watch are fetched first; when the response reports
that the command changed their image, overlay or color table, those parts
are fetched again and the refreshed frames are listed.`,
	Example: `  # Show frame 2
  xframe command SF 2

  # Erase the graphics of frame 1 and refresh it
  xframe command ERASE G 1 --watch 1`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

type commandView struct {
	Command   string               `yaml:"command"`
	Current   int                  `yaml:"current"`
	Text      []string             `yaml:"text,omitempty"`
	Errors    []string             `yaml:"errors,omitempty"`
	Status    []bridge.FrameStatus `yaml:"status,omitempty"`
	Refreshed []int                `yaml:"refreshed,omitempty"`
}

func runCommand(cmd *cobra.Command, args []string) error {
	quiet, err := yamlOutput()
	if err != nil {
		return err
	}
	watch, err := parseFrames([]string{watchFrames})
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx := cmd.Context()
	line := strings.Join(args, " ")

	if len(watch) > 0 {
		if _, err := a.session.Prefetch(ctx, watch, frame.DirtyFlags{}); err != nil {
			return fmt.Errorf("failed to fetch watched frames: %w", err)
		}
	}

	res, err := a.transport.Run(ctx, line, commandFrame)
	if err != nil {
		if !quiet {
			a.printer.PrintError("Command failed", err, ui.Troubleshooting(err))
		}
		return err
	}

	view := commandView{
		Command: line,
		Current: res.Current,
		Text:    res.Text,
		Errors:  res.Errors,
		Status:  res.Status,
	}

	if len(watch) > 0 {
		snaps, err := a.session.Update(ctx, res.Status)
		if err != nil {
			return fmt.Errorf("failed to refresh frames: %w", err)
		}
		for _, s := range snaps {
			view.Refreshed = append(view.Refreshed, s.Number)
		}
	}

	if quiet {
		return printYAML(view)
	}

	a.printer.PrintResponse(res)
	if len(res.Status) > 0 {
		rows := make([][]string, len(res.Status))
		for i, st := range res.Status {
			rows[i] = []string{strconv.Itoa(st.Frame), mark(st.Image), mark(st.Graphics), mark(st.ColorTable)}
		}
		a.printer.PrintTable([]string{"Frame", "Image", "Graphics", "Colors"}, rows)
	}
	if len(view.Refreshed) > 0 {
		nums := make([]string, len(view.Refreshed))
		for i, n := range view.Refreshed {
			nums[i] = strconv.Itoa(n)
		}
		a.printer.PrintSuccess("Frames refreshed", ui.Field{Key: "Frames", Value: strings.Join(nums, ", ")})
	}
	if len(res.Errors) > 0 {
		return fmt.Errorf("engine reported %d error(s)", len(res.Errors))
	}
	return nil
}

// mark renders a dirty flag
func mark(dirty bool) string {
	if dirty {
		return ui.WarningMarker
	}
	return ""
}
