// Package ui renders terminal output for the xframe commands.
//
// Every command follows the same layout:
//
//  1. Header: title, command line and parameters (bridge, frames)
//  2. Progress: one line per step as the fetch proceeds
//  3. Result: a success box with details, or a failure box with
//     troubleshooting tips derived from the bridge error
//
// Runner ties the three together around an Operation. Spin shows a
// bubbletea spinner while a single long request runs. RenderPreview draws
// a frame raster as text and RenderTable lays out frame listings.
//
// # Usage Example
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:     "Frame Prefetch",
//	    Command:   "xframe prefetch 1 2",
//	    StepNames: []string{"Frame 1", "Frame 2"},
//	})
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) ([]ui.Field, error) {
//	    onStep(1, ui.StepRunning, "")
//	    // ... fetch ...
//	    onStep(1, ui.StepComplete, "480x640")
//	    return []ui.Field{{Key: "Frames", Value: "2"}}, nil
//	})
//
// Styles use lipgloss and fall back to plain text when stdout is not a
// terminal.
package ui
