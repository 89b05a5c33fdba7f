package ui

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/muurk/framebridge/internal/bridge"
)

// RunnerConfig describes a multi-step command run
type RunnerConfig struct {
	Title     string  // e.g., "Frame Prefetch"
	Command   string  // e.g., "xframe prefetch 1 2"
	Params    []Field // shown in the header
	StepNames []string
	Output    io.Writer // default os.Stdout
}

// Runner prints a header, one line per finished step, then a result box.
type Runner struct {
	config   RunnerConfig
	printer  *Printer
	progress *Progress
}

// Operation is the work a Runner wraps. It reports progress through onStep
// and returns the details shown in the success box.
type Operation func(ctx context.Context, onStep StepCallback) ([]Field, error)

// NewRunner creates a runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	printer := NewPrinter(config.Output)

	var prog *Progress
	if len(config.StepNames) > 0 {
		prog = NewProgress("", len(config.StepNames))
		prog.SetWidth(printer.Width())
		prog.SetStepNames(config.StepNames)
	}

	return &Runner{config: config, printer: printer, progress: prog}
}

// Progress returns the step tracker, or nil when the run has no steps
func (r *Runner) Progress() *Progress {
	return r.progress
}

// Run executes op and prints its outcome. The error from op is returned.
func (r *Runner) Run(ctx context.Context, op Operation) error {
	start := time.Now()
	r.printer.PrintHeader(r.config.Title, r.config.Command, r.config.Params...)
	r.printer.Newline()

	details, err := op(ctx, r.onStep)
	elapsed := time.Since(start).Round(time.Millisecond).String()

	r.printer.Newline()
	if err != nil {
		r.printer.PrintError(r.config.Title+" failed", err, Troubleshooting(err))
		return err
	}
	details = append(details, Field{Key: "Duration", Value: elapsed})
	r.printer.PrintSuccess(r.config.Title+" complete", details...)
	return nil
}

func (r *Runner) onStep(stepNumber int, status StepStatus, message string) {
	if r.progress == nil || stepNumber < 1 || stepNumber > len(r.progress.Steps) {
		return
	}
	r.progress.UpdateStep(stepNumber, status, message)
	line := r.progress.StepLine(r.progress.Steps[stepNumber-1])

	switch status {
	case StepRunning:
		// Overwritten when the step finishes
		r.printer.Print(line + "\r")
	case StepComplete, StepFailed, StepSkipped:
		r.printer.Println(line)
	}
}

// Troubleshooting returns tips for a failed bridge operation
func Troubleshooting(err error) []string {
	var tips []string
	for _, line := range strings.Split(bridge.Hint(err), "\n") {
		line = strings.TrimPrefix(strings.TrimSpace(line), "• ")
		if line == "" || line == "Troubleshooting:" {
			continue
		}
		tips = append(tips, line)
	}
	switch {
	case bridge.IsTransportError(err):
		tips = append(tips,
			"Check the bridge host and port (xframe config show)",
			"Try: xframe scan",
		)
	case bridge.IsRetryExhausted(err):
		tips = append(tips, "Raise fetch.retry_attempts in the config file")
	}
	return append(tips, "Run with --log-level debug for request details")
}
