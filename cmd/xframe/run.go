package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muurk/framebridge/internal/ui"
)

// step pairs a step name with its work. The work returns the note shown
// after the step marker.
type step struct {
	name string
	run  func(ctx context.Context) (string, error)
}

// runSteps runs steps in order. In text mode progress and the result box
// are printed around them; in YAML mode they run silently and the caller
// prints the collected data. details is called for the success box.
func (a *app) runSteps(cmd *cobra.Command, args []string, title string, steps []step, details func() []ui.Field) error {
	quiet, err := yamlOutput()
	if err != nil {
		return err
	}
	cmd.SilenceUsage = true

	op := func(ctx context.Context, onStep ui.StepCallback) ([]ui.Field, error) {
		for i, s := range steps {
			onStep(i+1, ui.StepRunning, "")
			note, err := s.run(ctx)
			if err != nil {
				onStep(i+1, ui.StepFailed, "")
				return nil, err
			}
			onStep(i+1, ui.StepComplete, note)
		}
		if details == nil {
			return nil, nil
		}
		return details(), nil
	}

	if quiet {
		_, err := op(cmd.Context(), func(int, ui.StepStatus, string) {})
		return err
	}

	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.name
	}
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     title,
		Command:   strings.TrimSpace(cmd.CommandPath() + " " + strings.Join(args, " ")),
		Params:    []ui.Field{a.bridgeField()},
		StepNames: names,
	})
	return runner.Run(cmd.Context(), op)
}
