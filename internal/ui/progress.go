package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step is a single step of a multi-step fetch
type Step struct {
	Number  int // 1-based
	Name    string
	Status  StepStatus
	Message string // e.g., "480x640", "3 records skipped"
}

// Progress tracks a list of steps and renders them with a progress bar
type Progress struct {
	Label     string
	Steps     []Step
	Current   int // running step, 1-based
	Total     int
	Percent   float64 // 0.0 - 1.0
	Width     int
	ShowBar   bool
	ShowSteps bool
	bar       progress.Model
}

// NewProgress creates a progress display with totalSteps pending steps
func NewProgress(label string, totalSteps int) *Progress {
	steps := make([]Step, totalSteps)
	for i := range steps {
		steps[i] = Step{Number: i + 1}
	}

	p := &Progress{
		Label:     label,
		Steps:     steps,
		Total:     totalSteps,
		ShowBar:   true,
		ShowSteps: true,
	}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sets the terminal width and resizes the bar to fit
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	barWidth := width - 20
	if barWidth < 20 {
		barWidth = 20
	}
	if barWidth > 50 {
		barWidth = 50
	}
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// SetStepNames names the steps in order
func (p *Progress) SetStepNames(names []string) *Progress {
	for i, name := range names {
		if i < len(p.Steps) {
			p.Steps[i].Name = name
		}
	}
	return p
}

// UpdateStep sets the status and message of a step. Out of range step
// numbers are ignored.
func (p *Progress) UpdateStep(stepNumber int, status StepStatus, message string) {
	if stepNumber < 1 || stepNumber > len(p.Steps) {
		return
	}
	p.Steps[stepNumber-1].Status = status
	p.Steps[stepNumber-1].Message = message

	switch status {
	case StepRunning:
		p.Current = stepNumber
	case StepComplete, StepFailed, StepSkipped:
		done := 0
		for _, s := range p.Steps {
			if s.Status == StepComplete || s.Status == StepSkipped {
				done++
			}
		}
		p.Percent = float64(done) / float64(p.Total)
	}
}

// StartStep marks a step as running
func (p *Progress) StartStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepRunning, message)
}

// CompleteStep marks a step as complete
func (p *Progress) CompleteStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepComplete, message)
}

// FailStep marks a step as failed
func (p *Progress) FailStep(stepNumber int, message string) {
	p.UpdateStep(stepNumber, StepFailed, message)
}

// Render returns the label, bar and step list
func (p *Progress) Render() string {
	var b strings.Builder

	if p.Label != "" {
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(p.Label))
		b.WriteString("\n\n")
	}

	if p.ShowBar {
		line := fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, p.Total)
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(line))
		b.WriteString("\n\n")
	}

	if p.ShowSteps {
		lines := make([]string, len(p.Steps))
		for i, s := range p.Steps {
			lines[i] = p.StepLine(s)
		}
		b.WriteString(strings.Join(lines, "\n"))
	}

	return b.String()
}

// StepLine renders one step: "[2/5] Read image data   ✓  (480x640)"
func (p *Progress) StepLine(step Step) string {
	var marker string
	var style lipgloss.Style

	switch step.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, p.Total)
	b.WriteString(style.Render(step.Name))

	// Markers line up in one column
	pad := 40 - lipgloss.Width(step.Name)
	if pad < 1 {
		pad = 1
	}
	b.WriteString(strings.Repeat(" ", pad))
	b.WriteString(style.Render(marker))

	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback reports progress of one step
type StepCallback func(stepNumber int, status StepStatus, message string)
