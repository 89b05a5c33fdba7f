package ui

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// spinDoneMsg is sent when the wrapped operation returns
type spinDoneMsg struct{}

// spinModel shows a spinner next to a label until the operation is done
type spinModel struct {
	spinner spinner.Model
	label   string
	done    bool
}

func newSpinModel(label string) spinModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(PrimaryColor)
	return spinModel{spinner: s, label: label}
}

// Init implements tea.Model
func (m spinModel) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update implements tea.Model
func (m spinModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinDoneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model
func (m spinModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + m.label + "\n"
}

// Spin runs fn while showing a spinner on out. When stdout is not a
// terminal fn runs without one.
func Spin(ctx context.Context, out io.Writer, label string, fn func(ctx context.Context) error) error {
	if !IsTerminal() {
		return fn(ctx)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newSpinModel(label),
		tea.WithOutput(out),
		tea.WithInput(nil),
		tea.WithContext(ctx),
	)

	result := make(chan error, 1)
	go func() {
		err := fn(ctx)
		result <- err
		p.Send(spinDoneMsg{})
	}()

	if _, err := p.Run(); err != nil {
		// Interrupted: stop the operation and wait for it
		cancel()
	}
	return <-result
}
