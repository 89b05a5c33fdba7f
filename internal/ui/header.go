package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Field is one labelled value in a header or result box
type Field struct {
	Key   string
	Value string
}

// Header is the box printed at the start of a command: its title, the
// command line and the parameters it runs with.
type Header struct {
	Title   string  // e.g., "FRAME PREFETCH"
	Command string  // e.g., "xframe prefetch 1 2 3"
	Params  []Field // e.g., Bridge, Frames
	Width   int
}

// NewHeader creates a new header
func NewHeader(title, command string, params ...Field) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header
func (h *Header) Render() string {
	width := h.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)
	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(top)
	}

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}

	// Align values on the longest key
	keyWidth := 0
	for _, p := range h.Params {
		if n := lipgloss.Width(p.Key) + 1; n > keyWidth {
			keyWidth = n
		}
	}
	lines := make([]string, 0, len(h.Params))
	for _, p := range h.Params {
		key := HeaderParamKeyStyle.Render(padRight(p.Key+":", keyWidth))
		lines = append(lines, key+" "+HeaderParamValueStyle.Render(p.Value))
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		top,
		RenderHorizontalDivider(dividerWidth, "─"),
		strings.Join(lines, "\n"),
	)
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}

func padRight(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}
