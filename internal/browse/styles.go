package browse

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/framebridge/internal/ui"
	"github.com/muurk/framebridge/internal/version"
)

// AppName is shown in the container header
const AppName = "XFRAME BROWSER"

// Default terminal size before the first tea.WindowSizeMsg
const (
	defaultWidth  = 80
	defaultHeight = 24
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor).
			Bold(true).
			MarginBottom(1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(ui.MutedColor).
			Italic(true)

	MenuItemStyle = lipgloss.NewStyle().
			PaddingLeft(2).
			Foreground(ui.TextColor)

	SelectedMenuItemStyle = lipgloss.NewStyle().
				Foreground(ui.SuccessColor).
				Bold(true)

	// CurrentFrameStyle marks the frame the engine is showing
	CurrentFrameStyle = lipgloss.NewStyle().
				Foreground(ui.WarningColor)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ui.ErrorColor).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(ui.PrimaryColor)

	PreviewStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ui.MutedColor)
)

// RenderMenuItem renders a list entry with a selection arrow
func RenderMenuItem(text string, selected bool) string {
	if selected {
		return SelectedMenuItemStyle.Render("→ " + text)
	}
	return MenuItemStyle.Render(text)
}

// RenderError renders an error line
func RenderError(text string) string {
	return ErrorStyle.Render("✗ " + text)
}

func buildHeaderContent() string {
	left := lipgloss.NewStyle().
		Foreground(ui.TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)
	return left
}

// RenderApplicationContainer wraps a screen in the bordered full-terminal
// panel: header on top, content, help footer pinned to the bottom. Every
// screen's View goes through it.
func RenderApplicationContainer(content, footerText string, width, height int) string {
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}
	inner := width - 4
	if inner < 1 {
		inner = 1
	}

	header := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Bottom: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(inner).
		Padding(0, 1).
		Render(buildHeaderContent())

	footer := lipgloss.NewStyle().
		BorderStyle(lipgloss.Border{Top: "─"}).
		BorderForeground(ui.PrimaryColor).
		Width(inner).
		Padding(0, 1).
		Foreground(ui.MutedColor).
		Render(footerText)

	body := lipgloss.NewStyle().Width(inner).Render(content)

	bordered := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(ui.PrimaryColor).
		Width(width - 2).
		Height(height - 2).
		AlignVertical(lipgloss.Top).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, body, footer))

	return lipgloss.Place(width, height, lipgloss.Left, lipgloss.Top, bordered)
}
