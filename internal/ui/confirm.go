package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmOverwrite warns that path exists and asks for "yes" on in.
// Anything else, including EOF, declines.
func ConfirmOverwrite(in io.Reader, out io.Writer, path string) bool {
	warn := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	muted := lipgloss.NewStyle().Foreground(MutedColor)

	_, _ = fmt.Fprintln(out, warn.Render(fmt.Sprintf("  %s  %s already exists", WarningMarker, path)))
	_, _ = fmt.Fprintln(out, muted.Render("     Saved bridge profiles and sensor names will be replaced."))
	_, _ = fmt.Fprint(out, warn.Render("  Type \"yes\" to overwrite: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && input == "" {
		_, _ = fmt.Fprintln(out)
		return false
	}
	if strings.EqualFold(strings.TrimSpace(input), "yes") {
		return true
	}
	_, _ = fmt.Fprintln(out, muted.Render("  Cancelled."))
	return false
}
