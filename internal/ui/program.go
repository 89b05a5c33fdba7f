package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/framebridge/internal/bridge"
)

// Printer writes styled output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a Printer. A nil writer means os.Stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{out: w, width: GetTerminalWidth()}
}

// Width returns the width boxes are rendered at
func (p *Printer) Width() int {
	return p.width
}

// SetWidth overrides the render width
func (p *Printer) SetWidth(width int) *Printer {
	p.width = clampWidth(width)
	return p
}

func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params ...Field) {
	p.Println(NewHeader(title, command, params...).SetWidth(p.width).Render())
}

// PrintSuccess prints a success result box
func (p *Printer) PrintSuccess(title string, details ...Field) {
	p.Println(NewSuccessResult(title, details...).SetWidth(p.width).Render())
}

// PrintWarning prints a warning result box
func (p *Printer) PrintWarning(title string, details ...Field) {
	p.Println(NewWarningResult(title, details...).SetWidth(p.width).Render())
}

// PrintError prints a failure box with troubleshooting tips
func (p *Printer) PrintError(title string, err error, troubleshooting []string) {
	p.Println(NewFailureResult(title, err, troubleshooting).SetWidth(p.width).Render())
}

// PrintResponse prints the records of a command response
func (p *Printer) PrintResponse(res *bridge.CommandResult) {
	p.Println(RenderResponse(res, p.width))
}

// PrintTable prints rows under headers
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	p.Println(RenderTable(headers, rows))
}

// RenderTable renders rows as a bordered table
func RenderTable(headers []string, rows [][]string) string {
	headerStyle := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(TextColor).Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(MutedColor)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.Render()
}

// RenderResponse renders a command response: the echoed command, the text
// records, and the error records in red.
func RenderResponse(res *bridge.CommandResult, width int) string {
	lines := []string{ResponseTitleStyle.Render("Bridge Response")}
	for _, echo := range res.Echo {
		lines = append(lines, ResponseTitleStyle.Render("> "+echo))
	}
	for _, text := range res.Text {
		lines = append(lines, ResponseTextStyle.Render(text))
	}
	for _, msg := range res.Errors {
		lines = append(lines, ResponseErrorStyle.Render(FailureMarker+" "+msg))
	}
	if res.Current >= 0 {
		lines = append(lines, ResponseTitleStyle.Render(fmt.Sprintf("current frame %d", res.Current)))
	}
	return MutedBoxStyle(clampWidth(width) - 4).Render(strings.Join(lines, "\n"))
}
