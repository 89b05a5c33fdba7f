package browse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/framebridge/internal/bridge"
	"github.com/muurk/framebridge/internal/frame"
	"github.com/muurk/framebridge/internal/protocol"
	"github.com/muurk/framebridge/internal/ui"
)

// Bridge is a connected engine: the frame session and the transport
// commands are sent through
type Bridge struct {
	Session   *frame.Session
	Transport *bridge.HTTPTransport
}

type snapshotMsg struct {
	number int
	snap   *frame.Snapshot
	err    error
}

type commandMsg struct {
	line      string
	res       *bridge.CommandResult
	refreshed []*frame.Snapshot
	err       error
}

// framesKeyMap defines key bindings for the frame browser
type framesKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Show    key.Binding
	Refresh key.Binding
	Back    key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k framesKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Show, k.Refresh, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k framesKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Show, k.Refresh},
		{k.Back, k.Quit},
	}
}

// FramesModel browses the frames of one bridge. Moving the cursor loads
// the frame through the session cache; show makes the engine display it
// and applies the returned frame status.
type FramesModel struct {
	ctx    context.Context
	bridge *Bridge

	Numbers  []int
	Cursor   int
	Current  int // frame the engine shows
	Snapshot *frame.Snapshot
	Loading  bool
	Status   string
	Err      error

	// BackRequested is set when the user leaves for discovery
	BackRequested bool
	canGoBack     bool

	Width  int
	Height int
	Help   help.Model
	Keys   framesKeyMap
}

// NewFramesModel creates the browser over numbers, with the cursor on
// the engine's current frame when it is listed
func NewFramesModel(ctx context.Context, b *Bridge, numbers []int, current int, canGoBack bool) FramesModel {
	m := FramesModel{
		ctx:       ctx,
		bridge:    b,
		Numbers:   numbers,
		Current:   current,
		canGoBack: canGoBack,
		Help:      help.New(),
		Keys: framesKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "previous"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "next"),
			),
			Show: key.NewBinding(
				key.WithKeys("enter", "s"),
				key.WithHelp("enter", "show on engine"),
			),
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "refetch"),
			),
			Back: key.NewBinding(
				key.WithKeys("esc"),
				key.WithHelp("esc", "bridges"),
				key.WithDisabled(),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
	m.Keys.Back.SetEnabled(canGoBack)
	for i, n := range numbers {
		if n == current {
			m.Cursor = i
		}
	}
	return m
}

// Selected returns the frame number under the cursor, or 0 with no frames
func (m FramesModel) Selected() int {
	if len(m.Numbers) == 0 {
		return 0
	}
	return m.Numbers[m.Cursor]
}

// Init loads the selected frame
func (m FramesModel) Init() tea.Cmd {
	if len(m.Numbers) == 0 {
		return nil
	}
	return m.loadCmd(m.Selected(), frame.DirtyFlags{})
}

func (m FramesModel) loadCmd(number int, flags frame.DirtyFlags) tea.Cmd {
	ctx, session := m.ctx, m.bridge.Session
	return func() tea.Msg {
		snap, err := session.Frame(number).Refresh(ctx, flags)
		return snapshotMsg{number: number, snap: snap, err: err}
	}
}

func (m FramesModel) showCmd(number int) tea.Cmd {
	ctx, b := m.ctx, m.bridge
	line := fmt.Sprintf("SF %d", number)
	return func() tea.Msg {
		res, err := b.Transport.Run(ctx, line, 0)
		if err != nil {
			return commandMsg{line: line, err: err}
		}
		refreshed, err := b.Session.Update(ctx, res.Status)
		return commandMsg{line: line, res: res, refreshed: refreshed, err: err}
	}
}

// Update handles messages for the frame browser
func (m FramesModel) Update(msg tea.Msg) (FramesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case snapshotMsg:
		// A late answer for a frame the cursor already left is dropped
		if msg.number != m.Selected() {
			return m, nil
		}
		m.Loading = false
		m.Err = msg.err
		if msg.err == nil {
			m.Snapshot = msg.snap
			m.Status = fmt.Sprintf("Loaded frame %d at %s", msg.number, time.Now().Format("15:04:05"))
		}
		return m, nil

	case commandMsg:
		m.Loading = false
		m.Err = msg.err
		if msg.res != nil {
			if msg.res.Current >= 0 {
				m.Current = msg.res.Current
			}
			if len(msg.res.Errors) > 0 {
				m.Err = fmt.Errorf("%s: %s", msg.line, strings.Join(msg.res.Errors, "; "))
			}
		}
		for _, snap := range msg.refreshed {
			if snap.Number == m.Selected() {
				m.Snapshot = snap
			}
		}
		if m.Err == nil {
			m.Status = fmt.Sprintf("%s: %d frames refreshed", msg.line, len(msg.refreshed))
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.Keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
				return m.load(frame.DirtyFlags{})
			}
		case key.Matches(msg, m.Keys.Down):
			if m.Cursor < len(m.Numbers)-1 {
				m.Cursor++
				return m.load(frame.DirtyFlags{})
			}
		case key.Matches(msg, m.Keys.Refresh):
			if len(m.Numbers) > 0 {
				return m.load(frame.DirtyFlags{Image: true, Graphics: true, ColorTable: true})
			}
		case key.Matches(msg, m.Keys.Show):
			if len(m.Numbers) > 0 {
				m.Loading = true
				m.Err = nil
				return m, m.showCmd(m.Selected())
			}
		case key.Matches(msg, m.Keys.Back):
			m.BackRequested = true
		}
	}
	return m, nil
}

func (m FramesModel) load(flags frame.DirtyFlags) (FramesModel, tea.Cmd) {
	m.Loading = true
	m.Err = nil
	return m, m.loadCmd(m.Selected(), flags)
}

// View renders the frame list beside the selected frame's preview
func (m FramesModel) View() string {
	width := m.Width
	if width <= 0 {
		width = defaultWidth
	}

	var list strings.Builder
	list.WriteString(TitleStyle.Render("Frames"))
	list.WriteString("\n")
	if len(m.Numbers) == 0 {
		list.WriteString(SubtitleStyle.Render("none loaded"))
	}
	for i, n := range m.Numbers {
		label := fmt.Sprintf("Frame %d", n)
		if n == m.Current {
			label += CurrentFrameStyle.Render(" ●")
		}
		list.WriteString(RenderMenuItem(label, i == m.Cursor))
		list.WriteString("\n")
	}

	listWidth := 16
	detail := m.renderDetail(width - listWidth - 8)
	content := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(listWidth).Render(list.String()),
		detail,
	)

	var footer strings.Builder
	switch {
	case m.Err != nil:
		footer.WriteString(RenderError(m.Err.Error()))
	case m.Loading:
		footer.WriteString(SubtitleStyle.Render(fmt.Sprintf("Loading frame %d...", m.Selected())))
	case m.Status != "":
		footer.WriteString(SubtitleStyle.Render(m.Status))
	}

	return RenderApplicationContainer(content+"\n"+footer.String(), m.Help.View(m.Keys), m.Width, m.Height)
}

func (m FramesModel) renderDetail(cols int) string {
	snap := m.Snapshot
	if snap == nil || snap.Number != m.Selected() {
		return ""
	}
	if cols < 8 {
		cols = 8
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Frame %d  %dx%d", snap.Number, snap.Image.Height, snap.Image.Width)))
	b.WriteString("\n")
	if d := snap.Directory; d != nil {
		name := d.SensorName
		if name == "" {
			name = "-"
		}
		b.WriteString(fmt.Sprintf("Sensor %d (%s)  band %d\n", d.SensorNumber, name, d.Band))
		b.WriteString(fmt.Sprintf("%s  %s navigation\n", d.NominalTime.UTC().Format(time.RFC3339), protocol.NavName(d.Nav.Type())))
	}
	b.WriteString(PreviewStyle.Render(strings.TrimRight(ui.RenderPreview(snap.Image, snap.Overlay, cols), "\n")))
	return b.String()
}
