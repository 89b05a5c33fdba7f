package browse

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/framebridge/internal/discovery"
)

// ScanFunc looks for bridges on the network
type ScanFunc func(ctx context.Context) ([]*discovery.Endpoint, error)

type scanCompleteMsg struct {
	endpoints []*discovery.Endpoint
	err       error
}

// discoveryKeyMap defines key bindings for the discovery screen
type discoveryKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Rescan key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k discoveryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Rescan, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k discoveryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Rescan, k.Quit},
	}
}

// DiscoveryModel is the bridge discovery screen
type DiscoveryModel struct {
	ctx  context.Context
	scan ScanFunc

	Scanning  bool
	Endpoints []*discovery.Endpoint
	Cursor    int
	Selected  *discovery.Endpoint
	Err       error

	Width   int
	Height  int
	Spinner spinner.Model
	Help    help.Model
	Keys    discoveryKeyMap
}

// NewDiscoveryModel creates the discovery screen. Scanning starts in Init.
func NewDiscoveryModel(ctx context.Context, scan ScanFunc) DiscoveryModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return DiscoveryModel{
		ctx:      ctx,
		scan:     scan,
		Scanning: true,
		Spinner:  s,
		Help:     help.New(),
		Keys: discoveryKeyMap{
			Up: key.NewBinding(
				key.WithKeys("up", "k"),
				key.WithHelp("↑/k", "move up"),
			),
			Down: key.NewBinding(
				key.WithKeys("down", "j"),
				key.WithHelp("↓/j", "move down"),
			),
			Enter: key.NewBinding(
				key.WithKeys("enter"),
				key.WithHelp("enter", "connect"),
			),
			Rescan: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "rescan"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init starts the first scan
func (m DiscoveryModel) Init() tea.Cmd {
	return tea.Batch(m.scanCmd(), m.Spinner.Tick)
}

func (m DiscoveryModel) scanCmd() tea.Cmd {
	ctx, scan := m.ctx, m.scan
	return func() tea.Msg {
		endpoints, err := scan(ctx)
		if err != nil {
			err = fmt.Errorf("scan failed: %w", err)
		}
		return scanCompleteMsg{endpoints: endpoints, err: err}
	}
}

// Update handles messages for the discovery screen
func (m DiscoveryModel) Update(msg tea.Msg) (DiscoveryModel, tea.Cmd) {
	switch msg := msg.(type) {
	case scanCompleteMsg:
		m.Scanning = false
		m.Endpoints = msg.endpoints
		m.Err = msg.err
		m.Cursor = 0
		return m, nil

	case spinner.TickMsg:
		if !m.Scanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.Scanning {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.Keys.Up):
			if m.Cursor > 0 {
				m.Cursor--
			}
		case key.Matches(msg, m.Keys.Down):
			if m.Cursor < len(m.Endpoints)-1 {
				m.Cursor++
			}
		case key.Matches(msg, m.Keys.Enter):
			if len(m.Endpoints) > 0 {
				m.Selected = m.Endpoints[m.Cursor]
			}
		case key.Matches(msg, m.Keys.Rescan):
			m.Scanning = true
			m.Endpoints = nil
			m.Err = nil
			return m, tea.Batch(m.scanCmd(), m.Spinner.Tick)
		}
	}
	return m, nil
}

// View renders the discovery screen
func (m DiscoveryModel) View() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("Bridges on the network"))
	b.WriteString("\n")

	if m.Err != nil && !m.Scanning {
		b.WriteString(RenderError(m.Err.Error()))
		b.WriteString("\n\n")
	}

	switch {
	case m.Scanning:
		b.WriteString(m.Spinner.View() + " Scanning for bridges...\n")
	case len(m.Endpoints) == 0:
		b.WriteString(SubtitleStyle.Render("No bridges found. Press r to scan again, or pass --host."))
		b.WriteString("\n")
	default:
		for i, ep := range m.Endpoints {
			line := fmt.Sprintf("%-20s %s:%d", ep.Instance, ep.IP, ep.Port)
			if frames := ep.GetMetadata("frames"); frames != "" {
				line += "  " + frames + " frames"
			}
			b.WriteString(RenderMenuItem(line, i == m.Cursor))
			b.WriteString("\n")
		}
	}

	return RenderApplicationContainer(b.String(), m.Help.View(m.Keys), m.Width, m.Height)
}
