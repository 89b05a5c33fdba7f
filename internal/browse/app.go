package browse

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/framebridge/internal/discovery"
	"github.com/muurk/framebridge/internal/logging"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenDiscovery Screen = "discovery"
	ScreenFrames    Screen = "frames"
)

// ConnectFunc opens a bridge for a discovered endpoint
type ConnectFunc func(ep *discovery.Endpoint) (*Bridge, error)

// Options configures the browser. With Bridge set the browser opens on
// the frame screen; otherwise it starts by scanning with Scan.
type Options struct {
	Bridge  *Bridge
	Scan    ScanFunc
	Connect ConnectFunc
}

type connectedMsg struct {
	bridge  *Bridge
	numbers []int
	current int
	err     error
}

// AppModel is the top-level model that switches between screens
type AppModel struct {
	ctx  context.Context
	opts Options

	CurrentScreen Screen
	Discovery     DiscoveryModel
	Frames        FramesModel
	Connecting    bool
	LastError     error

	Width  int
	Height int
}

// NewAppModel creates the browser model
func NewAppModel(ctx context.Context, opts Options) AppModel {
	m := AppModel{ctx: ctx, opts: opts}
	if opts.Bridge != nil {
		m.CurrentScreen = ScreenFrames
		m.Connecting = true
	} else {
		m.CurrentScreen = ScreenDiscovery
		m.Discovery = NewDiscoveryModel(ctx, opts.Scan)
	}
	return m
}

// Init starts the first screen
func (m AppModel) Init() tea.Cmd {
	if m.CurrentScreen == ScreenFrames {
		return connectCmd(m.ctx, m.opts.Bridge)
	}
	return m.Discovery.Init()
}

// connectCmd lists the bridge's frames and the one the engine shows
func connectCmd(ctx context.Context, b *Bridge) tea.Cmd {
	return func() tea.Msg {
		numbers, err := b.Transport.FrameNumbers(ctx)
		if err != nil {
			return connectedMsg{bridge: b, err: err}
		}
		current, err := b.Transport.CurrentFrame(ctx)
		return connectedMsg{bridge: b, numbers: numbers, current: current, err: err}
	}
}

func (m AppModel) connectEndpoint(ep *discovery.Endpoint) tea.Cmd {
	ctx, connect := m.ctx, m.opts.Connect
	return func() tea.Msg {
		if connect == nil {
			return connectedMsg{err: errors.New("no connector configured")}
		}
		b, err := connect(ep)
		if err != nil {
			return connectedMsg{err: fmt.Errorf("connect to %s: %w", ep.Instance, err)}
		}
		return connectCmd(ctx, b)()
	}
}

// Update routes messages to the current screen and handles transitions
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Discovery.Width, m.Discovery.Height = msg.Width, msg.Height
		m.Frames.Width, m.Frames.Height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case connectedMsg:
		return m.connected(msg)
	}

	var cmd tea.Cmd
	switch m.CurrentScreen {
	case ScreenDiscovery:
		m.Discovery, cmd = m.Discovery.Update(msg)
		if ep := m.Discovery.Selected; ep != nil && !m.Connecting {
			m.Discovery.Selected = nil
			m.Connecting = true
			m.LastError = nil
			logging.Debug("Connecting to discovered bridge", zap.String("endpoint", ep.String()))
			return m, m.connectEndpoint(ep)
		}

	case ScreenFrames:
		if m.Connecting {
			return m, nil
		}
		m.Frames, cmd = m.Frames.Update(msg)
		if m.Frames.BackRequested {
			return m.transitionTo(ScreenDiscovery)
		}
	}
	return m, cmd
}

func (m AppModel) connected(msg connectedMsg) (tea.Model, tea.Cmd) {
	m.Connecting = false
	if msg.err != nil {
		m.LastError = msg.err
		m.Discovery.Err = msg.err
		logging.Warn("Bridge connection failed", zap.Error(msg.err))
		return m, nil
	}
	m.LastError = nil
	m.Frames = NewFramesModel(m.ctx, msg.bridge, msg.numbers, msg.current, m.opts.Scan != nil)
	m.Frames.Width, m.Frames.Height = m.Width, m.Height
	m.CurrentScreen = ScreenFrames
	return m, m.Frames.Init()
}

func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.CurrentScreen = screen
	switch screen {
	case ScreenDiscovery:
		m.Discovery = NewDiscoveryModel(m.ctx, m.opts.Scan)
		m.Discovery.Width, m.Discovery.Height = m.Width, m.Height
		return m, m.Discovery.Init()
	case ScreenFrames:
		return m, m.Frames.Init()
	}
	return m, nil
}

// View renders the current screen
func (m AppModel) View() string {
	if m.CurrentScreen == ScreenDiscovery {
		return m.Discovery.View()
	}
	switch {
	case m.Connecting:
		return RenderApplicationContainer(SubtitleStyle.Render("Connecting to bridge..."), "q quit", m.Width, m.Height)
	case m.Frames.bridge == nil && m.LastError != nil:
		return RenderApplicationContainer(RenderError(m.LastError.Error()), "q quit", m.Width, m.Height)
	}
	return m.Frames.View()
}

// Run shows the browser until the user quits or ctx is done
func Run(ctx context.Context, opts Options) error {
	if opts.Bridge == nil && opts.Scan == nil {
		return errors.New("browse needs a bridge or a scanner")
	}
	p := tea.NewProgram(NewAppModel(ctx, opts), tea.WithContext(ctx), tea.WithAltScreen())
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
