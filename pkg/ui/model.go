// Package ui wires the chat stream, backend client, and components into
// the Bubble Tea application model.
package ui

import (
	"context"
	"log/slog"
	"os"

	"agentchat/pkg/api"
	"agentchat/pkg/chat"
	"agentchat/pkg/config"
	"agentchat/pkg/sse"
	"agentchat/pkg/ui/components/chatpanel"
	"agentchat/pkg/ui/components/filetree"
	"agentchat/pkg/ui/components/pluginpanel"
	"agentchat/pkg/ui/components/statusbar"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// Model represents the Bubble Tea application state
type Model struct {
	cfg    config.Config
	client *api.Client

	// Event sources
	stream *chat.Stream
	events <-chan chat.Event
	states <-chan sse.ConnState

	// UI Components
	chatPanel   *chatpanel.Panel
	pluginPanel *pluginpanel.Panel
	fileTree    *filetree.Panel
	statusBar   *statusbar.StatusBar

	// UI state
	width  int
	height int
	ready  bool
}

// NewModel creates the application model. events and states are fed by
// the SSE client; stream owns the transcript.
func NewModel(cfg config.Config, client *api.Client, stream *chat.Stream, events <-chan chat.Event, states <-chan sse.ConnState) Model {
	sb := statusbar.New()
	sb.SetSession(cfg.SessionID)
	sb.SetServerURL(cfg.ServerURL)
	sb.SetConnState(sse.StateConnecting.String())

	panel := chatpanel.New(cfg.UI.AgentLabel)
	if cfg.Persona.Name != "" {
		panel.SetTitle("Chat (" + cfg.Persona.Name + ")")
	}

	return Model{
		cfg:         cfg,
		client:      client,
		stream:      stream,
		events:      events,
		states:      states,
		chatPanel:   panel,
		pluginPanel: pluginpanel.NewPanel(),
		fileTree:    filetree.NewPanel(),
		statusBar:   sb,
	}
}

// Init initializes the model (Bubble Tea lifecycle method)
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		waitForEvent(m.events),
		waitForState(m.states),
	)
}

// Update handles messages and updates model state (Bubble Tea lifecycle method)
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.PasteMsg:
		if !m.pluginPanel.IsVisible() && !m.fileTree.IsVisible() {
			m.chatPanel.HandlePaste(msg.Content)
		}
		return m, nil

	case streamEventMsg:
		m.stream.Apply(msg.event)
		m.chatPanel.SetMessages(m.stream.Messages())
		return m, waitForEvent(m.events)

	case streamClosedMsg:
		// The SSE client only closes its channel on shutdown
		return m, nil

	case connStateMsg:
		m.statusBar.SetConnState(msg.state.String())
		return m, waitForState(m.states)

	case chatpanel.SubmitMsg:
		m.stream.PushUser(msg.Content)
		m.chatPanel.SetMessages(m.stream.Messages())
		return m, nil

	case pluginpanel.SaveMsg:
		return m, m.savePlugins(msg.Plugins)

	case pluginsLoadedMsg:
		if msg.err != nil {
			m.pluginPanel.SetError("Failed to load plugins: " + msg.err.Error())
			return m, nil
		}
		m.pluginPanel.SetPlugins(msg.plugins)
		return m, nil

	case pluginsSavedMsg:
		if msg.err != nil {
			slog.Warn("plugin_save_failed", "error", msg.err)
		}
		return m, nil

	case filetree.SelectMsg:
		m.chatPanel.HandlePaste(msg.Path)
		return m, nil

	case pluginpanel.CloseMsg, filetree.CancelMsg:
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	}

	if m.pluginPanel.IsVisible() {
		return m, m.pluginPanel.Update(msg)
	}
	if m.fileTree.IsVisible() {
		return m, m.fileTree.Update(msg)
	}

	switch msg.String() {
	case "ctrl+p":
		m.pluginPanel.Show()
		return m, m.loadPlugins()

	case "ctrl+f":
		dir, err := os.Getwd()
		if err != nil {
			dir = "."
		}
		m.fileTree.Show(dir)
		return m, nil
	}

	return m, m.chatPanel.Update(msg)
}

// View renders the UI (Bubble Tea lifecycle method)
func (m Model) View() tea.View {
	if !m.ready {
		v := tea.NewView("Connecting to agent host...")
		v.AltScreen = true
		return v
	}

	var sections []string

	switch {
	case m.pluginPanel.IsVisible():
		sections = append(sections, m.pluginPanel.View())
	case m.fileTree.IsVisible():
		sections = append(sections, m.fileTree.View())
	default:
		sections = append(sections, m.chatPanel.View())
	}

	if m.cfg.UI.ShowStatusBar {
		m.statusBar.SetWidth(m.width)
		sections = append(sections, m.statusBar.Render())
	}

	v := tea.NewView(lipgloss.JoinVertical(lipgloss.Left, sections...))
	v.AltScreen = true
	return v
}

func (m *Model) layout() {
	mainHeight := m.height
	if m.cfg.UI.ShowStatusBar {
		mainHeight--
	}
	m.chatPanel.SetSize(m.width, mainHeight)
	m.pluginPanel.SetSize(m.width, mainHeight)
	m.fileTree.SetSize(m.width, mainHeight)
	m.statusBar.SetWidth(m.width)
}

// Stream and connection messages

type streamEventMsg struct {
	event chat.Event
}

type streamClosedMsg struct{}

type connStateMsg struct {
	state sse.ConnState
}

// waitForEvent blocks on the next push event from the SSE client.
func waitForEvent(events <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return streamClosedMsg{}
		}
		return streamEventMsg{event: event}
	}
}

func waitForState(states <-chan sse.ConnState) tea.Cmd {
	return func() tea.Msg {
		state, ok := <-states
		if !ok {
			return streamClosedMsg{}
		}
		return connStateMsg{state: state}
	}
}

// Plugin panel wiring

type pluginsLoadedMsg struct {
	plugins []api.Plugin
	err     error
}

type pluginsSavedMsg struct {
	err error
}

func (m Model) loadPlugins() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		plugins, err := client.ListPlugins(ctx)
		return pluginsLoadedMsg{plugins: plugins, err: err}
	}
}

func (m Model) savePlugins(plugins []api.Plugin) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), api.DefaultTimeout)
		defer cancel()
		err := client.SavePlugins(ctx, plugins)
		return pluginsSavedMsg{err: err}
	}
}
