// Package pluginpanel is the overlay for toggling backend plugins on and
// off. Toggles are local until saved; saving submits the full list back
// to the backend.
package pluginpanel

import (
	"strings"

	"agentchat/pkg/api"
	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

// SaveMsg is sent when the user confirms the edited plugin list.
type SaveMsg struct {
	Plugins []api.Plugin
}

// CloseMsg is sent when the panel closes without saving.
type CloseMsg struct{}

// Panel displays and edits the backend plugin list.
type Panel struct {
	plugins  []api.Plugin
	selected int
	changed  bool
	loading  bool
	errorMsg string
	width    int
	height   int
	visible  bool
}

// NewPanel creates a plugin panel.
func NewPanel() *Panel {
	return &Panel{}
}

// Show opens the panel in its loading state; SetPlugins fills it in when
// the fetch completes.
func (p *Panel) Show() {
	p.visible = true
	p.loading = true
	p.plugins = nil
	p.selected = 0
	p.changed = false
	p.errorMsg = ""
}

// SetPlugins replaces the plugin list, keeping local edits out of it.
func (p *Panel) SetPlugins(plugins []api.Plugin) {
	p.plugins = append([]api.Plugin(nil), plugins...)
	p.loading = false
	p.selected = 0
	p.changed = false
}

// SetError shows a fetch or save failure inside the panel.
func (p *Panel) SetError(msg string) {
	p.loading = false
	p.errorMsg = msg
}

// Hide hides the panel.
func (p *Panel) Hide() {
	p.visible = false
}

// IsVisible returns whether the panel is visible.
func (p *Panel) IsVisible() bool {
	return p.visible
}

// SetSize sets the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// HasChanges returns whether any toggle differs from the loaded state.
func (p *Panel) HasChanges() bool {
	return p.changed
}

// Plugins returns the current (possibly edited) plugin list.
func (p *Panel) Plugins() []api.Plugin {
	return append([]api.Plugin(nil), p.plugins...)
}

// Update handles keyboard input for the panel.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !p.visible {
		return nil
	}

	switch msg.String() {
	case "up", "k":
		if p.selected > 0 {
			p.selected--
		}
		return nil

	case "down", "j":
		if p.selected < len(p.plugins)-1 {
			p.selected++
		}
		return nil

	case "space", " ":
		if p.selected >= 0 && p.selected < len(p.plugins) {
			p.plugins[p.selected].Enabled = !p.plugins[p.selected].Enabled
			p.changed = true
		}
		return nil

	case "enter":
		if !p.changed {
			p.Hide()
			return closeCmd()
		}
		plugins := p.Plugins()
		p.Hide()
		return func() tea.Msg {
			return SaveMsg{Plugins: plugins}
		}

	case "esc", "q":
		p.Hide()
		return closeCmd()
	}

	return nil
}

func closeCmd() tea.Cmd {
	return func() tea.Msg {
		return CloseMsg{}
	}
}

// View renders the panel.
func (p *Panel) View() string {
	if !p.visible {
		return ""
	}

	boxWidth := p.boxWidth()
	boxStyle := styles.BoxStyle.Width(boxWidth)

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render("Plugins"))
	content.WriteString("\n\n")

	switch {
	case p.loading:
		content.WriteString(styles.TextMutedStyle.Render("Loading plugins..."))
	case len(p.plugins) == 0:
		content.WriteString(styles.TextMutedStyle.Render("No plugins available"))
	default:
		for i, plugin := range p.plugins {
			marker := styles.ToggleOffStyle.Render("[ ]")
			if plugin.Enabled {
				marker = styles.ToggleOnStyle.Render("[x]")
			}

			name := utils.TruncateToWidth(plugin.Name, boxWidth-10)
			line := marker + " " + name
			if i == p.selected {
				line = styles.SelectedStyle.Render(utils.PadPlain("> "+stripMarker(plugin)+" "+name, boxWidth-6))
			}
			content.WriteString(line + "\n")
		}
	}

	if p.errorMsg != "" {
		content.WriteString("\n")
		content.WriteString(styles.ErrorStyle.Render(p.errorMsg))
	}

	content.WriteString("\n\n")
	hint := "↑↓ Navigate • Space: Toggle • Esc: Close"
	if p.changed {
		hint = "↑↓ Navigate • Space: Toggle • Enter: Save • Esc: Discard"
	}
	content.WriteString(styles.FooterStyle.Render(hint))

	return boxStyle.Render(content.String())
}

func stripMarker(plugin api.Plugin) string {
	if plugin.Enabled {
		return "[x]"
	}
	return "[ ]"
}

func (p *Panel) boxWidth() int {
	width := p.width
	if width <= 0 {
		width = 80
	}
	available := width - 2
	if available < 1 {
		available = 1
	}

	boxWidth := available
	if boxWidth > 60 {
		boxWidth = 60
	}
	minWidth := 30
	if minWidth > available {
		minWidth = available
	}
	if boxWidth < minWidth {
		boxWidth = minWidth
	}
	return boxWidth
}
