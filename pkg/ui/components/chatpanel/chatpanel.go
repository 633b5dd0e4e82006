// Package chatpanel renders the conversation transcript and the message
// input box. The transcript is display-ordered: whatever order entries
// arrive in is the order they render in.
package chatpanel

import (
	"fmt"
	"os"
	"strings"

	"agentchat/pkg/chat"
	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

const (
	panelBorderSize = 1
	panelPaddingH   = 1
	panelPaddingV   = 0

	textareaHeight = 3
	// title + separator above the textarea
	chromeLines = 2
)

// SubmitMsg is returned when the user submits a chat message.
type SubmitMsg struct {
	Content string
}

// Panel is the transcript viewport plus the input textarea.
type Panel struct {
	title      string
	agentLabel string
	messages   []chat.Message
	lines      []string
	plainLines []string

	textarea textarea.Model
	width    int
	height   int
	scrollY  int
	follow   bool
}

// New creates a chat panel. agentLabel is the display name used for ai
// entries ("Agent" by default).
func New(agentLabel string) *Panel {
	if strings.TrimSpace(agentLabel) == "" {
		agentLabel = "Agent"
	}

	ta := textarea.New()
	ta.Placeholder = "Type your message..."
	ta.SetHeight(textareaHeight)
	ta.Focus()

	return &Panel{
		title:      "Chat",
		agentLabel: agentLabel,
		textarea:   ta,
		follow:     true,
	}
}

// SetSize sets the panel dimensions.
func (p *Panel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.textarea.SetWidth(p.contentWidth())
	p.reflow()
}

// SetTitle sets the panel title line.
func (p *Panel) SetTitle(title string) {
	p.title = title
}

// SetMessages replaces the transcript and re-renders it. When the view is
// following the tail it stays pinned to the newest entry.
func (p *Panel) SetMessages(messages []chat.Message) {
	p.messages = messages
	p.reflow()
	if p.follow {
		p.scrollY = p.maxScroll()
	}
}

// Update handles keyboard input for the panel.
func (p *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		content, ok := p.submit()
		if !ok {
			return nil
		}
		return func() tea.Msg {
			return SubmitMsg{Content: content}
		}

	case "up", "down", "pgup", "pgdown":
		p.handleScroll(msg.String())
		return nil

	case "ctrl+y":
		return p.copyTranscript()

	default:
		var cmd tea.Cmd
		p.textarea, cmd = p.textarea.Update(msg)
		return cmd
	}
}

// InputValue returns the current input text.
func (p *Panel) InputValue() string {
	return p.textarea.Value()
}

// HandlePaste routes paste content to the textarea.
func (p *Panel) HandlePaste(content string) {
	p.textarea.InsertString(content)
}

// View renders the panel.
func (p *Panel) View() string {
	contentWidth := p.contentWidth()
	contentHeight := p.contentHeight()

	viewportHeight := contentHeight - textareaHeight - chromeLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	lines := make([]string, 0, contentHeight)

	titleLine := utils.TruncateToWidth(p.title, contentWidth)
	lines = append(lines, utils.PadStyled(styles.TitleStyle.Render(titleLine), contentWidth))

	start := p.scrollY
	end := start + viewportHeight
	if end > len(p.lines) {
		end = len(p.lines)
	}
	for i := start; i < end; i++ {
		lines = append(lines, utils.PadStyled(p.lines[i], contentWidth))
	}
	for len(lines) < 1+viewportHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	lines = append(lines, strings.Repeat("─", contentWidth))

	for i, line := range strings.Split(p.textarea.View(), "\n") {
		if i >= textareaHeight {
			break
		}
		lines = append(lines, utils.PadStyled(line, contentWidth))
	}
	for len(lines) < contentHeight {
		lines = append(lines, strings.Repeat(" ", contentWidth))
	}

	boxWidth := p.width
	if boxWidth < 1 {
		boxWidth = 1
	}

	return panelBoxStyle.
		Width(boxWidth).
		Padding(panelPaddingV, panelPaddingH).
		Render(strings.Join(lines, "\n"))
}

// Transcript returns the unstyled transcript text, one rendered line per
// element. Used by tests and the clipboard copy.
func (p *Panel) Transcript() string {
	return strings.Join(p.plainLines, "\n")
}

func (p *Panel) submit() (string, bool) {
	content := strings.TrimSpace(p.textarea.Value())
	if content == "" {
		return "", false
	}
	p.textarea.Reset()
	return content, true
}

func (p *Panel) handleScroll(key string) {
	maxScroll := p.maxScroll()

	switch key {
	case "up":
		if p.scrollY > 0 {
			p.scrollY--
			p.follow = false
		}
	case "down":
		if p.scrollY < maxScroll {
			p.scrollY++
		}
		p.follow = p.scrollY >= maxScroll
	case "pgup":
		p.scrollY -= 10
		if p.scrollY < 0 {
			p.scrollY = 0
		}
		p.follow = false
	case "pgdown":
		p.scrollY += 10
		if p.scrollY > maxScroll {
			p.scrollY = maxScroll
		}
		p.follow = p.scrollY >= maxScroll
	}
}

func (p *Panel) copyTranscript() tea.Cmd {
	text := p.Transcript()
	return func() tea.Msg {
		_, _ = fmt.Fprint(os.Stdout, osc52.New(text))
		return nil
	}
}

func (p *Panel) reflow() {
	width := p.contentWidth()
	if width <= 0 {
		p.lines = nil
		p.plainLines = nil
		p.scrollY = 0
		return
	}

	p.lines, p.plainLines = renderTranscript(p.messages, p.agentLabel, width)

	if p.scrollY > p.maxScroll() {
		p.scrollY = p.maxScroll()
	}
	if p.scrollY < 0 {
		p.scrollY = 0
	}
}

// renderTranscript turns messages into styled display lines plus their
// plain-text equivalents.
func renderTranscript(messages []chat.Message, agentLabel string, width int) (styled, plain []string) {
	for i, msg := range messages {
		if i > 0 {
			styled = append(styled, "")
			plain = append(plain, "")
		}

		label, labelStyle := senderLabel(msg.Sender, agentLabel)
		styled = append(styled, labelStyle.Render(label))
		plain = append(plain, label)

		bodyStyle := styles.TextStyle
		if msg.Kind == chat.KindMarkup {
			// Markup came from the client itself, never from raw
			// backend text, so it is safe to style as a link.
			bodyStyle = styles.MarkupStyle
		}

		for _, line := range utils.WrapPlain(sanitize(msg.Content), width) {
			styled = append(styled, bodyStyle.Render(line))
			plain = append(plain, line)
		}
	}

	if len(styled) == 0 {
		hint := "No messages yet. Say hello!"
		styled = append(styled, styles.TextMutedStyle.Render(hint))
		plain = append(plain, hint)
	}
	return styled, plain
}

func senderLabel(sender chat.Sender, agentLabel string) (string, lipgloss.Style) {
	if sender == chat.SenderUser {
		return "You:", styles.UserLabelStyle
	}
	return agentLabel + ":", styles.AgentLabelStyle
}

// sanitize drops control characters so backend text cannot smuggle
// escape sequences into the terminal.
func sanitize(content string) string {
	if content == "" {
		return content
	}
	var sb strings.Builder
	sb.Grow(len(content))
	for _, r := range content {
		switch r {
		case '\n', '\t':
			sb.WriteRune(r)
			continue
		}
		if r < 0x20 || r == 0x7f {
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func (p *Panel) contentWidth() int {
	width := p.width - 2*(panelBorderSize+panelPaddingH)
	if width < 1 {
		return 1
	}
	return width
}

func (p *Panel) contentHeight() int {
	height := p.height - 2*(panelBorderSize+panelPaddingV)
	if height < 1 {
		return 1
	}
	return height
}

func (p *Panel) maxScroll() int {
	viewportHeight := p.contentHeight() - textareaHeight - chromeLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	max := len(p.lines) - viewportHeight
	if max < 0 {
		return 0
	}
	return max
}

var panelBoxStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(styles.ColorBorder)
