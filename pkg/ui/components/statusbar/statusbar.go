// Package statusbar renders the single-line bar at the bottom of the
// screen: working directory and git branch on the left, session and
// connection state on the right.
package statusbar

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"agentchat/pkg/ui/styles"

	"github.com/charmbracelet/x/ansi"
)

const appLabel = "[agentchat]"

// StatusBar holds the state shown in the bottom bar.
type StatusBar struct {
	currentDir string
	branch     string
	session    string
	serverHost string
	connState  string
	width      int
}

// New creates a status bar seeded with the current working directory.
func New() *StatusBar {
	sb := &StatusBar{
		currentDir: getWorkingDir(),
		width:      80,
	}
	sb.branch = ResolveGitBranch(sb.currentDir)
	return sb
}

// SetSession sets the chat session identifier.
func (sb *StatusBar) SetSession(session string) {
	sb.session = session
}

// SetServerURL records the backend host extracted from the server URL.
func (sb *StatusBar) SetServerURL(serverURL string) {
	parsed, err := url.Parse(serverURL)
	if err != nil || parsed.Host == "" {
		sb.serverHost = serverURL
		return
	}
	sb.serverHost = parsed.Host
}

// SetConnState updates the displayed connection state.
func (sb *StatusBar) SetConnState(state string) {
	sb.connState = state
}

// SetWidth updates the width for rendering.
func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

// Render returns the styled status bar line.
func (sb *StatusBar) Render() string {
	const minGap = 2

	left := appLabel
	if sb.currentDir != "" {
		left += " " + sb.currentDir
	}
	if sb.branch != "" {
		left += fmt.Sprintf(" (%s)", sb.branch)
	}

	right := fmt.Sprintf("%s | %s | %s", shortSession(sb.session), sb.serverHost, sb.connState)

	innerWidth := sb.width - 2 // style padding
	if innerWidth < 1 {
		innerWidth = 1
	}

	rightWidth := ansi.StringWidth(right)
	if rightWidth > innerWidth {
		return statusStyle.Render(ansi.Truncate(right, innerWidth, "..."))
	}

	leftAvailable := innerWidth - rightWidth - minGap
	if leftAvailable < 0 {
		leftAvailable = 0
	}
	if ansi.StringWidth(left) > leftAvailable {
		left = ansi.Truncate(left, leftAvailable, "..")
	}

	gap := innerWidth - ansi.StringWidth(left) - rightWidth
	if gap < 0 {
		gap = 0
	}

	return statusStyle.Render(left + strings.Repeat(" ", gap) + right)
}

// shortSession abbreviates UUID-shaped session ids to their first group.
func shortSession(session string) string {
	if i := strings.IndexByte(session, '-'); i > 0 {
		return session[:i]
	}
	return session
}

// getWorkingDir returns the current working directory with ~ substitution.
func getWorkingDir() string {
	dir, err := os.Getwd()
	if err != nil {
		return "~"
	}

	home, err := os.UserHomeDir()
	if err == nil && strings.HasPrefix(dir, home) {
		dir = "~" + dir[len(home):]
	}

	return dir
}

var statusStyle = styles.StatusBarStyle
