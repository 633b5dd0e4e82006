// Package filetree is a small file browser overlay. Selecting a file
// inserts its path into the chat input so it can be referenced in a
// message.
package filetree

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"agentchat/pkg/ui/components/utils"
	"agentchat/pkg/ui/styles"

	tea "charm.land/bubbletea/v2"
)

// SelectMsg is sent when a file is selected.
type SelectMsg struct {
	Path string
}

// CancelMsg is sent when the browser is cancelled.
type CancelMsg struct{}

type entry struct {
	path  string
	name  string
	depth int
	isDir bool
}

// Panel provides a navigable view of the directory tree rooted at the
// working directory. Directories expand lazily on demand.
type Panel struct {
	root     string
	entries  []entry
	expanded map[string]bool
	selected int
	scroll   int
	visible  bool
	width    int
	height   int
}

// NewPanel creates a file tree panel.
func NewPanel() *Panel {
	return &Panel{expanded: map[string]bool{}}
}

// Show opens the browser rooted at dir.
func (ft *Panel) Show(dir string) {
	ft.root = dir
	ft.visible = true
	ft.selected = 0
	ft.scroll = 0
	ft.expanded = map[string]bool{}
	ft.rebuild()
}

// Hide hides the browser.
func (ft *Panel) Hide() {
	ft.visible = false
}

// IsVisible returns whether the browser is visible.
func (ft *Panel) IsVisible() bool {
	return ft.visible
}

// SetSize updates the panel dimensions.
func (ft *Panel) SetSize(width, height int) {
	ft.width = width
	ft.height = height
}

// rebuild flattens the tree into visible entries, descending only into
// expanded directories.
func (ft *Panel) rebuild() {
	ft.entries = nil
	ft.appendDir(ft.root, 0)
	if ft.selected >= len(ft.entries) {
		ft.selected = len(ft.entries) - 1
	}
	if ft.selected < 0 {
		ft.selected = 0
	}
}

func (ft *Panel) appendDir(dir string, depth int) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	// Directories first, each group alphabetical
	sort.Slice(items, func(i, j int) bool {
		if items[i].IsDir() != items[j].IsDir() {
			return items[i].IsDir()
		}
		return items[i].Name() < items[j].Name()
	})

	for _, item := range items {
		name := item.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(dir, name)
		ft.entries = append(ft.entries, entry{
			path:  path,
			name:  name,
			depth: depth,
			isDir: item.IsDir(),
		})
		if item.IsDir() && ft.expanded[path] {
			ft.appendDir(path, depth+1)
		}
	}
}

// Update handles keyboard input for the browser.
func (ft *Panel) Update(msg tea.KeyPressMsg) tea.Cmd {
	if !ft.visible {
		return nil
	}

	listHeight := ft.listHeight()

	switch msg.String() {
	case "up", "k":
		if ft.selected > 0 {
			ft.selected--
		}
		ft.ensureVisible()
		return nil

	case "down", "j":
		if ft.selected < len(ft.entries)-1 {
			ft.selected++
		}
		ft.ensureVisible()
		return nil

	case "pgup":
		ft.selected -= listHeight
		if ft.selected < 0 {
			ft.selected = 0
		}
		ft.ensureVisible()
		return nil

	case "pgdown":
		ft.selected += listHeight
		if ft.selected > len(ft.entries)-1 {
			ft.selected = len(ft.entries) - 1
		}
		ft.ensureVisible()
		return nil

	case "home":
		ft.selected = 0
		ft.ensureVisible()
		return nil

	case "end":
		if len(ft.entries) > 0 {
			ft.selected = len(ft.entries) - 1
		}
		ft.ensureVisible()
		return nil

	case "right":
		if e, ok := ft.current(); ok && e.isDir && !ft.expanded[e.path] {
			ft.expanded[e.path] = true
			ft.rebuild()
		}
		return nil

	case "left":
		if e, ok := ft.current(); ok {
			if e.isDir && ft.expanded[e.path] {
				ft.collapse(e.path)
				return nil
			}
			ft.selectParent(e)
		}
		return nil

	case "enter", "tab":
		e, ok := ft.current()
		if !ok {
			return nil
		}
		if e.isDir {
			if ft.expanded[e.path] {
				ft.collapse(e.path)
			} else {
				ft.expanded[e.path] = true
				ft.rebuild()
			}
			return nil
		}
		path := e.path
		ft.Hide()
		return func() tea.Msg {
			return SelectMsg{Path: path}
		}

	case "esc", "q":
		ft.Hide()
		return func() tea.Msg {
			return CancelMsg{}
		}
	}

	return nil
}

func (ft *Panel) collapse(path string) {
	delete(ft.expanded, path)
	// Also drop expansion state below the collapsed dir
	prefix := path + string(filepath.Separator)
	for p := range ft.expanded {
		if strings.HasPrefix(p, prefix) {
			delete(ft.expanded, p)
		}
	}
	ft.rebuild()
	ft.ensureVisible()
}

func (ft *Panel) selectParent(e entry) {
	parent := filepath.Dir(e.path)
	for i, cand := range ft.entries {
		if cand.path == parent {
			ft.selected = i
			ft.ensureVisible()
			return
		}
	}
}

func (ft *Panel) current() (entry, bool) {
	if ft.selected < 0 || ft.selected >= len(ft.entries) {
		return entry{}, false
	}
	return ft.entries[ft.selected], true
}

// View renders the browser.
func (ft *Panel) View() string {
	if !ft.visible {
		return ""
	}

	boxWidth, contentWidth, listHeight := ft.dimensions()

	boxStyle := styles.BoxStyle.Width(boxWidth)

	var content strings.Builder
	content.WriteString(styles.TitleStyle.Render("Files"))
	content.WriteString("\n")
	content.WriteString(styles.TextMutedStyle.Render(utils.TruncateToWidth(ft.root, contentWidth)))
	content.WriteString("\n\n")

	if len(ft.entries) == 0 {
		content.WriteString(styles.TextMutedStyle.Render("Empty directory"))
		for i := 1; i < listHeight; i++ {
			content.WriteString("\n")
		}
	} else {
		for i := 0; i < listHeight; i++ {
			index := ft.scroll + i
			if index >= len(ft.entries) {
				content.WriteString("\n")
				continue
			}
			e := ft.entries[index]

			marker := "  "
			if e.isDir {
				marker = "▸ "
				if ft.expanded[e.path] {
					marker = "▾ "
				}
			}
			line := strings.Repeat("  ", e.depth) + marker + e.name
			line = utils.TruncateToWidth(line, contentWidth-2)

			if index == ft.selected {
				content.WriteString(styles.SelectedStyle.Render(utils.PadPlain("  "+line, contentWidth)))
			} else {
				content.WriteString(styles.TextStyle.Render("  " + line))
			}
			content.WriteString("\n")
		}
	}

	content.WriteString("\n")
	content.WriteString(styles.FooterStyle.Render("↑↓ Navigate | ←→ Collapse/Expand | Enter Select | Esc Cancel"))

	return boxStyle.Render(content.String())
}

// ensureVisible adjusts scroll to keep the selected entry on screen.
func (ft *Panel) ensureVisible() {
	listHeight := ft.listHeight()

	if len(ft.entries) == 0 {
		ft.selected = 0
		ft.scroll = 0
		return
	}

	if ft.selected < 0 {
		ft.selected = 0
	}
	if ft.selected >= len(ft.entries) {
		ft.selected = len(ft.entries) - 1
	}

	maxScroll := len(ft.entries) - listHeight
	if maxScroll < 0 {
		maxScroll = 0
	}
	if ft.scroll > maxScroll {
		ft.scroll = maxScroll
	}

	if ft.selected < ft.scroll {
		ft.scroll = ft.selected
	}
	if ft.selected >= ft.scroll+listHeight {
		ft.scroll = ft.selected - listHeight + 1
	}
	if ft.scroll < 0 {
		ft.scroll = 0
	}
}

// dimensions calculates box width, content width, and list height
func (ft *Panel) dimensions() (int, int, int) {
	width := ft.width
	height := ft.height
	if width <= 0 {
		width = 80
	}
	if height <= 0 {
		height = 24
	}

	available := width - 2
	if available < 1 {
		available = 1
	}

	boxWidth := available
	if boxWidth > 90 {
		boxWidth = 90
	}
	minWidth := 40
	if minWidth > available {
		minWidth = available
	}
	if boxWidth < minWidth {
		boxWidth = minWidth
	}

	contentWidth := boxWidth - 4
	if contentWidth < 1 {
		contentWidth = 1
	}

	maxContentHeight := height - 4
	if maxContentHeight < 1 {
		maxContentHeight = 1
	}

	// Fixed lines: title + root + blank + footer
	const fixedLines = 5
	listHeight := maxContentHeight - fixedLines
	if listHeight < 1 {
		listHeight = 1
	}

	const maxListHeight = 14
	if listHeight > maxListHeight {
		listHeight = maxListHeight
	}

	return boxWidth, contentWidth, listHeight
}

func (ft *Panel) listHeight() int {
	_, _, listHeight := ft.dimensions()
	return listHeight
}
