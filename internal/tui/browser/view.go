package browser

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattsolo1/grove-core/tui/theme"

	"github.com/mattsolo1/grove-tree/internal/tui/layout"
	"github.com/mattsolo1/grove-tree/pkg/drag"
)

// styleSheet maps configured class names to styles.
type styleSheet struct {
	classes   map[string]lipgloss.Style
	connector lipgloss.Style
	nodrag    lipgloss.Style
	match     lipgloss.Style
	cursor    lipgloss.Style
}

func newStyleSheet(cfg *drag.Config) styleSheet {
	s := styleSheet{
		classes:   map[string]lipgloss.Style{},
		connector: theme.DefaultTheme.Muted,
		nodrag:    theme.DefaultTheme.Muted,
		match:     theme.DefaultTheme.Highlight,
		cursor:    lipgloss.NewStyle().Foreground(theme.DefaultTheme.Colors.Orange),
	}
	s.set(cfg.NodesClassName, theme.DefaultTheme.Muted)
	s.set(cfg.NodeClassName, lipgloss.NewStyle())
	s.set(cfg.HandleClassName, lipgloss.NewStyle())
	s.set(cfg.PlaceholderClassName, lipgloss.NewStyle().Foreground(theme.DefaultTheme.Colors.Cyan))
	s.set(cfg.DraggingClassName, lipgloss.NewStyle().Bold(true).Foreground(theme.DefaultTheme.Colors.Pink))
	return s
}

func (s styleSheet) set(class string, style lipgloss.Style) {
	if class != "" {
		s.classes[class] = style
	}
}

// render styles text with the first class that has a style.
func (s styleSheet) render(classes []string, text string) string {
	for _, c := range classes {
		if style, ok := s.classes[c]; ok {
			return style.Render(text)
		}
	}
	return text
}

func (s styleSheet) class(name, text string) string {
	return s.render([]string{name}, text)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.help.ShowAll {
		return m.help.View()
	}

	header := theme.DefaultTheme.Header.Render("Tree")
	if v := m.ctrl.Visuals(); v.Active() {
		header += " " + theme.DefaultTheme.Info.Render(fmt.Sprintf("[dragging %s]", v.Source.Value.Label()))
	}

	var status string
	switch {
	case m.confirm.Active:
		status = m.confirm.View()
	case m.searchInput.Focused():
		status = m.searchInput.View()
	case m.statusMessage != "":
		status = theme.DefaultTheme.Muted.Render(m.statusMessage)
	}

	footer := m.help.View()

	// Combine components vertically
	fullView := lipgloss.JoinVertical(lipgloss.Left,
		header,
		"", // This adds a blank line for spacing
		m.renderTree(),
		"", // Another blank line for spacing
		status,
		footer,
	)

	// Add top margin to prevent border cutoff
	return "\n" + fullView
}

// renderTree draws the rows inside the viewport, then the drag preview on
// top of them.
func (m Model) renderTree() string {
	rowHeight := m.layout.RowHeight()
	scroll := m.layout.Scroll()
	_, height := m.layout.Size()
	if height == 0 {
		height = m.layout.ContentHeight()
	}

	matched := map[string]bool{}
	for _, h := range m.matches {
		matched[h.ID] = true
	}
	current := m.current()

	lines := make([]string, height)
	for _, r := range m.layout.Rows() {
		for k := 0; k < rowHeight; k++ {
			i := r.Top + k - scroll.Y
			if i < 0 || i >= height {
				continue
			}
			lines[i] = m.renderRowLine(r, k, r.Node != nil && r.Node == current, matched)
		}
	}

	if v := m.ctrl.Visuals(); v.Active() {
		m.overlayPreview(lines, v)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRowLine(r layout.Row, line int, selected bool, matched map[string]bool) string {
	cursor := "  "
	if selected && line == 0 {
		cursor = m.styles.cursor.Render("▶ ")
	}
	if line > 0 {
		return cursor + m.styles.connector.Render(r.Rail)
	}

	prefix := m.styles.connector.Render(r.Prefix)
	if r.Placeholder() {
		width := m.ctrl.Visuals().Size.Width
		if width <= 0 || width > 24 {
			width = 24
		}
		return cursor + prefix + m.styles.class(m.cfg.PlaceholderClassName, strings.Repeat("┄", width))
	}

	label := r.Node.Value.Label()
	var text string
	switch {
	case matched[r.Node.Value.ID]:
		text = m.styles.match.Render(label)
	case r.Node.Value.NoDrag:
		text = m.styles.nodrag.Render(label)
	default:
		text = m.styles.render(r.Label.Classes(), label)
	}
	out := cursor + prefix + r.FoldText + text
	if selected {
		out = lipgloss.NewStyle().Bold(true).Render(out)
	}
	return out
}

// overlayPreview splices the dragged node's title over the tree lines at
// the pointer position minus the grab offset.
func (m Model) overlayPreview(lines []string, v drag.Visuals) {
	scroll := m.layout.Scroll()
	row := v.Preview.Y - scroll.Y
	col := v.Preview.X - scroll.X + gutter
	if row < 0 || row >= len(lines) || col < 0 {
		return
	}

	text := v.Source.Value.Label()
	if n := v.Source.ChildNodesCount(); n > 0 {
		text = fmt.Sprintf("%s (+%d)", text, n)
	}
	preview := m.styles.class(m.cfg.DraggingClassName, text)
	width := ansi.StringWidth(preview)

	line := lines[row]
	left := ansi.Truncate(line, col, "")
	if w := ansi.StringWidth(left); w < col {
		left += strings.Repeat(" ", col-w)
	}
	right := ansi.TruncateLeft(line, col+width, "")
	lines[row] = left + preview + right
}
