package browser

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mattsolo1/grove-tree/internal/tui/browser/components/confirm"
	"github.com/mattsolo1/grove-tree/internal/tui/layout"
	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.SetSize(msg.Width, msg.Height)
		m.layout.SetSize(msg.Width-gutter, m.treeHeight())
		m.refresh()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		// Losing terminal focus is the closest thing to the pointer leaving
		// the document.
		m.st.eventID++
		m.ctrl.PointerLeave(geometry.Event{ID: m.st.eventID, Type: geometry.PointerLeave})
		m.refresh()
		m.reportDrop()
		return m, nil

	case confirm.AnsweredMsg:
		switch msg.Answer {
		case confirm.Yes:
			if err := m.save(m.path, m.tree.Items()); err != nil {
				m.statusMessage = fmt.Sprintf("Error saving %s: %v", shortenPath(m.path), err)
				return m, nil
			}
			m.st.changed = false
			m.quitting = true
			return m, tea.Quit
		case confirm.No:
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		if m.confirm.Active {
			m.confirm, cmd = m.confirm.Update(msg)
			return m, cmd
		}

		if m.help.ShowAll {
			m.help.Toggle()
			return m, nil
		}

		// Handle search mode
		if m.searchInput.Focused() {
			switch {
			case key.Matches(msg, m.keys.Back): // Esc
				m.searchInput.Blur()
				m.searchInput.Reset()
				return m, nil
			case key.Matches(msg, m.keys.Confirm): // Enter
				m.searchInput.Blur()
				m.runSearch(m.searchInput.Value())
				return m, nil
			default:
				m.searchInput, cmd = m.searchInput.Update(msg)
				return m, cmd
			}
		}

		// While a gesture is in flight only cancelling and quitting work.
		if m.ctrl.State() != drag.StateIdle {
			switch {
			case key.Matches(msg, m.keys.CancelDrag):
				m.ctrl.Cancel()
				m.refresh()
				m.reportDrop()
			case key.Matches(msg, m.keys.Quit):
				m.ctrl.Cancel()
				m.refresh()
				return m.requestQuit()
			}
			return m, nil
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			return m.requestQuit()
		case key.Matches(msg, m.keys.Help):
			m.help.Toggle()
			return m, nil
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustScroll()
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.layout.VisibleNodes())-1 {
				m.cursor++
				m.adjustScroll()
			}
		case key.Matches(msg, m.keys.PageUp):
			m.cursor -= m.pageSize()
			m.clampCursor()
			m.adjustScroll()
		case key.Matches(msg, m.keys.PageDown):
			m.cursor += m.pageSize()
			m.clampCursor()
			m.adjustScroll()
		case key.Matches(msg, m.keys.GoToTop):
			// Handle 'gg' - go to top when g is pressed twice
			if m.lastKey == "g" {
				m.cursor = 0
				m.adjustScroll()
				m.lastKey = ""
			} else {
				m.lastKey = "g"
			}
		case key.Matches(msg, m.keys.GoToBottom):
			m.cursor = len(m.layout.VisibleNodes()) - 1
			m.clampCursor()
			m.adjustScroll()
		case key.Matches(msg, m.keys.FoldPrefix):
			m.lastKey = "z"
		case m.lastKey == "z" && msg.String() == "a":
			m.toggleFold(m.current())
			m.lastKey = ""
		case m.lastKey == "z" && msg.String() == "o":
			m.setFold(m.current(), false)
			m.lastKey = ""
		case m.lastKey == "z" && msg.String() == "c":
			m.setFold(m.current(), true)
			m.lastKey = ""
		case m.lastKey == "z" && msg.String() == "M":
			m.setAllFolds(true)
			m.lastKey = ""
		case m.lastKey == "z" && msg.String() == "R":
			m.setAllFolds(false)
			m.lastKey = ""
		case key.Matches(msg, m.keys.Fold):
			m.toggleFold(m.current())
		case key.Matches(msg, m.keys.Search):
			m.searchInput.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.keys.NextMatch):
			m.nextMatch()
		}

		// Reset lastKey for any other key press (for gg and z* detection)
		if !key.Matches(msg, m.keys.GoToTop) && !key.Matches(msg, m.keys.FoldPrefix) {
			m.lastKey = ""
		}
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	rowHeight := m.layout.RowHeight()
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.layout.ScrollBy(-rowHeight)
		m.refresh()
		return
	case tea.MouseButtonWheelDown:
		m.layout.ScrollBy(rowHeight)
		m.refresh()
		return
	}

	// Viewport coordinates of the tree area; page coordinates add the scroll.
	x, y := msg.X-gutter, msg.Y-headerLines
	scroll := m.layout.Scroll()
	m.st.eventID++
	e := geometry.Event{
		ID:     m.st.eventID,
		Button: pointerButton(msg.Button),
		X:      x + scroll.X,
		Y:      y + scroll.Y,
	}

	switch msg.Action {
	case tea.MouseActionPress:
		e.Type = geometry.PointerDown
		m.pointerDown(e, x, y)
	case tea.MouseActionMotion:
		e.Type = geometry.PointerMove
		m.ctrl.PointerMove(e)
	case tea.MouseActionRelease:
		e.Type = geometry.PointerUp
		m.ctrl.PointerUp(e)
	}
	m.refresh()
	m.reportDrop()
}

// pointerDown delivers a press to the innermost node under the pointer and
// then to each ancestor, like a bubbling DOM event.
func (m *Model) pointerDown(e geometry.Event, x, y int) {
	el, n := m.layout.ElementAt(x, y)
	if el != nil {
		e.Target = el
	}
	claimed := false
	for cur := n; cur != nil; cur = cur.Parent() {
		if m.ctrl.PointerDown(e, cur) {
			claimed = true
		}
	}
	if el == nil || el.Node() == nil {
		return
	}
	m.focus(el.Node())
	if !claimed && e.Button == geometry.ButtonPrimary && el.Role() == layout.RoleFold {
		m.toggleFold(el.Node())
	}
}

func pointerButton(b tea.MouseButton) geometry.Button {
	switch b {
	case tea.MouseButtonLeft:
		return geometry.ButtonPrimary
	case tea.MouseButtonMiddle:
		return geometry.ButtonMiddle
	case tea.MouseButtonRight:
		return geometry.ButtonSecondary
	}
	return geometry.ButtonNone
}

// reportDrop turns the last finished gesture into a status line.
func (m *Model) reportDrop() {
	d := m.st.lastDrop
	if d == nil {
		return
	}
	m.st.lastDrop = nil

	label := d.Source.Value.Label()
	switch {
	case d.Err != nil:
		m.statusMessage = fmt.Sprintf("Drop failed: %v", d.Err)
	case d.Cancelled:
		m.statusMessage = "Drag cancelled"
	case d.Moved():
		m.statusMessage = fmt.Sprintf("Moved %q", label)
	default:
		m.statusMessage = ""
	}
	m.focus(d.Source)
}

func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.path != "" && m.save != nil && m.st.changed {
		m.confirm.Activate(fmt.Sprintf("Write changes to %s?", shortenPath(m.path)))
		return m, nil
	}
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) adjustScroll() {
	if n := m.current(); n != nil {
		m.layout.EnsureVisible(n)
	}
}

func (m *Model) pageSize() int {
	size := m.treeHeight() / m.layout.RowHeight() / 2
	if size < 1 {
		size = 1
	}
	return size
}

func (m *Model) toggleFold(n *tree.Node) {
	if n == nil {
		return
	}
	m.setFold(n, !n.Collapsed)
}

func (m *Model) setFold(n *tree.Node, collapsed bool) {
	if n == nil || n.ChildNodesCount() == 0 || n.Collapsed == collapsed {
		return
	}
	n.SetCollapsed(collapsed)
	m.st.changed = true
	m.refresh()
	m.focus(n)
}

func (m *Model) setAllFolds(collapsed bool) {
	cur := m.current()
	m.tree.Walk(func(n *tree.Node, _ int) bool {
		if n.ChildNodesCount() > 0 && n.Collapsed != collapsed {
			n.SetCollapsed(collapsed)
			m.st.changed = true
		}
		return true
	})
	m.refresh()
	// The cursor node may now be hidden; fall back to its outermost ancestor.
	for cur != nil {
		if _, ok := m.layout.Bounds(cur); ok {
			m.focus(cur)
			return
		}
		cur = cur.Parent()
	}
	m.cursor = 0
	m.adjustScroll()
}

func (m *Model) runSearch(query string) {
	m.matches = nil
	m.matchIdx = -1
	if query == "" {
		m.statusMessage = ""
		return
	}
	hits, err := m.index.Search(query, nil)
	if err != nil {
		m.logger.WithError(err).Warn("search failed")
		m.statusMessage = fmt.Sprintf("Search failed: %v", err)
		return
	}
	m.matches = hits
	m.nextMatch()
}

// nextMatch expands the ancestors of the next hit and moves the cursor to it.
func (m *Model) nextMatch() {
	if len(m.matches) == 0 {
		if m.searchInput.Value() != "" {
			m.statusMessage = fmt.Sprintf("No titles match %q", m.searchInput.Value())
		}
		return
	}
	m.matchIdx = (m.matchIdx + 1) % len(m.matches)
	n := m.tree.Node(m.matches[m.matchIdx].Node)
	if n == nil || !n.Attached() {
		m.statusMessage = "Match no longer in the tree"
		return
	}
	for p := n.Parent(); p != nil; p = p.Parent() {
		if p.Collapsed {
			p.SetCollapsed(false)
			m.st.changed = true
		}
	}
	m.refresh()
	m.focus(n)
	m.statusMessage = fmt.Sprintf("Match %d of %d", m.matchIdx+1, len(m.matches))
}
