// Package layout places tree nodes on a terminal grid and answers the hit
// tests the drag controller asks for. Every node takes RowHeight lines so a
// row has an upper and a lower half.
package layout

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

const (
	DefaultRowHeight = 2
	DefaultIndent    = 2
)

// Row is one laid out entry: a node or the drag placeholder.
type Row struct {
	Node  *tree.Node
	Depth int
	// Top is the first content line of the row.
	Top int
	// Prefix is the tree connector drawn on the first line, Rail the one
	// drawn on the remaining lines.
	Prefix, Rail string
	// Left is the column where the node element starts.
	Left int

	FoldText string
	Fold     *Element
	Label    *Element
}

// Placeholder reports whether the row marks the drop candidate.
func (r Row) Placeholder() bool { return r.Node == nil }

// Layout implements drag.Surface over the terminal grid.
type Layout struct {
	tree      *tree.Tree
	cfg       *drag.Config
	rowHeight int
	indent    int

	width, height int
	scroll        geometry.Point
	visuals       drag.Visuals

	rows   []Row
	byNode map[tree.NodeID]int

	nodeEls     map[tree.NodeID]*Element
	nodesEls    map[tree.NodesID]*Element
	segments    map[tree.NodeID][2]*Element
	placeholder *Element
}

// Option configures a Layout.
type Option func(*Layout)

// WithRowHeight sets the lines per row. Values below 2 are raised to 2.
func WithRowHeight(h int) Option {
	return func(l *Layout) { l.rowHeight = h }
}

// WithIndent sets the columns per depth level. Values below 2 are raised to 2.
func WithIndent(cols int) Option {
	return func(l *Layout) { l.indent = cols }
}

// WithSize sets the viewport size. A zero height means unbounded.
func WithSize(width, height int) Option {
	return func(l *Layout) { l.width, l.height = width, height }
}

// New lays out t. cfg supplies the class names put on elements.
func New(t *tree.Tree, cfg *drag.Config, opts ...Option) *Layout {
	if cfg == nil {
		def := drag.DefaultConfig()
		cfg = &def
	}
	l := &Layout{
		tree:      t,
		cfg:       cfg,
		rowHeight: DefaultRowHeight,
		indent:    DefaultIndent,
		nodeEls:   map[tree.NodeID]*Element{},
		nodesEls:  map[tree.NodesID]*Element{},
		segments:  map[tree.NodeID][2]*Element{},
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.rowHeight < 2 {
		l.rowHeight = 2
	}
	if l.indent < 2 {
		l.indent = 2
	}
	l.placeholder = &Element{layout: l, role: RolePlaceholder, classes: []string{cfg.PlaceholderClassName}}
	l.Refresh(drag.Visuals{})
	return l
}

// Refresh recomputes rows from the tree and the controller's visuals. The
// dragged subtree is left out and the placeholder takes its own row.
func (l *Layout) Refresh(v drag.Visuals) {
	l.visuals = v
	l.rows = nil
	l.byNode = map[tree.NodeID]int{}
	l.walk(l.tree.Root(), 0, nil)
	l.ScrollTo(l.scroll.Y)
}

func (l *Layout) walk(c *tree.Nodes, depth int, rails []bool) {
	v := l.visuals
	// A nil entry stands for the placeholder.
	var entries []*tree.Node
	for _, n := range c.Nodes() {
		if v.Placeholder.Anchor == drag.AnchorBefore && v.Placeholder.Node == n {
			entries = append(entries, nil)
		}
		if n != v.Source {
			entries = append(entries, n)
		}
		if v.Placeholder.Anchor == drag.AnchorAfter && v.Placeholder.Node == n {
			entries = append(entries, nil)
		}
	}
	if v.Placeholder.Anchor == drag.AnchorAppend && v.Placeholder.Nodes == c {
		entries = append(entries, nil)
	}

	for i, n := range entries {
		last := i == len(entries)-1
		prefix, rail := l.connectors(depth, rails, last)
		row := Row{
			Node:   n,
			Depth:  depth,
			Top:    len(l.rows) * l.rowHeight,
			Prefix: prefix,
			Rail:   rail,
			Left:   ansi.StringWidth(prefix),
		}
		if n == nil {
			l.rows = append(l.rows, row)
			continue
		}

		seg := l.segmentsFor(n)
		if n.ChildNodesCount() > 0 {
			row.FoldText = "▼ "
			if n.Collapsed {
				row.FoldText = "▶ "
			}
			row.Fold = seg[0]
		}
		row.Label = seg[1]
		l.byNode[n.ID] = len(l.rows)
		l.rows = append(l.rows, row)

		if children := n.Children(); children != nil && !n.Collapsed {
			next := rails
			if depth > 0 {
				next = append(append([]bool(nil), rails...), !last)
			}
			l.walk(children, depth+1, next)
		}
	}
}

func (l *Layout) connectors(depth int, rails []bool, last bool) (string, string) {
	if depth == 0 {
		return "", ""
	}
	pad := strings.Repeat(" ", l.indent-1)
	var b strings.Builder
	for _, open := range rails {
		if open {
			b.WriteString("│" + pad)
		} else {
			b.WriteString(" " + pad)
		}
	}
	base := b.String()
	if last {
		return base + "└" + pad, base + " " + pad
	}
	return base + "├" + pad, base + "│" + pad
}

func (l *Layout) segmentsFor(n *tree.Node) [2]*Element {
	if seg, ok := l.segments[n.ID]; ok {
		return seg
	}
	seg := [2]*Element{
		{layout: l, role: RoleFold, node: n, nodrag: true},
		{layout: l, role: RoleLabel, node: n, classes: []string{l.cfg.HandleClassName}, nodrag: n.Value.NoDrag},
	}
	l.segments[n.ID] = seg
	return seg
}

// Rows returns the laid out rows in display order.
func (l *Layout) Rows() []Row { return l.rows }

// RowHeight returns the lines per row.
func (l *Layout) RowHeight() int { return l.rowHeight }

// Size returns the viewport size.
func (l *Layout) Size() (int, int) { return l.width, l.height }

// SetSize resizes the viewport.
func (l *Layout) SetSize(width, height int) {
	l.width, l.height = width, height
	l.ScrollTo(l.scroll.Y)
}

// ContentHeight returns the total number of lines of all rows.
func (l *Layout) ContentHeight() int { return len(l.rows) * l.rowHeight }

// VisibleNodes returns the laid out nodes, placeholders skipped.
func (l *Layout) VisibleNodes() []*tree.Node {
	out := make([]*tree.Node, 0, len(l.rows))
	for _, r := range l.rows {
		if r.Node != nil {
			out = append(out, r.Node)
		}
	}
	return out
}

// ScrollTo moves the viewport to content line y, clamped to the content.
func (l *Layout) ScrollTo(y int) {
	limit := 0
	if l.height > 0 {
		limit = l.ContentHeight() - l.height
	}
	if y > limit {
		y = limit
	}
	if y < 0 {
		y = 0
	}
	l.scroll.Y = y
}

// ScrollBy moves the viewport by dy lines.
func (l *Layout) ScrollBy(dy int) { l.ScrollTo(l.scroll.Y + dy) }

// EnsureVisible scrolls the least amount that brings n's row into view.
func (l *Layout) EnsureVisible(n *tree.Node) {
	i, ok := l.byNode[n.ID]
	if !ok || l.height <= 0 {
		return
	}
	top := l.rows[i].Top
	switch {
	case top < l.scroll.Y:
		l.ScrollTo(top)
	case top+l.rowHeight > l.scroll.Y+l.height:
		l.ScrollTo(top + l.rowHeight - l.height)
	}
}

// Scroll returns the scroll offset.
func (l *Layout) Scroll() geometry.Point { return l.scroll }

// Element returns n's node element.
func (l *Layout) Element(n *tree.Node) geometry.Element { return l.nodeElement(n) }

// Bounds returns n's row in viewport coordinates. The node element runs
// from the end of the tree connectors to the right edge of the viewport.
func (l *Layout) Bounds(n *tree.Node) (geometry.Rect, bool) {
	i, ok := l.byNode[n.ID]
	if !ok {
		return geometry.Rect{}, false
	}
	r := l.rows[i]
	width := l.contentWidth(r)
	if l.width-r.Left > width {
		width = l.width - r.Left
	}
	return geometry.Rect{
		Width:  width,
		Height: l.rowHeight,
		Top:    r.Top - l.scroll.Y,
		Left:   r.Left - l.scroll.X,
	}, true
}

func (l *Layout) contentWidth(r Row) int {
	if r.Node == nil {
		return 0
	}
	return ansi.StringWidth(r.FoldText) + ansi.StringWidth(r.Node.Value.Label())
}

// NodeAt returns the node whose row covers the viewport point. Terminal
// rows span the full width, so any column of the row hits. Placeholder rows
// and the hidden source resolve to nil.
func (l *Layout) NodeAt(x, y int) *tree.Node {
	r, ok := l.rowAt(x, y)
	if !ok {
		return nil
	}
	return r.Node
}

// ElementAt returns the innermost element under the viewport point.
func (l *Layout) ElementAt(x, y int) (*Element, *tree.Node) {
	r, ok := l.rowAt(x, y)
	if !ok {
		return nil, nil
	}
	if r.Node == nil {
		return l.placeholder, nil
	}
	cx := x + l.scroll.X
	if cx < r.Left {
		return l.nodesElement(r.Node.Siblings()), r.Node.Parent()
	}
	col := cx - r.Left
	foldWidth := ansi.StringWidth(r.FoldText)
	if r.Fold != nil && col < foldWidth {
		return r.Fold, r.Node
	}
	if col < foldWidth+ansi.StringWidth(r.Node.Value.Label()) {
		return r.Label, r.Node
	}
	return l.nodeElement(r.Node), r.Node
}

func (l *Layout) rowAt(x, y int) (Row, bool) {
	if x < 0 || (l.width > 0 && x >= l.width) || y < 0 || (l.height > 0 && y >= l.height) {
		return Row{}, false
	}
	i := (y + l.scroll.Y) / l.rowHeight
	if i >= len(l.rows) {
		return Row{}, false
	}
	return l.rows[i], true
}
