package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

func items(ids ...string) []*tree.Item {
	out := make([]*tree.Item, len(ids))
	for i, id := range ids {
		out[i] = &tree.Item{ID: id}
	}
	return out
}

func labels(items []*tree.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func nested() []*tree.Item {
	return []*tree.Item{
		{ID: "a", Children: []*tree.Item{
			{ID: "a1", Children: []*tree.Item{{ID: "x"}}},
			{ID: "a2"},
		}},
		{ID: "b"},
	}
}

func TestRowsAndConnectors(t *testing.T) {
	tr := tree.New(nested())
	l := New(tr, nil, WithSize(40, 0))

	rows := l.Rows()
	require.Len(t, rows, 5)

	tests := []struct {
		id     string
		top    int
		depth  int
		prefix string
		rail   string
		fold   string
	}{
		{id: "a", top: 0, depth: 0, prefix: "", rail: "", fold: "▼ "},
		{id: "a1", top: 2, depth: 1, prefix: "├ ", rail: "│ ", fold: "▼ "},
		{id: "x", top: 4, depth: 2, prefix: "│ └ ", rail: "│   "},
		{id: "a2", top: 6, depth: 1, prefix: "└ ", rail: "  "},
		{id: "b", top: 8, depth: 0},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			r := rows[i]
			assert.Equal(t, tt.id, r.Node.Value.ID)
			assert.Equal(t, tt.top, r.Top)
			assert.Equal(t, tt.depth, r.Depth)
			assert.Equal(t, tt.prefix, r.Prefix)
			assert.Equal(t, tt.rail, r.Rail)
			assert.Equal(t, tt.fold, r.FoldText)
			assert.Equal(t, tt.fold != "", r.Fold != nil)
		})
	}
	assert.Equal(t, 10, l.ContentHeight())
}

func TestCollapsedChildrenAreNotLaidOut(t *testing.T) {
	tr := tree.New(nested())
	tr.Find("a").SetCollapsed(true)
	l := New(tr, nil)

	require.Len(t, l.Rows(), 2)
	assert.Equal(t, "▶ ", l.Rows()[0].FoldText)
	_, ok := l.Bounds(tr.Find("a1"))
	assert.False(t, ok)
}

func TestRowHeightAndIndentFloors(t *testing.T) {
	tr := tree.New(nested())
	l := New(tr, nil, WithRowHeight(1), WithIndent(0))
	assert.Equal(t, 2, l.RowHeight())
	assert.Equal(t, "├ ", l.Rows()[1].Prefix)

	l = New(tr, nil, WithRowHeight(3), WithIndent(3))
	assert.Equal(t, 3, l.RowHeight())
	assert.Equal(t, "├  ", l.Rows()[1].Prefix)
	assert.Equal(t, 3, l.Rows()[1].Top)
}

func TestHitTesting(t *testing.T) {
	tr := tree.New(nested())
	l := New(tr, nil, WithSize(40, 6))
	a, a1 := tr.Find("a"), tr.Find("a1")

	assert.Same(t, a, l.NodeAt(0, 0))
	assert.Same(t, a, l.NodeAt(39, 1))
	assert.Same(t, a1, l.NodeAt(0, 2))
	assert.Nil(t, l.NodeAt(40, 0), "outside the viewport")
	assert.Nil(t, l.NodeAt(0, 6), "below the viewport")
	assert.Nil(t, l.NodeAt(-1, 0))

	el, n := l.ElementAt(0, 0)
	assert.Equal(t, RoleFold, el.Role())
	assert.Same(t, a, n)

	el, n = l.ElementAt(2, 1)
	assert.Equal(t, RoleLabel, el.Role())
	assert.Same(t, a, n)

	el, n = l.ElementAt(20, 0)
	assert.Equal(t, RoleNode, el.Role())
	assert.Same(t, a, n)

	el, n = l.ElementAt(0, 2)
	assert.Equal(t, RoleNodes, el.Role())
	assert.Same(t, a.Children(), el.Nodes())
	assert.Same(t, a, n, "connector area belongs to the parent node")

	b, ok := l.Bounds(a1)
	require.True(t, ok)
	assert.Equal(t, geometry.Rect{Width: 38, Height: 2, Top: 2, Left: 2}, b)

	l.ScrollTo(4)
	assert.Equal(t, geometry.Point{Y: 4}, l.Scroll())
	assert.Equal(t, "x", l.NodeAt(0, 0).Value.ID)
	b, _ = l.Bounds(a1)
	assert.Equal(t, -2, b.Top)

	l.ScrollTo(100)
	assert.Equal(t, 4, l.Scroll().Y, "clamped to content")
}

func TestEnsureVisible(t *testing.T) {
	tr := tree.New(nested())
	l := New(tr, nil, WithSize(40, 4))

	l.EnsureVisible(tr.Find("a2"))
	assert.Equal(t, 4, l.Scroll().Y)
	l.EnsureVisible(tr.Find("a"))
	assert.Equal(t, 0, l.Scroll().Y)
}

func TestElementChain(t *testing.T) {
	cfg := drag.DefaultConfig()
	items := nested()
	items[0].Children[1].NoDrag = true
	items[0].NoDrop = true
	tr := tree.New(items)
	l := New(tr, &cfg)
	a, a1, a2 := tr.Find("a"), tr.Find("a1"), tr.Find("a2")

	label := l.Rows()[1].Label
	chain := []geometry.Element{label}
	for el := label.Parent(); el != nil; el = el.Parent() {
		chain = append(chain, el)
	}
	require.Len(t, chain, 5)
	assert.True(t, chain[0].HasClass(cfg.HandleClassName))
	assert.Equal(t, l.Element(a1), chain[1])
	assert.True(t, chain[1].HasClass(cfg.NodeClassName))
	assert.True(t, chain[2].HasClass(cfg.NodesClassName))
	assert.True(t, chain[2].HasMarker(geometry.NoDrop), "a's children carry nodrop")
	assert.Equal(t, l.Element(a), chain[3])
	assert.False(t, chain[4].HasMarker(geometry.NoDrop))

	assert.True(t, geometry.IsHandle(label, l.Element(a1), cfg.HandleClassName))
	assert.False(t, geometry.Nodrag(label, l.Element(a1)))
	assert.True(t, geometry.Nodrag(l.Rows()[1].Fold, l.Element(a1)))
	assert.True(t, geometry.Nodrag(l.Rows()[3].Label, l.Element(a2)))
}

func TestDragVisuals(t *testing.T) {
	tr := tree.New(nested())
	l := New(tr, nil, WithSize(40, 0))
	a1, b := tr.Find("a1"), tr.Find("b")

	ids := func() []string {
		var out []string
		for _, r := range l.Rows() {
			if r.Placeholder() {
				out = append(out, "_")
				continue
			}
			out = append(out, r.Node.Value.ID)
		}
		return out
	}

	l.Refresh(drag.Visuals{Source: a1, Placeholder: drag.Placement{Anchor: drag.AnchorAfter, Node: a1}})
	assert.Equal(t, []string{"a", "_", "a2", "b"}, ids(), "source subtree replaced by the placeholder")
	assert.Nil(t, l.NodeAt(0, 2))
	_, ok := l.Bounds(a1)
	assert.False(t, ok)

	l.Refresh(drag.Visuals{Source: a1, Placeholder: drag.Placement{Anchor: drag.AnchorBefore, Node: b}})
	assert.Equal(t, []string{"a", "a2", "_", "b"}, ids())
	assert.Equal(t, 0, l.Rows()[2].Depth)

	l.Refresh(drag.Visuals{Source: b, Placeholder: drag.Placement{Anchor: drag.AnchorAppend, Nodes: a1.Children()}})
	assert.Equal(t, []string{"a", "a1", "x", "_", "a2"}, ids())
	assert.Equal(t, 2, l.Rows()[3].Depth)
	assert.Equal(t, "│ └ ", l.Rows()[3].Prefix)

	el, n := l.ElementAt(4, 6)
	assert.Equal(t, RolePlaceholder, el.Role())
	assert.Nil(t, n)

	l.Refresh(drag.Visuals{})
	assert.Equal(t, []string{"a", "a1", "x", "a2", "b"}, ids())
}

// host replays gestures the way the terminal widget does: events bubble
// from the innermost node and the layout is refreshed after each one.
type host struct {
	t    *testing.T
	tree *tree.Tree
	l    *Layout
	ctrl *drag.Controller
	id   uint64
}

func newHost(t *testing.T, items []*tree.Item) *host {
	cfg := drag.DefaultConfig()
	cfg.DragStartThreshold = 0
	cfg.LevelChangeThreshold = 3
	tr := tree.New(items)
	l := New(tr, &cfg, WithSize(40, 0))
	return &host{t: t, tree: tr, l: l, ctrl: drag.NewController(tr, l, &cfg)}
}

func (h *host) send(typ geometry.EventType, x, y int) bool {
	h.id++
	e := geometry.Event{ID: h.id, Type: typ, Button: geometry.ButtonPrimary, X: x, Y: y}
	claimed := false
	if typ == geometry.PointerDown {
		el, n := h.l.ElementAt(x, y)
		if el != nil {
			e.Target = el
		}
		for cur := n; cur != nil; cur = cur.Parent() {
			if h.ctrl.PointerDown(e, cur) {
				claimed = true
			}
		}
	} else {
		claimed = h.ctrl.Dispatch(e, nil)
	}
	h.l.Refresh(h.ctrl.Visuals())
	return claimed
}

func TestGestureReorder(t *testing.T) {
	h := newHost(t, items("a", "b", "c"))

	require.True(t, h.send(geometry.PointerDown, 0, 0))
	h.send(geometry.PointerMove, 0, 1)
	h.send(geometry.PointerMove, 0, 3)
	assert.Equal(t, drag.AnchorAfter, h.ctrl.Visuals().Placeholder.Anchor)
	assert.Equal(t, "b", h.ctrl.Visuals().Placeholder.Node.Value.ID)
	assert.True(t, h.l.Rows()[1].Placeholder())

	h.send(geometry.PointerUp, 0, 3)
	assert.Equal(t, []string{"b", "a", "c"}, labels(h.tree.Items()))
	assert.Len(t, h.l.Rows(), 3)
	require.NoError(t, h.tree.Check())
}

func TestGestureNest(t *testing.T) {
	h := newHost(t, []*tree.Item{{ID: "a", Children: []*tree.Item{}}, {ID: "b"}})

	require.True(t, h.send(geometry.PointerDown, 0, 2))
	for x := 1; x <= 4; x++ {
		h.send(geometry.PointerMove, x, 2)
	}
	require.Len(t, h.l.Rows(), 2)
	assert.True(t, h.l.Rows()[1].Placeholder())
	assert.Equal(t, 1, h.l.Rows()[1].Depth)

	h.send(geometry.PointerUp, 4, 2)
	require.Len(t, h.tree.Items(), 1)
	assert.Equal(t, []string{"b"}, labels(h.tree.Items()[0].Children))
}

func TestGestureStartGuards(t *testing.T) {
	h := newHost(t, tree.Demo())

	assert.False(t, h.send(geometry.PointerDown, 0, 0), "fold indicator is nodrag")
	assert.False(t, h.send(geometry.PointerDown, 30, 0), "outside the handle")

	taxes := h.tree.Find("taxes")
	b, ok := h.l.Bounds(taxes)
	require.True(t, ok)
	assert.False(t, h.send(geometry.PointerDown, b.Left, b.Top), "nodrag item")
	assert.Equal(t, drag.StateIdle, h.ctrl.State())

	b, _ = h.l.Bounds(h.tree.Find("call-bank"))
	assert.True(t, h.send(geometry.PointerDown, b.Left, b.Top))
	assert.Equal(t, "call-bank", h.ctrl.Session().Source.Value.ID)
}
