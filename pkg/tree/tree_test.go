package tree

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []*Item {
	return []*Item{
		{ID: "a", Title: "A", Children: []*Item{
			{ID: "a1", Title: "A1"},
			{ID: "a2", Title: "A2"},
		}},
		{ID: "b", Title: "B"},
		{ID: "c", Title: "C", Leaf: true},
	}
}

func ids(items []*Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestNewRendersModel(t *testing.T) {
	tr := New(sample())
	require.NoError(t, tr.Check())

	root := tr.Root()
	require.Equal(t, 3, root.Len())
	assert.Nil(t, root.Owner())

	a := tr.Find("a")
	require.NotNil(t, a)
	assert.Equal(t, 0, a.Index)
	assert.Nil(t, a.Parent())
	assert.Equal(t, 2, a.ChildNodesCount())

	a2 := tr.Find("a2")
	require.NotNil(t, a2)
	assert.Equal(t, a, a2.Parent())
	assert.Equal(t, 1, a2.Index)
	assert.Equal(t, tr.Find("a1"), a2.Prev())
	assert.True(t, a.IsChild(a2))
	assert.False(t, a.IsChild(tr.Find("b")))
	assert.True(t, a.Contains(a2))
	assert.False(t, a2.Contains(a))

	c := tr.Find("c")
	assert.Nil(t, c.Children(), "leaf items have no child collection")
	assert.False(t, c.Accept(a, 0))

	assert.True(t, tr.Find("b").IsSibling(c))
	assert.False(t, a2.IsSibling(c))
}

func TestRemove(t *testing.T) {
	tr := New(sample())
	var events []RenderEvent
	tr.OnRender(func(ev RenderEvent) { events = append(events, ev) })

	b := tr.Find("b")
	removed := tr.Root().Remove(b)
	require.Same(t, b, removed)
	assert.Equal(t, []string{"a", "c"}, ids(tr.Items()))
	assert.False(t, b.Attached())
	assert.Equal(t, 1, tr.Find("c").Index)
	require.NoError(t, tr.Check())

	require.Len(t, events, 1)
	assert.Equal(t, OpRemove, events[0].Op)
	assert.Equal(t, 1, events[0].Index)
}

func TestRemoveMissingNodeLeavesCollectionUntouched(t *testing.T) {
	tr := New(sample())
	root := tr.Root()
	beforeModel := root.Model()
	beforeNodes := root.Nodes()

	a1 := tr.Find("a1")
	assert.Nil(t, root.Remove(a1))

	assert.Equal(t, beforeModel, root.Model())
	assert.Equal(t, beforeNodes, root.Nodes())
	assert.True(t, a1.Attached())
	require.NoError(t, tr.Check())

	detached := tr.Find("b")
	require.NotNil(t, detached.Remove())
	assert.Nil(t, detached.Remove(), "second remove finds nothing")
}

func TestInsertReusesNodeIdentity(t *testing.T) {
	tr := New(sample())
	var events []RenderEvent
	tr.OnRender(func(ev RenderEvent) { events = append(events, ev) })

	b := tr.Find("b")
	require.NotNil(t, b.Remove())
	a := tr.Find("a")
	require.NoError(t, a.InsertNode(1, b))

	assert.Same(t, b, tr.Find("b"))
	assert.Equal(t, a, b.Parent())
	assert.Equal(t, 1, b.Index)
	assert.Equal(t, []string{"a1", "b", "a2"}, ids(tr.Items()[0].Children))
	assert.Equal(t, 2, tr.Find("a2").Index)
	require.NoError(t, tr.Check())
	require.Len(t, events, 2)
	assert.Equal(t, OpInsert, events[1].Op)
}

func TestInsertErrors(t *testing.T) {
	tr := New(sample())
	b := tr.Find("b")

	err := tr.Root().Insert(0, b)
	assert.ErrorIs(t, err, ErrAttached)

	require.NotNil(t, b.Remove())
	err = tr.Root().Insert(5, b)
	assert.ErrorIs(t, err, ErrIndexRange)
	err = tr.Find("c").InsertNode(0, b)
	assert.ErrorIs(t, err, ErrIndexRange)
	require.NoError(t, tr.Check())
}

func TestAcceptPolicies(t *testing.T) {
	items := sample()
	items[0].NoDrop = true
	tr := New(items, WithRootNoDrop(true))

	a := tr.Find("a")
	b := tr.Find("b")
	assert.False(t, a.Accept(b, 0), "nodrop child collection rejects")
	assert.False(t, tr.Root().Accept(b, 0), "nodrop root rejects")

	tr.Root().SetAccept(func(source *Node, dest *Nodes, destIndex int) bool {
		return destIndex == 0
	})
	assert.True(t, tr.Root().Accept(b, 0))
	assert.False(t, tr.Root().Accept(b, 1))

	tr.Root().SetAccept(nil)
	assert.False(t, tr.Root().Accept(b, 0))

	all := New(sample(), WithAccept(func(*Node, *Nodes, int) bool { return false }))
	assert.False(t, all.Find("a").Accept(all.Find("b"), 0))
}

func TestStructuralMirrorUnderRandomMutations(t *testing.T) {
	tr := New(sample())
	rng := rand.New(rand.NewSource(7))

	var collections []*Nodes
	tr.Walk(func(n *Node, _ int) bool {
		if c := n.Children(); c != nil {
			collections = append(collections, c)
		}
		return true
	})
	collections = append(collections, tr.Root())

	for step := 0; step < 200; step++ {
		var attached []*Node
		tr.Walk(func(n *Node, _ int) bool {
			attached = append(attached, n)
			return true
		})
		n := attached[rng.Intn(len(attached))]
		require.NotNil(t, n.Remove())

		var targets []*Nodes
		for _, c := range collections {
			if owner := c.Owner(); owner == nil || !n.Contains(owner) {
				targets = append(targets, c)
			}
		}
		dest := targets[rng.Intn(len(targets))]
		require.NoError(t, dest.Insert(rng.Intn(dest.Len()+1), n))
		require.NoError(t, tr.Check(), "step %d", step)
	}
}

func TestEncodeDecodeOutline(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sample()))

	items, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, ids(items))
	assert.True(t, items[2].Leaf)

	assert.Equal(t, []string{
		"├─ A",
		"│  ├─ A1",
		"│  └─ A2",
		"├─ B",
		"└─ C",
	}, Outline(items))

	empty, err := Decode(bytes.NewReader(nil))
	require.NoError(t, err)
	assert.Nil(t, empty)
}
