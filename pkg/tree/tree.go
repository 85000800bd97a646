package tree

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

var (
	// ErrAttached is returned when inserting a node that still belongs to a collection.
	ErrAttached = errors.New("node is attached to a collection")
	// ErrNotAttached is returned for operations on a detached node.
	ErrNotAttached = errors.New("node is not attached to a collection")
	// ErrIndexRange is returned when an insert index falls outside the collection.
	ErrIndexRange = errors.New("index out of range")
)

// NodeID identifies a Node within its Tree. Zero means "none".
type NodeID int

// NodesID identifies a sibling collection within its Tree. Zero means "none".
type NodesID int

// AcceptFunc decides whether dest accepts source at destIndex.
type AcceptFunc func(source *Node, dest *Nodes, destIndex int) bool

// DefaultAccept rejects collections carrying the nodrop marker.
func DefaultAccept(_ *Node, dest *Nodes, _ int) bool {
	return !dest.NoDrop
}

// Op is the kind of model mutation carried by a RenderEvent.
type Op int

const (
	OpInsert Op = iota
	OpRemove
)

func (o Op) String() string {
	if o == OpInsert {
		return "insert"
	}
	return "remove"
}

// RenderEvent is emitted after a model array changed and the affected
// collection has been re-rendered.
type RenderEvent struct {
	Op    Op
	Nodes NodesID
	Index int
	Item  *Item
}

// Tree owns every Node and Nodes record. Relationships between records are
// stored as identifiers and resolved through the Tree.
type Tree struct {
	root        []*Item
	nodes       map[NodeID]*Node
	collections map[NodesID]*Nodes
	byItem      map[*Item]NodeID
	rootID      NodesID
	lastNode    NodeID
	lastNodes   NodesID
	accept      AcceptFunc
	listeners   []func(RenderEvent)
	logger      *logrus.Entry
}

// Option configures a Tree.
type Option func(*Tree)

// WithLogger sets the logger used for mutation tracing.
func WithLogger(logger *logrus.Entry) Option {
	return func(t *Tree) { t.logger = logger }
}

// WithAccept replaces the default acceptance policy for every collection
// that has no policy of its own.
func WithAccept(fn AcceptFunc) Option {
	return func(t *Tree) { t.accept = fn }
}

// WithRootNoDrop marks the root collection with the nodrop marker.
func WithRootNoDrop(nodrop bool) Option {
	return func(t *Tree) { t.Root().NoDrop = nodrop }
}

// New renders items into a Tree. The slice is adopted, not copied: committed
// moves are visible through Items().
func New(items []*Item, opts ...Option) *Tree {
	t := &Tree{
		root:        items,
		nodes:       make(map[NodeID]*Node),
		collections: make(map[NodesID]*Nodes),
		byItem:      make(map[*Item]NodeID),
		accept:      DefaultAccept,
	}
	root := t.newNodes(0, &t.root, false)
	t.rootID = root.ID
	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = logrus.NewEntry(logrus.New())
	}
	t.logger = t.logger.WithField("sub-component", "tree")
	t.render(root)
	return t
}

// Items returns the root model array.
func (t *Tree) Items() []*Item { return t.root }

// Root returns the root sibling collection.
func (t *Tree) Root() *Nodes { return t.collections[t.rootID] }

// Node resolves an identifier; nil if unknown.
func (t *Tree) Node(id NodeID) *Node { return t.nodes[id] }

// Nodes resolves a collection identifier; nil if unknown.
func (t *Tree) Nodes(id NodesID) *Nodes { return t.collections[id] }

// NodeFor returns the node rendered for item, or nil.
func (t *Tree) NodeFor(item *Item) *Node { return t.nodes[t.byItem[item]] }

// Find returns the first node in tree order whose item ID equals id.
func (t *Tree) Find(id string) *Node {
	var found *Node
	t.Walk(func(n *Node, _ int) bool {
		if n.Value.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// OnRender registers a listener for render events.
func (t *Tree) OnRender(fn func(RenderEvent)) {
	t.listeners = append(t.listeners, fn)
}

// Walk visits attached nodes depth-first in display order. Returning false
// from fn stops the walk.
func (t *Tree) Walk(fn func(n *Node, depth int) bool) {
	var walk func(c *Nodes, depth int) bool
	walk = func(c *Nodes, depth int) bool {
		for _, n := range c.Nodes() {
			if !fn(n, depth) {
				return false
			}
			if children := n.Children(); children != nil {
				if !walk(children, depth+1) {
					return false
				}
			}
		}
		return true
	}
	walk(t.Root(), 0)
}

// Check verifies that every collection mirrors its model array and that
// every node's index matches its position.
func (t *Tree) Check() error {
	for _, c := range t.collections {
		model := *c.model
		if len(model) != len(c.nodes) {
			return fmt.Errorf("collection %d: %d nodes for %d items", c.ID, len(c.nodes), len(model))
		}
		for i, id := range c.nodes {
			n := t.nodes[id]
			if n.Value != model[i] {
				return fmt.Errorf("collection %d: node %d at %d does not match model", c.ID, id, i)
			}
			if n.Index != i {
				return fmt.Errorf("collection %d: node %d has index %d at position %d", c.ID, id, n.Index, i)
			}
			if n.siblings != c.ID || n.parent != c.owner {
				return fmt.Errorf("collection %d: node %d points elsewhere", c.ID, id)
			}
		}
	}
	return nil
}

func (t *Tree) newNodes(owner NodeID, model *[]*Item, nodrop bool) *Nodes {
	t.lastNodes++
	c := &Nodes{ID: t.lastNodes, NoDrop: nodrop, owner: owner, model: model, tree: t}
	t.collections[c.ID] = c
	return c
}

// mount returns the node for item, creating it and its subtree when the
// item is rendered for the first time.
func (t *Tree) mount(item *Item) *Node {
	if id, ok := t.byItem[item]; ok {
		return t.nodes[id]
	}
	t.lastNode++
	n := &Node{ID: t.lastNode, Value: item, Index: -1, Collapsed: item.Collapsed, tree: t}
	t.nodes[n.ID] = n
	t.byItem[item] = n.ID
	if !item.Leaf {
		if item.Children == nil {
			item.Children = []*Item{}
		}
		children := t.newNodes(n.ID, &item.Children, item.NoDrop)
		n.children = children.ID
		t.render(children)
	}
	return n
}

// render re-synchronises c.nodes with its model array.
func (t *Tree) render(c *Nodes) {
	model := *c.model
	ids := make([]NodeID, 0, len(model))
	for i, item := range model {
		n := t.mount(item)
		n.Index = i
		n.siblings = c.ID
		n.parent = c.owner
		ids = append(ids, n.ID)
	}
	for _, old := range c.nodes {
		if n := t.nodes[old]; n.siblings == c.ID && !containsID(ids, old) {
			n.detach()
		}
	}
	c.nodes = ids
}

func (t *Tree) emit(ev RenderEvent) {
	t.logger.WithFields(logrus.Fields{
		"op":    ev.Op.String(),
		"nodes": ev.Nodes,
		"index": ev.Index,
	}).Debug("model changed")
	for _, fn := range t.listeners {
		fn(ev)
	}
}

func containsID(ids []NodeID, id NodeID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
