package tree

import "fmt"

// Nodes is an ordered sibling collection mirroring one model array.
type Nodes struct {
	ID     NodesID
	NoDrop bool

	owner  NodeID
	model  *[]*Item
	nodes  []NodeID
	accept AcceptFunc
	tree   *Tree
}

// Owner returns the node whose children this is, nil for the root.
func (c *Nodes) Owner() *Node { return c.tree.nodes[c.owner] }

// Len returns the number of nodes.
func (c *Nodes) Len() int { return len(c.nodes) }

// At returns the node at i, nil when out of range.
func (c *Nodes) At(i int) *Node {
	if i < 0 || i >= len(c.nodes) {
		return nil
	}
	return c.tree.nodes[c.nodes[i]]
}

// Nodes returns a copy of the collection in order.
func (c *Nodes) Nodes() []*Node {
	out := make([]*Node, len(c.nodes))
	for i, id := range c.nodes {
		out[i] = c.tree.nodes[id]
	}
	return out
}

// Model returns a copy of the underlying model array.
func (c *Nodes) Model() []*Item {
	return append([]*Item(nil), (*c.model)...)
}

// IndexOf returns the position of n, or -1.
func (c *Nodes) IndexOf(n *Node) int {
	if n == nil {
		return -1
	}
	for i, id := range c.nodes {
		if id == n.ID {
			return i
		}
	}
	return -1
}

// SetAccept installs a collection-level acceptance policy. A nil fn restores
// the tree default.
func (c *Nodes) SetAccept(fn AcceptFunc) { c.accept = fn }

// Accept reports whether source may be dropped at destIndex.
func (c *Nodes) Accept(source *Node, destIndex int) bool {
	fn := c.accept
	if fn == nil {
		fn = c.tree.accept
	}
	return fn(source, c, destIndex)
}

// Insert splices node's item into the model array at index and re-renders
// the collection.
func (c *Nodes) Insert(index int, node *Node) error {
	if node.Attached() {
		return fmt.Errorf("insert %q: %w", node.Value.Label(), ErrAttached)
	}
	model := *c.model
	if index < 0 || index > len(model) {
		return fmt.Errorf("insert %q at %d of %d: %w", node.Value.Label(), index, len(model), ErrIndexRange)
	}
	model = append(model, nil)
	copy(model[index+1:], model[index:])
	model[index] = node.Value
	*c.model = model
	c.tree.render(c)
	c.tree.emit(RenderEvent{Op: OpInsert, Nodes: c.ID, Index: index, Item: node.Value})
	return nil
}

// Remove splices n out of the collection and the model array at the same
// index. It returns nil and changes nothing when n is not in the collection.
func (c *Nodes) Remove(n *Node) *Node {
	i := c.IndexOf(n)
	if i < 0 {
		return nil
	}
	model := *c.model
	*c.model = append(model[:i:i], model[i+1:]...)
	c.nodes = append(c.nodes[:i:i], c.nodes[i+1:]...)
	for j := i; j < len(c.nodes); j++ {
		c.tree.nodes[c.nodes[j]].Index = j
	}
	n.detach()
	c.tree.emit(RenderEvent{Op: OpRemove, Nodes: c.ID, Index: i, Item: n.Value})
	return n
}
