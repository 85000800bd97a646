package tree

// Node is one rendered tree item. Parent, sibling and child references are
// identifiers resolved through the owning Tree; they never imply ownership.
type Node struct {
	ID        NodeID
	Value     *Item
	Index     int
	Collapsed bool

	parent   NodeID
	siblings NodesID
	children NodesID
	tree     *Tree
}

// Parent returns the node owning this node's collection, nil at the root.
func (n *Node) Parent() *Node { return n.tree.nodes[n.parent] }

// Siblings returns the collection this node belongs to, nil when detached.
func (n *Node) Siblings() *Nodes { return n.tree.collections[n.siblings] }

// Children returns this node's child collection, nil for leaves.
func (n *Node) Children() *Nodes { return n.tree.collections[n.children] }

// Attached reports whether the node currently belongs to a collection.
func (n *Node) Attached() bool { return n.siblings != 0 }

// IsSibling reports whether both nodes share the same parent node.
func (n *Node) IsSibling(other *Node) bool {
	return n.parent == other.parent
}

// IsChild reports whether other is a direct child of n.
func (n *Node) IsChild(other *Node) bool {
	children := n.Children()
	return children != nil && children.IndexOf(other) > -1
}

// Contains reports whether other is n or lies anywhere below n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent() {
		if cur == n {
			return true
		}
	}
	return false
}

// Prev returns the previous sibling, nil for the first node.
func (n *Node) Prev() *Node {
	siblings := n.Siblings()
	if siblings == nil || n.Index <= 0 {
		return nil
	}
	return siblings.At(n.Index - 1)
}

// ChildNodes returns the direct children in order.
func (n *Node) ChildNodes() []*Node {
	if children := n.Children(); children != nil {
		return children.Nodes()
	}
	return nil
}

// ChildNodesCount returns the number of direct children.
func (n *Node) ChildNodesCount() int {
	if children := n.Children(); children != nil {
		return children.Len()
	}
	return 0
}

// Accept asks the child collection whether source may land at destIndex.
// Leaves accept nothing.
func (n *Node) Accept(source *Node, destIndex int) bool {
	children := n.Children()
	return children != nil && children.Accept(source, destIndex)
}

// InsertNode inserts node among n's children.
func (n *Node) InsertNode(index int, node *Node) error {
	children := n.Children()
	if children == nil {
		return ErrIndexRange
	}
	return children.Insert(index, node)
}

// Remove takes the node out of its collection. It returns nil when the node
// is not attached.
func (n *Node) Remove() *Node {
	siblings := n.Siblings()
	if siblings == nil {
		return nil
	}
	return siblings.Remove(n)
}

// SetCollapsed updates the collapsed flag on the node and its item.
func (n *Node) SetCollapsed(collapsed bool) {
	n.Collapsed = collapsed
	n.Value.Collapsed = collapsed
}

func (n *Node) detach() {
	n.siblings = 0
	n.parent = 0
	n.Index = -1
}
