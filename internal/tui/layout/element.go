package layout

import (
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// Role tells what part of the widget an element stands for.
type Role int

const (
	RoleNodes Role = iota
	RoleNode
	RoleFold
	RoleLabel
	RolePlaceholder
)

// Element is one box in the widget's element chain:
// segment -> node -> collection -> owner node -> ... -> root collection.
// Parents resolve through the live tree, so a node's element keeps its
// identity when the node moves.
type Element struct {
	layout  *Layout
	role    Role
	node    *tree.Node
	nodes   *tree.Nodes
	classes []string
	nodrag  bool
}

// Role returns the element's role.
func (e *Element) Role() Role { return e.role }

// Node returns the node the element belongs to, nil for collections and
// placeholders.
func (e *Element) Node() *tree.Node { return e.node }

// Nodes returns the collection for RoleNodes elements.
func (e *Element) Nodes() *tree.Nodes { return e.nodes }

// Classes returns the element's class list.
func (e *Element) Classes() []string { return e.classes }

func (e *Element) Parent() geometry.Element {
	var parent *Element
	switch e.role {
	case RoleFold, RoleLabel:
		parent = e.layout.nodeElement(e.node)
	case RoleNode:
		if siblings := e.node.Siblings(); siblings != nil {
			parent = e.layout.nodesElement(siblings)
		}
	case RoleNodes:
		if owner := e.nodes.Owner(); owner != nil {
			parent = e.layout.nodeElement(owner)
		}
	}
	if parent == nil {
		return nil
	}
	return parent
}

func (e *Element) HasMarker(m geometry.Marker) bool {
	switch m {
	case geometry.NoDrag:
		return e.nodrag
	case geometry.NoDrop:
		return e.role == RoleNodes && e.nodes.NoDrop
	}
	return false
}

func (e *Element) HasClass(class string) bool {
	if class == "" {
		return false
	}
	for _, c := range e.classes {
		if c == class {
			return true
		}
	}
	return false
}

func (l *Layout) nodeElement(n *tree.Node) *Element {
	if el, ok := l.nodeEls[n.ID]; ok {
		return el
	}
	el := &Element{layout: l, role: RoleNode, node: n, classes: []string{l.cfg.NodeClassName}}
	l.nodeEls[n.ID] = el
	return el
}

func (l *Layout) nodesElement(c *tree.Nodes) *Element {
	if el, ok := l.nodesEls[c.ID]; ok {
		return el
	}
	el := &Element{layout: l, role: RoleNodes, nodes: c, classes: []string{l.cfg.NodesClassName}}
	l.nodesEls[c.ID] = el
	return el
}
