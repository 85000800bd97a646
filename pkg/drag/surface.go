package drag

import (
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// Surface is the host rendering layer as seen by the controller.
type Surface interface {
	// NodeAt returns the node whose element lies under the viewport point,
	// ignoring the drag preview and the hidden source. Nil when the point
	// is not over a tree node.
	NodeAt(x, y int) *tree.Node
	// Bounds returns the viewport-relative bounding box of a node's element.
	Bounds(n *tree.Node) (geometry.Rect, bool)
	// Element returns the element rendered for a node.
	Element(n *tree.Node) geometry.Element
	// Scroll returns the current scroll offset.
	Scroll() geometry.Point
}

// Anchor says where the placeholder sits relative to its reference.
type Anchor int

const (
	// AnchorNone means no placeholder is shown.
	AnchorNone Anchor = iota
	// AnchorBefore places the placeholder right before Placement.Node.
	AnchorBefore
	// AnchorAfter places the placeholder right after Placement.Node.
	AnchorAfter
	// AnchorAppend places the placeholder at the end of Placement.Nodes.
	AnchorAppend
)

// Placement positions the placeholder element.
type Placement struct {
	Anchor Anchor
	Node   *tree.Node
	Nodes  *tree.Nodes
}

// Visuals is what the host draws while a drag is in flight.
type Visuals struct {
	// Source is the dragged node, moved into the preview. Its original slot
	// holds the hidden placeholder.
	Source *tree.Node
	// Placeholder marks the candidate drop position.
	Placeholder Placement
	// Preview is the page position of the floating preview's top-left corner.
	Preview geometry.Point
	// Size is the width and height of the source element.
	Size geometry.Rect
}

// Active reports whether a drag is being drawn.
func (v Visuals) Active() bool { return v.Source != nil }
