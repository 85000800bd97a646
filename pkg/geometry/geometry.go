// Package geometry holds stateless pointer and element geometry helpers for
// the drag engine: event normalisation, marker lookups, bounding boxes and
// movement tracking.
package geometry

// Point is a coordinate pair in cells.
type Point struct {
	X, Y int
}

// Rect is a bounding box.
type Rect struct {
	Width, Height int
	Top, Left     int
}

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.Left && p.X < r.Left+r.Width && p.Y >= r.Top && p.Y < r.Top+r.Height
}

// Offset turns a viewport-relative bounding box into a page-relative one by
// adding the current scroll offset.
func Offset(viewport Rect, scroll Point) Rect {
	return Rect{
		Width:  viewport.Width,
		Height: viewport.Height,
		Top:    viewport.Top + scroll.Y,
		Left:   viewport.Left + scroll.X,
	}
}

// Marker is an attribute marker carried by host elements.
type Marker string

const (
	// NoDrag suppresses drag start on the element and everything inside it.
	NoDrag Marker = "nodrag"
	// NoDrop makes a collection reject drops under the default policy.
	NoDrop Marker = "nodrop"
)

// Element is the host's view of a rendered element.
type Element interface {
	Parent() Element
	HasMarker(m Marker) bool
	HasClass(class string) bool
}

// Nodrag reports whether target, or an ancestor below boundary, carries the
// nodrag marker. The boundary element itself is not inspected.
func Nodrag(target, boundary Element) bool {
	for el := target; el != nil && el != boundary; el = el.Parent() {
		if el.HasMarker(NoDrag) {
			return true
		}
	}
	return false
}

// IsHandle reports whether target lies inside an element carrying class,
// searching up to and including boundary. An empty class makes the whole
// node a handle.
func IsHandle(target, boundary Element, class string) bool {
	if class == "" {
		return true
	}
	for el := target; el != nil; el = el.Parent() {
		if el.HasClass(class) {
			return true
		}
		if el == boundary {
			break
		}
	}
	return false
}
