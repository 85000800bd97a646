package drag

import (
	"github.com/sirupsen/logrus"

	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

// State is the controller's gesture state.
type State int

const (
	StateIdle State = iota
	// StatePending means a handle was pressed and the pointer has not yet
	// travelled DragStartThreshold cells.
	StatePending
	StateDragging
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDragging:
		return "dragging"
	}
	return "idle"
}

// Drop describes how a gesture ended.
type Drop struct {
	Source    *tree.Node
	From      *tree.Nodes
	FromIndex int
	To        *tree.Nodes
	ToIndex   int
	Cancelled bool
	Err       error
}

// Moved reports whether the drop changed the source's position.
func (d Drop) Moved() bool {
	return !d.Cancelled && d.Err == nil && (d.From != d.To || d.FromIndex != d.ToIndex)
}

// Controller runs pointer gestures against one tree. It is not safe for
// concurrent use; the host calls it from its event loop.
type Controller struct {
	cfg     *Config
	tree    *tree.Tree
	surface Surface
	logger  *logrus.Entry
	onDrop  []func(Drop)

	state   State
	claimed uint64
	pending *tree.Node
	press   geometry.Point

	session     *Session
	pos         *geometry.PositionState
	firstMoving bool
	visuals     Visuals
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithControllerLogger sets the logger for gesture tracing.
func WithControllerLogger(logger *logrus.Entry) ControllerOption {
	return func(c *Controller) { c.logger = logger }
}

// WithDropHandler registers fn to run after every gesture ends.
func WithDropHandler(fn func(Drop)) ControllerOption {
	return func(c *Controller) { c.onDrop = append(c.onDrop, fn) }
}

// NewController binds a controller to a tree and its surface. A nil cfg
// uses DefaultConfig.
func NewController(t *tree.Tree, surface Surface, cfg *Config, opts ...ControllerOption) *Controller {
	if cfg == nil {
		def := DefaultConfig()
		cfg = &def
	}
	c := &Controller{cfg: cfg, tree: t, surface: surface}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logrus.NewEntry(logrus.New())
	}
	c.logger = c.logger.WithField("sub-component", "drag")
	return c
}

// Config returns the controller's settings.
func (c *Controller) Config() *Config { return c.cfg }

// State returns the gesture state.
func (c *Controller) State() State { return c.state }

// Dragging reports whether a session is in flight.
func (c *Controller) Dragging() bool { return c.state == StateDragging }

// Session returns the live session, nil when not dragging.
func (c *Controller) Session() *Session { return c.session }

// Visuals returns what the host should draw.
func (c *Controller) Visuals() Visuals { return c.visuals }

// Claimed reports whether the event dispatch id already belongs to a gesture.
func (c *Controller) Claimed(id uint64) bool {
	return id != 0 && id == c.claimed
}

// Dispatch routes an event to the matching handler. n is the node whose
// handler receives start events and is ignored for the rest.
func (c *Controller) Dispatch(e geometry.Event, n *tree.Node) bool {
	switch e.Type {
	case geometry.PointerDown, geometry.TouchStart:
		return c.PointerDown(e, n)
	case geometry.PointerMove, geometry.TouchMove:
		return c.PointerMove(e)
	case geometry.PointerUp, geometry.TouchEnd, geometry.TouchCancel:
		return c.PointerUp(e)
	case geometry.PointerLeave:
		return c.PointerLeave(e)
	}
	return false
}

// PointerDown is node n's start handler. It returns true when the event was
// claimed for a gesture; ancestor handlers seeing the same event id then
// ignore it.
func (c *Controller) PointerDown(e geometry.Event, n *tree.Node) bool {
	if n == nil || !n.Attached() {
		return false
	}
	if !e.Type.IsTouch() && e.Button != geometry.ButtonPrimary {
		return false
	}
	if c.Claimed(e.ID) || c.state != StateIdle {
		return false
	}
	boundary := c.surface.Element(n)
	target := e.Target
	if target == nil {
		target = boundary
	}
	if geometry.Nodrag(target, boundary) {
		return false
	}
	if !geometry.IsHandle(target, boundary, c.cfg.HandleClassName) {
		return false
	}

	bounds, _ := c.surface.Bounds(n)
	c.claimed = e.ID
	c.press = geometry.PointerEvent(e)
	c.pos = geometry.StartTracking(c.press, geometry.Offset(bounds, c.surface.Scroll()))
	c.pending = n
	c.state = StatePending
	c.logger.WithFields(logrus.Fields{
		"node": n.Value.Label(),
		"x":    c.press.X,
		"y":    c.press.Y,
	}).Debug("drag armed")

	if c.cfg.DragStartThreshold == 0 {
		c.start()
	}
	return true
}

func (c *Controller) start() {
	n := c.pending
	c.pending = nil

	bounds, _ := c.surface.Bounds(n)

	c.session = NewSession(n)
	c.firstMoving = true
	c.visuals = Visuals{
		Source:      n,
		Placeholder: Placement{Anchor: AnchorAfter, Node: n},
		Preview:     geometry.Point{X: c.press.X - c.pos.OffsetX, Y: c.press.Y - c.pos.OffsetY},
		Size:        geometry.Rect{Width: bounds.Width, Height: bounds.Height},
	}
	c.state = StateDragging
	c.logger.WithField("node", n.Value.Label()).Debug("drag started")
}

// PointerMove handles one move sample. It returns false when no gesture
// is listening.
func (c *Controller) PointerMove(e geometry.Event) bool {
	p := geometry.PointerEvent(e)
	switch c.state {
	case StateIdle:
		return false
	case StatePending:
		if c.pos.Moved(p) < c.cfg.DragStartThreshold {
			return true
		}
		c.start()
	}

	c.visuals.Preview = geometry.Point{X: p.X - c.pos.OffsetX, Y: p.Y - c.pos.OffsetY}

	geometry.UpdateTracking(p, c.pos, c.firstMoving)
	if c.firstMoving {
		c.firstMoving = false
		return true
	}

	if c.pos.Horizontal && c.pos.DistAxX >= c.cfg.LevelChangeThreshold {
		c.pos.DistAxX = 0
		if c.pos.DistX > 0 {
			c.nest()
		}
		if c.pos.DistX < 0 {
			c.promote()
		}
	}

	if !c.pos.Horizontal {
		c.reorder(p)
	}
	return true
}

// nest moves the candidate to the end of the previous sibling's children.
func (c *Controller) nest() {
	source := c.session.Source
	prev := c.session.Prev()
	if prev == nil || prev.Collapsed {
		return
	}
	children := prev.Children()
	if children == nil || !prev.Accept(source, prev.ChildNodesCount()) {
		return
	}
	c.visuals.Placeholder = Placement{Anchor: AnchorAppend, Nodes: children}
	c.moveTo(children, prev.ChildNodes(), prev.ChildNodesCount())
}

// promote makes the candidate the next sibling of its parent node. Only the
// last node of a group can move out.
func (c *Controller) promote() {
	if c.session.Next() != nil {
		return
	}
	target := c.session.ParentNode()
	if target == nil {
		return
	}
	siblings := target.Siblings()
	if siblings == nil || !siblings.Accept(c.session.Source, target.Index+1) {
		return
	}
	c.visuals.Placeholder = Placement{Anchor: AnchorAfter, Node: target}
	c.moveTo(siblings, siblings.Nodes(), target.Index+1)
}

// reorder places the candidate before or after the node under the pointer.
func (c *Controller) reorder(p geometry.Point) {
	source := c.session.Source
	scroll := c.surface.Scroll()
	target := c.surface.NodeAt(p.X-scroll.X, p.Y-scroll.Y)
	if target == nil || source.Contains(target) {
		return
	}
	siblings := target.Siblings()
	if siblings == nil {
		return
	}
	bounds, ok := c.surface.Bounds(target)
	if !ok {
		return
	}
	rect := geometry.Offset(bounds, scroll)
	before := 2*p.Y < 2*rect.Top+rect.Height

	index, anchor := target.Index, AnchorBefore
	if !before {
		index, anchor = target.Index+1, AnchorAfter
	}
	if !siblings.Accept(source, index) {
		return
	}
	c.visuals.Placeholder = Placement{Anchor: anchor, Node: target}
	c.moveTo(siblings, siblings.Nodes(), index)
}

func (c *Controller) moveTo(parent *tree.Nodes, siblings []*tree.Node, index int) {
	c.session.MoveTo(parent, siblings, index)
	c.logger.WithFields(logrus.Fields{
		"nodes": parent.ID,
		"index": c.session.Index(),
	}).Debug("candidate moved")
}

// PointerUp ends the gesture and commits the candidate position.
func (c *Controller) PointerUp(e geometry.Event) bool {
	switch c.state {
	case StateIdle:
		return false
	case StatePending:
		c.reset()
		return true
	}
	c.finish(false)
	return true
}

// PointerLeave handles the pointer leaving the surface. It commits like
// PointerUp unless the config asks for CancelOnLeave.
func (c *Controller) PointerLeave(e geometry.Event) bool {
	if c.cfg.CancelOnLeave {
		return c.Cancel()
	}
	return c.PointerUp(e)
}

// Cancel discards an in-flight gesture without touching the tree.
func (c *Controller) Cancel() bool {
	switch c.state {
	case StateIdle:
		return false
	case StatePending:
		c.reset()
		return true
	}
	c.finish(true)
	return true
}

func (c *Controller) finish(cancel bool) {
	s := c.session
	from, fromIndex := s.Origin()
	drop := Drop{Source: s.Source, From: from, FromIndex: fromIndex, Cancelled: cancel}

	// Visuals go first so the source element is back in place before the
	// model re-renders.
	c.visuals = Visuals{}
	if cancel {
		drop.To, drop.ToIndex = from, fromIndex
	} else {
		drop.To, drop.ToIndex = s.Parent(), s.Index()
		drop.Err = s.Apply()
	}
	c.reset()

	entry := c.logger.WithFields(logrus.Fields{
		"node":      drop.Source.Value.Label(),
		"from":      drop.From.ID,
		"fromIndex": drop.FromIndex,
		"to":        drop.To.ID,
		"toIndex":   drop.ToIndex,
	})
	switch {
	case drop.Err != nil:
		entry.WithError(drop.Err).Warn("drop failed")
	case cancel:
		entry.Debug("drag cancelled")
	default:
		entry.Debug("drag committed")
		if c.logger.Logger.IsLevelEnabled(logrus.DebugLevel) {
			if err := c.tree.Check(); err != nil {
				entry.WithError(err).Error("tree out of sync after drop")
			}
		}
	}
	for _, fn := range c.onDrop {
		fn(drop)
	}
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.pending = nil
	c.session = nil
	c.pos = nil
	c.firstMoving = false
	c.visuals = Visuals{}
}
