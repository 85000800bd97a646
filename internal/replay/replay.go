// Package replay drives scripted pointer gestures through the drag
// controller and a headless layout.
package replay

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/mattsolo1/grove-tree/internal/tui/layout"
	"github.com/mattsolo1/grove-tree/pkg/drag"
	"github.com/mattsolo1/grove-tree/pkg/geometry"
	"github.com/mattsolo1/grove-tree/pkg/tree"
)

var (
	ErrUnknownAction = errors.New("unknown action")
	ErrUnknownNode   = errors.New("unknown node")
)

// Script is a gesture recording.
//
//	width: 40
//	steps:
//	  - {action: press, node: a}
//	  - {action: move, dy: 1}
//	  - {action: move, dy: 2}
//	  - {action: release}
type Script struct {
	Width     int    `yaml:"width,omitempty"`
	RowHeight int    `yaml:"row_height,omitempty"`
	Indent    int    `yaml:"indent,omitempty"`
	Steps     []Step `yaml:"steps"`
}

// Step is one pointer sample. The position starts from the previous step's,
// moves to the handle of Node when set, is replaced by X and Y when set,
// and is finally shifted by DX and DY.
type Step struct {
	Action string `yaml:"action"` // press, move, release, leave or cancel
	Node   string `yaml:"node,omitempty"`
	X      *int   `yaml:"x,omitempty"`
	Y      *int   `yaml:"y,omitempty"`
	DX     int    `yaml:"dx,omitempty"`
	DY     int    `yaml:"dy,omitempty"`
	Button string `yaml:"button,omitempty"` // primary (default), middle or secondary
	Touch  bool   `yaml:"touch,omitempty"`
}

// Outcome records what one step did.
type Outcome struct {
	Step    int
	Action  string
	At      geometry.Point
	Claimed bool
	State   drag.State
}

// Result is the full run.
type Result struct {
	Outcomes []Outcome
	Drops    []drag.Drop
}

// Decode reads a YAML script.
func Decode(r io.Reader) (*Script, error) {
	var s Script
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		if err == io.EOF {
			return &s, nil
		}
		return nil, fmt.Errorf("decode script: %w", err)
	}
	return &s, nil
}

// Runner replays scripts against one tree.
type Runner struct {
	tree   *tree.Tree
	script *Script
	layout *layout.Layout
	ctrl   *drag.Controller
	logger *logrus.Entry

	id    uint64
	at    geometry.Point
	drops []drag.Drop
}

// NewRunner binds a runner to t. A nil cfg uses drag.DefaultConfig.
func NewRunner(t *tree.Tree, cfg *drag.Config, s *Script, logger *logrus.Entry) *Runner {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	r := &Runner{tree: t, script: s, logger: logger.WithField("sub-component", "replay")}
	r.layout = layout.New(t, cfg,
		layout.WithRowHeight(s.RowHeight),
		layout.WithIndent(s.Indent),
		layout.WithSize(s.Width, 0),
	)
	r.ctrl = drag.NewController(t, r.layout, cfg,
		drag.WithControllerLogger(logger),
		drag.WithDropHandler(func(d drag.Drop) { r.drops = append(r.drops, d) }),
	)
	return r
}

// Layout returns the headless layout.
func (r *Runner) Layout() *layout.Layout { return r.layout }

// Controller returns the drag controller.
func (r *Runner) Controller() *drag.Controller { return r.ctrl }

// Run executes the script's steps in order and stops at the first bad one.
func (r *Runner) Run() (*Result, error) {
	res := &Result{}
	for i, step := range r.script.Steps {
		out, err := r.step(step)
		if err != nil {
			return res, fmt.Errorf("step %d (%s): %w", i+1, step.Action, err)
		}
		out.Step = i + 1
		res.Outcomes = append(res.Outcomes, out)
		res.Drops = r.drops
	}
	return res, nil
}

// Run replays s against t.
func Run(t *tree.Tree, cfg *drag.Config, s *Script, logger *logrus.Entry) (*Result, error) {
	return NewRunner(t, cfg, s, logger).Run()
}

func (r *Runner) step(s Step) (Outcome, error) {
	if s.Node != "" {
		p, err := r.handleOf(s.Node)
		if err != nil {
			return Outcome{}, err
		}
		r.at = p
	}
	if s.X != nil {
		r.at.X = *s.X
	}
	if s.Y != nil {
		r.at.Y = *s.Y
	}
	r.at.X += s.DX
	r.at.Y += s.DY

	button, err := parseButton(s.Button)
	if err != nil {
		return Outcome{}, err
	}

	r.id++
	e := geometry.Event{ID: r.id, Button: button, X: r.at.X, Y: r.at.Y}
	if s.Touch {
		e.Touches = []geometry.Point{r.at}
	}

	var claimed bool
	switch s.Action {
	case "press":
		e.Type = pick(s.Touch, geometry.PointerDown, geometry.TouchStart)
		claimed = r.press(e)
	case "move":
		e.Type = pick(s.Touch, geometry.PointerMove, geometry.TouchMove)
		claimed = r.ctrl.Dispatch(e, nil)
	case "release":
		e.Type = pick(s.Touch, geometry.PointerUp, geometry.TouchEnd)
		claimed = r.ctrl.Dispatch(e, nil)
	case "leave":
		e.Type = geometry.PointerLeave
		claimed = r.ctrl.Dispatch(e, nil)
	case "cancel":
		claimed = r.ctrl.Cancel()
	default:
		return Outcome{}, fmt.Errorf("%w %q", ErrUnknownAction, s.Action)
	}
	r.layout.Refresh(r.ctrl.Visuals())

	r.logger.WithFields(logrus.Fields{
		"action":  s.Action,
		"x":       r.at.X,
		"y":       r.at.Y,
		"claimed": claimed,
		"state":   r.ctrl.State(),
	}).Debug("step")
	return Outcome{Action: s.Action, At: r.at, Claimed: claimed, State: r.ctrl.State()}, nil
}

// press bubbles a start event from the node under the pointer up to the
// root collection.
func (r *Runner) press(e geometry.Event) bool {
	scroll := r.layout.Scroll()
	el, n := r.layout.ElementAt(e.X-scroll.X, e.Y-scroll.Y)
	if el != nil {
		e.Target = el
	}
	claimed := false
	for cur := n; cur != nil; cur = cur.Parent() {
		if r.ctrl.PointerDown(e, cur) {
			claimed = true
		}
	}
	return claimed
}

// handleOf returns the page position of the first column of id's label.
func (r *Runner) handleOf(id string) (geometry.Point, error) {
	n := r.tree.Find(id)
	if n == nil {
		return geometry.Point{}, fmt.Errorf("%w %q", ErrUnknownNode, id)
	}
	for _, row := range r.layout.Rows() {
		if row.Node == n {
			return geometry.Point{X: row.Left + ansi.StringWidth(row.FoldText), Y: row.Top}, nil
		}
	}
	return geometry.Point{}, fmt.Errorf("node %q is not laid out", id)
}

func pick(touch bool, pointer, touchType geometry.EventType) geometry.EventType {
	if touch {
		return touchType
	}
	return pointer
}

func parseButton(s string) (geometry.Button, error) {
	switch s {
	case "", "primary", "left":
		return geometry.ButtonPrimary, nil
	case "middle":
		return geometry.ButtonMiddle, nil
	case "secondary", "right":
		return geometry.ButtonSecondary, nil
	}
	return geometry.ButtonNone, fmt.Errorf("unknown button %q", s)
}
