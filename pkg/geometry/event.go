package geometry

// EventType enumerates the host input primitives.
type EventType int

const (
	PointerDown EventType = iota
	PointerMove
	PointerUp
	PointerLeave
	TouchStart
	TouchMove
	TouchEnd
	TouchCancel
)

var eventTypeNames = [...]string{
	"pointer-down", "pointer-move", "pointer-up", "pointer-leave",
	"touch-start", "touch-move", "touch-end", "touch-cancel",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// IsTouch reports whether the event came from a touch stream.
func (t EventType) IsTouch() bool {
	return t >= TouchStart
}

// Button identifies the pressed pointer button.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonMiddle
	ButtonSecondary
	ButtonNone
)

// Event is one host input sample in page coordinates.
type Event struct {
	// ID identifies the dispatch of one host event. Every handler that sees
	// the same dispatch receives the same ID.
	ID      uint64
	Type    EventType
	Button  Button
	X, Y    int
	Touches []Point
	Target  Element
}

// PointerEvent normalises pointer and touch payloads to one coordinate
// pair, using the first touch point when touches are present.
func PointerEvent(e Event) Point {
	if len(e.Touches) > 0 {
		return e.Touches[0]
	}
	return Point{X: e.X, Y: e.Y}
}
