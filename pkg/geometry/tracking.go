package geometry

// PositionState accumulates pointer movement for one drag.
type PositionState struct {
	// Grab point inside the dragged element.
	OffsetX, OffsetY int

	StartX, StartY int
	LastX, LastY   int
	NowX, NowY     int

	// Per-sample deltas and directions (-1, 0, 1).
	DistX, DistY       int
	DirX, DirY         int
	LastDirX, LastDirY int

	// Distance accumulated on each axis since the last reset.
	DistAxX, DistAxY int

	// Horizontal is true while the horizontal axis dominates.
	Horizontal bool
	Moving     bool
}

// StartTracking captures where p grabbed the element bounded by r.
func StartTracking(p Point, r Rect) *PositionState {
	return &PositionState{
		OffsetX: p.X - r.Left,
		OffsetY: p.Y - r.Top,
		StartX:  p.X,
		StartY:  p.Y,
		LastX:   p.X,
		LastY:   p.Y,
		NowX:    p.X,
		NowY:    p.Y,
	}
}

// UpdateTracking folds sample p into s. The first move after start only
// records the dominant axis. Later moves reset both accumulators when the
// dominant axis changes, and reset one axis when its direction reverses.
func UpdateTracking(p Point, s *PositionState, firstMove bool) {
	s.LastX, s.LastY = s.NowX, s.NowY
	s.NowX, s.NowY = p.X, p.Y

	s.DistX = s.NowX - s.LastX
	s.DistY = s.NowY - s.LastY

	s.LastDirX, s.LastDirY = s.DirX, s.DirY
	s.DirX = sign(s.DistX)
	s.DirY = sign(s.DistY)

	horizontal := abs(s.DistX) > abs(s.DistY)

	if firstMove {
		s.Horizontal = horizontal
		s.Moving = true
		return
	}

	if s.Horizontal != horizontal {
		s.DistAxX = 0
		s.DistAxY = 0
	} else {
		s.DistAxX += abs(s.DistX)
		if s.DirX != 0 && s.DirX != s.LastDirX {
			s.DistAxX = 0
		}
		s.DistAxY += abs(s.DistY)
		if s.DirY != 0 && s.DirY != s.LastDirY {
			s.DistAxY = 0
		}
	}
	s.Horizontal = horizontal
}

// Moved returns the largest per-axis distance between the start point and p.
func (s *PositionState) Moved(p Point) int {
	dx, dy := abs(p.X-s.StartX), abs(p.Y-s.StartY)
	if dx > dy {
		return dx
	}
	return dy
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
