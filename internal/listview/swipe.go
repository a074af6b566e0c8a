// Package listview holds the decisions behind the planner's interactive
// lists: swipe-to-delete, drag reordering, order numbering and multi-selection.
// It has no rendering of its own; clients feed it gesture data and apply the
// result.
package listview

// Direction uses the gesture library's direction codes.
type Direction int

const (
	DirectionNone  Direction = 1
	DirectionLeft  Direction = 2
	DirectionRight Direction = 4
	DirectionUp    Direction = 8
	DirectionDown  Direction = 16
)

// ActionThreshold is the share of the row width a left swipe must cover to
// commit the delete action.
const ActionThreshold = 0.7

// Swipe tracks the revealed width of the delete action behind one row.
type Swipe struct {
	Width       float64 // row width
	Revealed    float64 // width of the delete action currently shown
	Index       int     // row being swiped, -1 for none
	MultiSelect bool    // swipes are ignored while multi-selecting
}

// NewSwipe returns a Swipe for rows of the given width.
func NewSwipe(width float64) *Swipe {
	return &Swipe{Width: width, Index: -1}
}

func (s *Swipe) threshold() float64 {
	return s.Width * ActionThreshold
}

// Pan updates the revealed width while the finger moves.
func (s *Swipe) Pan(index int, dir Direction, distance float64) {
	if (dir != DirectionLeft && dir != DirectionRight) || s.MultiSelect {
		s.Revealed = 0
		return
	}

	switch {
	case distance > s.threshold() && dir == DirectionLeft:
		s.Revealed = s.Width
	case distance < s.threshold() && (dir == DirectionLeft || (dir == DirectionRight && s.Revealed > 0)):
		s.Revealed = distance
	}
	s.Index = index
}

// Release ends the gesture. It reports true when the row should be deleted;
// otherwise a swipe short of the threshold snaps the action closed.
func (s *Swipe) Release(index int, dir Direction, distance float64) bool {
	if (dir != DirectionLeft && dir != DirectionRight && dir != DirectionNone) || s.MultiSelect {
		return false
	}

	if distance < s.threshold() {
		s.Reset()
		return false
	}
	s.Index = index
	return true
}

// Reset closes the delete action.
func (s *Swipe) Reset() {
	s.Revealed = 0
	s.Index = -1
}
