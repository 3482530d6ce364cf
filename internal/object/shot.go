package object

import "time"

// Shot is a bullet fired by an enemy or by the hero.
// Fired is the trigger timestamp for hero shots and zero for enemy shots.
type Shot struct {
	Point
	Visible bool
	Fired   time.Time
}

// NewShot creates a visible shot at (x, y).
func NewShot(x, y float64) *Shot {
	return &Shot{Point: Point{X: x, Y: y}, Visible: true}
}

// Hide marks the shot consumed. Hidden shots never become visible again.
func (s *Shot) Hide() {
	s.Visible = false
}

// Move shifts the shot vertically by dy.
func (s *Shot) Move(dy float64) {
	s.Y += dy
}

// FilterVisible drops hidden shots, reusing the backing array.
func FilterVisible(shots []*Shot) []*Shot {
	kept := shots[:0]
	for _, s := range shots {
		if s.Visible {
			kept = append(kept, s)
		}
	}
	for i := len(kept); i < len(shots); i++ {
		shots[i] = nil
	}
	return kept
}
