package object

// Hero is the player ship. It is never mutated; updates produce a new value.
type Hero struct {
	Point
	Dead bool
}

// NewHero creates a live hero at (x, y).
func NewHero(x, y float64) Hero {
	return Hero{Point: Point{X: x, Y: y}}
}

// MovedTo returns a copy of the hero at horizontal position x.
func (h Hero) MovedTo(x float64) Hero {
	h.X = x
	return h
}

// Killed returns a dead copy of the hero.
func (h Hero) Killed() Hero {
	h.Dead = true
	return h
}
