package object

// Enemy is a descending enemy ship. Its shots belong to it alone and keep
// flying after the enemy dies.
type Enemy struct {
	Point
	Dead    bool
	Visible bool
	Shots   []*Shot
}

// NewEnemy creates a live, visible enemy with no shots.
func NewEnemy(x, y float64) *Enemy {
	return &Enemy{
		Point:   Point{X: x, Y: y},
		Visible: true,
		Shots:   []*Shot{},
	}
}

// Fire appends a shot offset below the enemy and drops hidden shots.
// Dead enemies do not fire; Fire reports whether a shot was added.
func (e *Enemy) Fire(offset float64) bool {
	if e.Dead {
		return false
	}
	e.Shots = append(e.Shots, NewShot(e.X, e.Y+offset))
	e.PruneShots()
	return true
}

// PruneShots drops hidden shots.
func (e *Enemy) PruneShots() {
	e.Shots = FilterVisible(e.Shots)
}

// Descend moves the enemy and every one of its shots down by step.
func (e *Enemy) Descend(step float64) {
	e.Y += step
	for _, s := range e.Shots {
		s.Move(step)
	}
}

// Kill marks the enemy destroyed.
func (e *Enemy) Kill() {
	e.Dead = true
	e.Visible = false
}

// Removable reports whether the enemy is dead and has no shots left in flight.
func (e *Enemy) Removable() bool {
	return e.Dead && len(e.Shots) == 0
}
