package loop

import (
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/physics"
)

// Collider detects hero shot hits on enemies and awards score for them.
type Collider struct {
	half      float64
	increment int
	grid      *physics.SpatialGrid
}

// NewCollider creates a collider for the given configuration.
func NewCollider(cfg config.Game) *Collider {
	half := cfg.Collision.HalfWidth
	return &Collider{
		half:      half,
		increment: cfg.Collision.ScoreIncrement,
		grid:      physics.NewSpatialGrid(cfg.Canvas.Width, cfg.Canvas.Height, 2*half),
	}
}

// Collide tests every visible hero shot against every live enemy, shot by
// shot in list order. A hit kills the enemy and hides the shot; neither takes
// part in later tests. It returns the score earned.
func (c *Collider) Collide(enemies []*object.Enemy, shots []*object.Shot) int {
	c.grid.Clear()
	for i, e := range enemies {
		if !e.Dead {
			c.grid.Insert(e.X, e.Y, i)
		}
	}

	earned := 0
	for _, s := range shots {
		if !s.Visible {
			continue
		}
		for _, i := range c.grid.Nearby(s.X, s.Y) {
			e := enemies[i]
			if e.Dead || !physics.BoxOverlap(s.X, s.Y, e.X, e.Y, c.half) {
				continue
			}
			e.Kill()
			s.Hide()
			earned += c.increment
			break
		}
	}
	return earned
}

// HitsHero reports whether a visible enemy shot is within the hit box of the
// hero. The first such shot is hidden.
func (c *Collider) HitsHero(hero object.Hero, enemies []*object.Enemy) bool {
	if hero.Dead {
		return false
	}
	for _, e := range enemies {
		for _, s := range e.Shots {
			if s.Visible && physics.BoxOverlap(s.X, s.Y, hero.X, hero.Y, c.half) {
				s.Hide()
				return true
			}
		}
	}
	return false
}
