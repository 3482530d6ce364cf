package loop

import (
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/world"
)

// Mover applies one frame of motion.
type Mover struct {
	screen        object.Screen
	margin        float64
	enemySpeed    float64
	heroShotSpeed float64
	cullHeroShots bool
}

// NewMover creates a mover for the given configuration.
func NewMover(cfg config.Game) Mover {
	return Mover{
		screen:        object.NewScreen(cfg.Canvas.Width, cfg.Canvas.Height),
		margin:        cfg.Canvas.Margin,
		enemySpeed:    cfg.Enemies.Speed,
		heroShotSpeed: cfg.HeroShots.Speed,
		cullHeroShots: cfg.HeroShots.CullOffscreen,
	}
}

// Advance moves every enemy and its shots down and every hero shot up.
// Enemy shots that left the screen by more than the margin are hidden; hero
// shots only when culling is enabled.
func (m Mover) Advance(f world.Frame) {
	for _, e := range f.Enemies {
		e.Descend(m.enemySpeed)
		for _, s := range e.Shots {
			if s.Visible && !m.screen.Contains(s.Point, m.margin) {
				s.Hide()
			}
		}
	}
	for _, s := range f.HeroShots {
		s.Move(-m.heroShotSpeed)
		if m.cullHeroShots && s.Visible && !m.screen.Contains(s.Point, m.margin) {
			s.Hide()
		}
	}
}
