package world

import (
	"math"

	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/stream"
)

// HeroTracker follows the pointer horizontally at a fixed height.
type HeroTracker struct {
	screen object.Screen
	out    *stream.Stream[object.Hero]
}

// NewHeroTracker starts with a live hero centered near the bottom edge.
func NewHeroTracker(cfg config.Hero, screen object.Screen) *HeroTracker {
	y := math.Max(screen.Height-cfg.OffsetY, 0)
	return &HeroTracker{
		screen: screen,
		out:    stream.Of(object.NewHero(screen.Width/2, y)),
	}
}

// Stream publishes a replacement hero on every update.
func (h *HeroTracker) Stream() *stream.Stream[object.Hero] {
	return h.out
}

// Current returns the latest hero.
func (h *HeroTracker) Current() object.Hero {
	hero, _ := h.out.Latest()
	return hero
}

// MoveTo replaces the hero with one at x. Non-finite coordinates are ignored.
func (h *HeroTracker) MoveTo(x float64) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return
	}
	h.out.Emit(h.Current().MovedTo(x))
}

// Nudge moves the hero by dx, keeping it on the screen.
func (h *HeroTracker) Nudge(dx float64) {
	x := h.Current().X + dx
	x = math.Max(0, math.Min(x, h.screen.Width))
	h.MoveTo(x)
}

// Kill replaces the hero with a dead one.
func (h *HeroTracker) Kill() {
	h.out.Emit(h.Current().Killed())
}
