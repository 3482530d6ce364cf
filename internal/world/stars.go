package world

import (
	"context"
	"math/rand"
	"time"

	"github.com/tomz197/spacegame/internal/clock"
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/stream"
)

// StarField is a fixed set of stars falling at a constant rate.
type StarField struct {
	cfg    config.Stars
	screen object.Screen
	stars  []object.Star
	out    *stream.Stream[[]object.Star]
}

// NewStarField scatters cfg.Count stars over the screen.
func NewStarField(cfg config.Stars, screen object.Screen, rng *rand.Rand) *StarField {
	stars := make([]object.Star, cfg.Count)
	for i := range stars {
		stars[i] = object.NewRandomStar(rng, screen, cfg.MinSize, cfg.MaxSize)
	}
	return &StarField{
		cfg:    cfg,
		screen: screen,
		stars:  stars,
		out:    stream.New[[]object.Star](),
	}
}

// Stream publishes the whole star set after every tick.
func (f *StarField) Stream() *stream.Stream[[]object.Star] {
	return f.out
}

// Stars returns the current star set. Callers must not retain it across ticks.
func (f *StarField) Stars() []object.Star {
	return f.stars
}

// Tick moves every star down one step and publishes the set.
func (f *StarField) Tick() {
	for i := range f.stars {
		f.stars[i].Fall(f.cfg.Step, f.screen.Height)
	}
	f.out.Emit(f.stars)
}

// Start ticks the field every cfg.Tick until ctx is done.
func (f *StarField) Start(ctx context.Context, sched *clock.Scheduler) *clock.Timer {
	return sched.Every(ctx, f.cfg.Tick, func(time.Time) { f.Tick() })
}
