package world

import (
	"context"
	"slices"
	"time"

	"github.com/tomz197/spacegame/internal/clock"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/stream"
)

// HeroShots turns firing triggers into hero shots.
//
// Triggers are rate limited by sampling: at most one trigger per window is
// forwarded, stamped with the sample time. A forwarded trigger is paired with
// the hero's latest position and becomes exactly one shot; a trigger carrying
// the same timestamp as the previous one is discarded.
type HeroShots struct {
	hero    *stream.Stream[object.Hero]
	window  time.Duration
	pending bool
	last    time.Time
	fired   bool
	shots   []*object.Shot
	out     *stream.Stream[[]*object.Shot]
}

// NewHeroShots creates a tracker that places shots at the hero's position.
func NewHeroShots(hero *stream.Stream[object.Hero], window time.Duration) *HeroShots {
	return &HeroShots{
		hero:   hero,
		window: window,
		out:    stream.New[[]*object.Shot](),
	}
}

// Stream publishes the shot list every time it changes.
func (s *HeroShots) Stream() *stream.Stream[[]*object.Shot] {
	return s.out
}

// Trigger records a click or spacebar press. Several triggers within one
// window collapse into one.
func (s *HeroShots) Trigger() {
	s.pending = true
}

// Start samples pending triggers every window until ctx is done.
func (s *HeroShots) Start(ctx context.Context, sched *clock.Scheduler) *clock.Timer {
	return sched.Every(ctx, s.window, s.sample)
}

func (s *HeroShots) sample(now time.Time) {
	if !s.pending {
		return
	}
	s.pending = false
	s.Fire(now)
}

// Fire converts a stamped trigger into a shot at the hero's position.
// It reports false when ts repeats the previous trigger's timestamp.
func (s *HeroShots) Fire(ts time.Time) bool {
	if s.fired && ts.Equal(s.last) {
		return false
	}
	s.fired = true
	s.last = ts

	hero, _ := s.hero.Latest()
	shot := object.NewShot(hero.X, hero.Y)
	shot.Fired = ts
	s.shots = append(s.shots, shot)
	s.shots = object.FilterVisible(s.shots)
	s.publish()
	return true
}

// Prune drops hidden shots and republishes the list if anything was removed.
func (s *HeroShots) Prune() {
	before := len(s.shots)
	s.shots = object.FilterVisible(s.shots)
	if len(s.shots) != before {
		s.publish()
	}
}

// Len returns the number of shots in flight.
func (s *HeroShots) Len() int {
	return len(s.shots)
}

func (s *HeroShots) publish() {
	s.out.Emit(slices.Clone(s.shots))
}
