package loop

import (
	"time"

	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/stream"
	"github.com/tomz197/spacegame/internal/world"
)

// Sources are the five streams a Compositor combines.
type Sources struct {
	Score     *stream.Stream[int]
	Stars     *stream.Stream[[]object.Star]
	Enemies   *stream.Stream[[]*object.Enemy]
	Hero      *stream.Stream[object.Hero]
	HeroShots *stream.Stream[[]*object.Shot]
}

// Compositor combines the latest value of every source into a Frame.
// A frame is only produced once every source has a value, and a sample only
// yields a frame when some source emitted since the previous one.
type Compositor struct {
	src     Sources
	changed bool
	seq     uint64
	cancels []func()
	stopped bool
}

// NewCompositor subscribes to every source.
func NewCompositor(src Sources) *Compositor {
	c := &Compositor{src: src, changed: true}
	c.cancels = []func(){
		src.Score.Subscribe(func(int) { c.changed = true }),
		src.Stars.Subscribe(func([]object.Star) { c.changed = true }),
		src.Enemies.Subscribe(func([]*object.Enemy) { c.changed = true }),
		src.Hero.Subscribe(func(object.Hero) { c.changed = true }),
		src.HeroShots.Subscribe(func([]*object.Shot) { c.changed = true }),
	}
	return c
}

// Ready reports whether every source has emitted.
func (c *Compositor) Ready() bool {
	_, score := c.src.Score.Latest()
	_, stars := c.src.Stars.Latest()
	_, enemies := c.src.Enemies.Latest()
	_, hero := c.src.Hero.Latest()
	_, shots := c.src.HeroShots.Latest()
	return score && stars && enemies && hero && shots
}

// Sample returns the combined frame stamped with now, if there is one to
// forward.
func (c *Compositor) Sample(now time.Time) (world.Frame, bool) {
	if c.stopped || !c.changed || !c.Ready() {
		return world.Frame{}, false
	}
	c.changed = false
	c.seq++

	f := world.Frame{Seq: c.seq, Time: now}
	f.Score, _ = c.src.Score.Latest()
	f.Stars, _ = c.src.Stars.Latest()
	f.Enemies, _ = c.src.Enemies.Latest()
	f.Hero, _ = c.src.Hero.Latest()
	f.HeroShots, _ = c.src.HeroShots.Latest()
	return f, true
}

// Stop unsubscribes from every source. No frame is produced afterwards.
func (c *Compositor) Stop() {
	if c.stopped {
		return
	}
	c.stopped = true
	for _, cancel := range c.cancels {
		cancel()
	}
	c.cancels = nil
}

// Stopped reports whether Stop was called.
func (c *Compositor) Stopped() bool {
	return c.stopped
}
