// Package loop runs a game: it owns the producers, samples them into frames
// and drives motion, collision, scoring and rendering for every frame.
package loop

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/spacegame/internal/clock"
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/draw"
	"github.com/tomz197/spacegame/internal/input"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/render"
	"github.com/tomz197/spacegame/internal/world"
)

// Options configures an Engine.
type Options struct {
	Config  config.Game
	Surface draw.Surface
	Logger  *log.Logger
	Rand    *rand.Rand
	// Now is the wall clock used by Run; it also sets the scheduler's start.
	Now func() time.Time
	// OnOver is called once, on the engine goroutine, when the game ends.
	OnOver func(score int)
	// MapInput, if set, rewrites every event on the engine goroutine before
	// it is applied. Terminal hosts use it to turn cells into coordinates.
	MapInput func(input.Event) input.Event
}

// Engine is one game. Apart from Run, which drives it in real time, its
// methods must be called from a single goroutine.
type Engine struct {
	cfg     config.Game
	surface draw.Surface
	logger  *log.Logger
	now     func() time.Time
	onOver  func(int)
	mapIn   func(input.Event) input.Event

	ctx    context.Context
	cancel context.CancelFunc
	sched  *clock.Scheduler

	stars   *world.StarField
	enemies *world.Enemies
	hero    *world.HeroTracker
	shots   *world.HeroShots
	score   *world.Score

	comp     *Compositor
	mover    Mover
	collider *Collider
	painter  render.Painter

	started bool
	over    bool
	quit    bool
	err     error
	last    *world.Frame
	painted uint64
}

// New builds a game on the surface and paints the start prompt.
func New(opts Options) *Engine {
	cfg := opts.Config.Normalize()
	if w, h := opts.Surface.Size(); w != cfg.Canvas.Width || h != cfg.Canvas.Height {
		cfg = cfg.WithCanvas(w, h)
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(now().UnixNano()))
	}

	ctx, cancel := context.WithCancel(context.Background())
	sched := clock.NewScheduler(now())
	screen := object.NewScreen(cfg.Canvas.Width, cfg.Canvas.Height)

	e := &Engine{
		cfg:      cfg,
		surface:  opts.Surface,
		logger:   logger,
		now:      now,
		onOver:   opts.OnOver,
		mapIn:    opts.MapInput,
		ctx:      ctx,
		cancel:   cancel,
		sched:    sched,
		stars:    world.NewStarField(cfg.Stars, screen, rng),
		enemies:  world.NewEnemies(ctx, sched, cfg.Enemies, screen, rng),
		hero:     world.NewHeroTracker(cfg.Hero, screen),
		score:    world.NewScore(),
		mover:    NewMover(cfg),
		collider: NewCollider(cfg),
	}
	e.shots = world.NewHeroShots(e.hero.Stream(), cfg.HeroShots.FireWindow)
	e.comp = NewCompositor(Sources{
		Score:     e.score.Stream(),
		Stars:     e.stars.Stream(),
		Enemies:   e.enemies.Stream(),
		Hero:      e.hero.Stream(),
		HeroShots: e.shots.Stream(),
	})

	e.painter.PaintStart(e.surface)
	e.present()
	return e
}

// Start registers every periodic process with the scheduler. Calling it again
// does nothing.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.stars.Start(e.ctx, e.sched)
	e.enemies.Start()
	e.shots.Start(e.ctx, e.sched)
	e.sched.Every(e.ctx, e.cfg.Frame.SampleInterval, e.sample)
	e.logger.Debug("game started",
		"width", e.cfg.Canvas.Width,
		"height", e.cfg.Canvas.Height,
		"sample", e.cfg.Frame.SampleInterval)
}

// Scheduler exposes the timer queue so callers can drive the game in
// simulated time.
func (e *Engine) Scheduler() *clock.Scheduler {
	return e.sched
}

// Dispatch applies one input event.
func (e *Engine) Dispatch(ev input.Event) {
	if e.mapIn != nil {
		ev = e.mapIn(ev)
	}
	switch ev.Kind {
	case input.PointerMove:
		e.hero.MoveTo(ev.X)
	case input.Click:
		e.shots.Trigger()
	case input.KeyDown:
		switch ev.KeyCode {
		case input.KeySpace:
			e.shots.Trigger()
		case input.KeyLeft:
			e.hero.Nudge(-e.cfg.Hero.KeyStep)
		case input.KeyRight:
			e.hero.Nudge(e.cfg.Hero.KeyStep)
		}
	case input.Resize:
		if r, ok := e.surface.(draw.Resizer); ok {
			r.Resize(ev.Width, ev.Height)
			e.repaint()
		}
	case input.Quit:
		e.quit = true
	}
}

// sample runs one frame if the compositor has one.
func (e *Engine) sample(now time.Time) {
	f, ok := e.comp.Sample(now)
	if !ok {
		return
	}
	if f.Hero.Dead {
		e.finish(f)
		return
	}
	e.step(f)
}

// step runs motion, collision and scoring, then paints the frame. A panic
// skips the frame.
func (e *Engine) step(f world.Frame) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("frame skipped", "frame", f.Seq, "err", r)
		}
	}()

	e.mover.Advance(f)
	e.score.Add(e.collider.Collide(f.Enemies, f.HeroShots))
	if e.cfg.Collision.HeroVulnerable && e.collider.HitsHero(f.Hero, f.Enemies) {
		e.logger.Debug("hero hit", "frame", f.Seq)
		e.hero.Kill()
	}
	e.shots.Prune()

	f.Score = e.score.Value()
	f.HeroShots, _ = e.shots.Stream().Latest()
	e.paint(f)
}

// finish paints the final frame once and shuts the game down.
func (e *Engine) finish(f world.Frame) {
	e.comp.Stop()
	e.over = true
	e.paint(f)
	e.cancel()
	e.enemies.Close()
	e.logger.Info("game over", "score", f.Score, "frames", e.painted)
	if e.onOver != nil {
		e.onOver(f.Score)
	}
}

func (e *Engine) paint(f world.Frame) {
	e.last = &f
	e.painter.Paint(e.surface, f)
	e.painted++
	e.present()
}

// repaint draws the last frame again, or the start prompt before the first.
func (e *Engine) repaint() {
	if e.last == nil {
		e.painter.PaintStart(e.surface)
	} else {
		e.painter.Paint(e.surface, *e.last)
	}
	e.present()
}

func (e *Engine) present() {
	p, ok := e.surface.(draw.Presenter)
	if !ok || e.err != nil {
		return
	}
	if err := p.Present(); err != nil {
		e.err = fmt.Errorf("present frame: %w", err)
		e.cancel()
	}
}

// Over reports whether the game has ended.
func (e *Engine) Over() bool {
	return e.over
}

// Score returns the current score.
func (e *Engine) Score() int {
	return e.score.Value()
}

// Frames returns how many frames have been painted.
func (e *Engine) Frames() uint64 {
	return e.painted
}

// Err returns the presentation error that stopped the game, if any.
func (e *Engine) Err() error {
	return e.err
}

// Close releases every timer. The engine cannot be restarted.
func (e *Engine) Close() {
	e.cancel()
	e.enemies.Close()
	e.comp.Stop()
}

// Run drives the game in real time until ctx is done, a Quit event arrives,
// events is closed or presenting fails. Timers fire on this goroutine and
// events are applied between them. After the game is over Run keeps serving
// Resize and Quit events.
func (e *Engine) Run(ctx context.Context, events <-chan input.Event) error {
	e.Start()
	defer e.Close()

	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	for {
		if e.err != nil {
			return e.err
		}
		if e.quit {
			return nil
		}

		var tick <-chan time.Time
		if next, ok := e.sched.Next(); ok {
			timer.Reset(max(next.Sub(e.now()), 0))
			tick = timer.C
		}

		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			e.Dispatch(ev)
		case <-tick:
			e.sched.AdvanceTo(e.now())
		}
		timer.Stop()
	}
}
