package world

import (
	"context"
	"math/rand"
	"slices"
	"time"

	"github.com/tomz197/spacegame/internal/clock"
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
	"github.com/tomz197/spacegame/internal/stream"
)

// Enemies is the arena of live enemies. Every entry owns the firing timer of
// its enemy; the timer is released when the entry leaves the arena.
type Enemies struct {
	ctx     context.Context
	sched   *clock.Scheduler
	cfg     config.Enemies
	screen  object.Screen
	rng     *rand.Rand
	entries []*arenaEntry
	out     *stream.Stream[[]*object.Enemy]
}

type arenaEntry struct {
	enemy  *object.Enemy
	cancel context.CancelFunc
	timer  *clock.Timer
}

// NewEnemies creates an empty arena. Firing timers are registered with sched
// and bound to ctx.
func NewEnemies(ctx context.Context, sched *clock.Scheduler, cfg config.Enemies, screen object.Screen, rng *rand.Rand) *Enemies {
	return &Enemies{
		ctx:    ctx,
		sched:  sched,
		cfg:    cfg,
		screen: screen,
		rng:    rng,
		out:    stream.New[[]*object.Enemy](),
	}
}

// Stream publishes the enemy collection after every spawn tick.
func (a *Enemies) Stream() *stream.Stream[[]*object.Enemy] {
	return a.out
}

// Start runs a spawn tick every cfg.SpawnInterval until ctx is done.
func (a *Enemies) Start() *clock.Timer {
	return a.sched.Every(a.ctx, a.cfg.SpawnInterval, func(time.Time) { a.SpawnTick() })
}

// SpawnTick prunes finished enemies, spawns a new one at a random x and
// publishes the collection. It returns the new enemy.
func (a *Enemies) SpawnTick() *object.Enemy {
	a.prune()
	e := a.spawn(a.rng.Float64() * a.screen.Width)
	a.Publish()
	return e
}

// Publish emits a fresh copy of the enemy list.
func (a *Enemies) Publish() {
	list := make([]*object.Enemy, len(a.entries))
	for i, en := range a.entries {
		list[i] = en.enemy
	}
	a.out.Emit(list)
}

// Len returns the number of enemies in the arena.
func (a *Enemies) Len() int {
	return len(a.entries)
}

// Timers returns the number of firing timers still registered.
func (a *Enemies) Timers() int {
	n := 0
	for _, en := range a.entries {
		if en.timer.Active() {
			n++
		}
	}
	return n
}

// Close releases every firing timer and empties the arena.
func (a *Enemies) Close() {
	for _, en := range a.entries {
		en.cancel()
	}
	a.entries = nil
}

func (a *Enemies) spawn(x float64) *object.Enemy {
	e := object.NewEnemy(x, a.cfg.SpawnY)
	ctx, cancel := context.WithCancel(a.ctx)
	offset := a.cfg.BulletOffset
	timer := a.sched.Every(ctx, a.cfg.FireInterval, func(time.Time) {
		e.Fire(offset)
	})
	a.entries = append(a.entries, &arenaEntry{enemy: e, cancel: cancel, timer: timer})
	return e
}

// prune drops hidden shots everywhere, then removes every dead enemy whose
// shots are all gone and releases its firing timer.
func (a *Enemies) prune() {
	for _, en := range a.entries {
		en.enemy.PruneShots()
	}
	a.entries = slices.DeleteFunc(a.entries, func(en *arenaEntry) bool {
		if en.enemy.Removable() {
			en.cancel()
			return true
		}
		return false
	})
}
