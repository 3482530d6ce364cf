package world

import (
	"context"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/tomz197/spacegame/internal/clock"
	"github.com/tomz197/spacegame/internal/config"
	"github.com/tomz197/spacegame/internal/object"
)

var epoch = time.UnixMilli(0)

func newRand() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func TestStarsStayOnScreenAfterManyTicks(t *testing.T) {
	cfg := config.Default().Stars
	screen := object.NewScreen(320, 200)
	field := NewStarField(cfg, screen, newRand())

	xs := make([]float64, len(field.Stars()))
	for i, s := range field.Stars() {
		xs[i] = s.X
	}

	emitted := 0
	field.Stream().Subscribe(func([]object.Star) { emitted++ })

	for i := 0; i < 1000; i++ {
		field.Tick()
	}

	if emitted != 1000 {
		t.Fatalf("emitted %d times, want 1000", emitted)
	}
	for i, s := range field.Stars() {
		if s.Y < 0 || s.Y >= screen.Height {
			t.Fatalf("star %d at y=%v left the screen", i, s.Y)
		}
		if s.X != xs[i] {
			t.Fatalf("star %d moved horizontally: %v -> %v", i, xs[i], s.X)
		}
		if s.Size < cfg.MinSize || s.Size >= cfg.MaxSize {
			t.Fatalf("star %d size %v outside [%v,%v)", i, s.Size, cfg.MinSize, cfg.MaxSize)
		}
	}
}

func TestStarsStayFiniteWithNaNStepInConfig(t *testing.T) {
	cfg, err := config.Decode("[stars]\ncount = 50\nstep = nan\n")
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	screen := object.NewScreen(320, 200)
	field := NewStarField(cfg.Stars, screen, newRand())
	for i := 0; i < 100; i++ {
		field.Tick()
	}
	for i, s := range field.Stars() {
		if math.IsNaN(s.Y) || s.Y < 0 || s.Y >= screen.Height {
			t.Fatalf("star %d at y=%v", i, s.Y)
		}
	}
}

func TestStarsOnEmptyCanvasDoNotMove(t *testing.T) {
	field := NewStarField(config.Default().Stars, object.NewScreen(0, 0), newRand())
	for i := 0; i < 10; i++ {
		field.Tick()
	}
	for _, s := range field.Stars() {
		if s.X != 0 || s.Y != 0 {
			t.Fatalf("star at (%v,%v) on an empty canvas", s.X, s.Y)
		}
	}
}

func TestStarFieldTicksOnSchedule(t *testing.T) {
	sched := clock.NewScheduler(epoch)
	field := NewStarField(config.Default().Stars, object.NewScreen(100, 100), newRand())
	field.Start(context.Background(), sched)

	if _, ok := field.Stream().Latest(); ok {
		t.Fatal("star stream has a value before the first tick")
	}
	sched.Advance(40 * time.Millisecond)
	if _, ok := field.Stream().Latest(); !ok {
		t.Fatal("star stream empty after the first tick")
	}
}

func TestEnemiesSpawnAndFire(t *testing.T) {
	cfg := config.Default().Enemies
	sched := clock.NewScheduler(epoch)
	arena := NewEnemies(context.Background(), sched, cfg, object.NewScreen(800, 600), newRand())
	arena.Start()

	sched.Advance(cfg.SpawnInterval - time.Millisecond)
	if _, ok := arena.Stream().Latest(); ok {
		t.Fatal("enemy emitted before the first spawn tick")
	}
	sched.Advance(time.Millisecond)

	list, ok := arena.Stream().Latest()
	if !ok || len(list) != 1 {
		t.Fatalf("after first spawn: %d enemies", len(list))
	}
	e := list[0]
	if e.Y != cfg.SpawnY || e.X < 0 || e.X >= 800 || e.Dead || !e.Visible {
		t.Fatalf("unexpected spawn %+v", e)
	}

	sched.Advance(2 * cfg.FireInterval)
	if len(e.Shots) != 2 {
		t.Fatalf("shots = %d, want 2", len(e.Shots))
	}
	if s := e.Shots[0]; s.X != e.X || s.Y != e.Y+cfg.BulletOffset {
		t.Fatalf("shot at (%v,%v), enemy at (%v,%v)", s.X, s.Y, e.X, e.Y)
	}
	if arena.Timers() != 1 {
		t.Fatalf("timers = %d, want 1", arena.Timers())
	}
}

func TestDeadEnemyStopsFiringAndIsPrunedOnceShotsAreGone(t *testing.T) {
	cfg := config.Default().Enemies
	sched := clock.NewScheduler(epoch)
	arena := NewEnemies(context.Background(), sched, cfg, object.NewScreen(800, 600), newRand())

	first := arena.SpawnTick()
	sched.Advance(cfg.FireInterval)
	if len(first.Shots) != 1 {
		t.Fatalf("shots = %d, want 1", len(first.Shots))
	}

	first.Kill()
	sched.Advance(cfg.FireInterval)
	if len(first.Shots) != 1 {
		t.Fatal("dead enemy fired")
	}

	arena.SpawnTick()
	if arena.Len() != 2 {
		t.Fatalf("dead enemy with a shot in flight was pruned; len = %d", arena.Len())
	}

	first.Shots[0].Hide()
	arena.SpawnTick()
	list, _ := arena.Stream().Latest()
	if arena.Len() != 2 || len(list) != 2 {
		t.Fatalf("len = %d, want 2", arena.Len())
	}
	for _, e := range list {
		if e == first {
			t.Fatal("finished enemy still in the arena")
		}
	}
	if arena.Timers() != 2 {
		t.Fatalf("timers = %d, want 2", arena.Timers())
	}
}

func TestEnemiesCloseReleasesTimers(t *testing.T) {
	cfg := config.Default().Enemies
	sched := clock.NewScheduler(epoch)
	arena := NewEnemies(context.Background(), sched, cfg, object.NewScreen(800, 600), newRand())
	for i := 0; i < 5; i++ {
		arena.SpawnTick()
	}
	if sched.Len() != 5 {
		t.Fatalf("scheduler timers = %d, want 5", sched.Len())
	}
	arena.Close()
	if sched.Len() != 0 || arena.Len() != 0 {
		t.Fatalf("after close: scheduler %d, arena %d", sched.Len(), arena.Len())
	}
}

func TestEnemyListsAreSnapshots(t *testing.T) {
	sched := clock.NewScheduler(epoch)
	arena := NewEnemies(context.Background(), sched, config.Default().Enemies, object.NewScreen(800, 600), newRand())
	arena.SpawnTick()
	before, _ := arena.Stream().Latest()
	arena.SpawnTick()
	if len(before) != 1 {
		t.Fatalf("earlier emission changed length to %d", len(before))
	}
}

func TestHeroStartsCenteredNearBottom(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	hero := h.Current()
	if hero.X != 400 || hero.Y != 570 || hero.Dead {
		t.Fatalf("hero = %+v", hero)
	}
}

func TestHeroFollowsPointerAndIgnoresNonFinite(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	h.MoveTo(123)
	h.MoveTo(math.NaN())
	h.MoveTo(math.Inf(1))
	if hero := h.Current(); hero.X != 123 || hero.Y != 570 {
		t.Fatalf("hero = %+v", hero)
	}
}

func TestHeroNudgeClampsToScreen(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(100, 100))
	for i := 0; i < 10; i++ {
		h.Nudge(-20)
	}
	if x := h.Current().X; x != 0 {
		t.Fatalf("x = %v, want 0", x)
	}
	h.Nudge(20)
	if x := h.Current().X; x != 20 {
		t.Fatalf("x = %v, want 20", x)
	}
}

func TestHeroDeathIsSticky(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	h.Kill()
	h.MoveTo(10)
	if hero := h.Current(); !hero.Dead || hero.X != 10 {
		t.Fatalf("hero = %+v", hero)
	}
}

func TestHeroShotsOnePerDistinctTimestamp(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	shots := NewHeroShots(h.Stream(), 200*time.Millisecond)

	h.MoveTo(250)
	for _, ms := range []int64{100, 100, 300} {
		shots.Fire(time.UnixMilli(ms))
	}

	list, _ := shots.Stream().Latest()
	if len(list) != 2 {
		t.Fatalf("shots = %d, want 2", len(list))
	}
	for _, s := range list {
		if s.X != 250 || s.Y != 570 || !s.Visible {
			t.Fatalf("shot = %+v", s)
		}
	}
	if !list[0].Fired.Equal(time.UnixMilli(100)) || !list[1].Fired.Equal(time.UnixMilli(300)) {
		t.Fatalf("fired at %v and %v", list[0].Fired, list[1].Fired)
	}
}

func TestHeroShotTriggersAreSampled(t *testing.T) {
	sched := clock.NewScheduler(epoch)
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	shots := NewHeroShots(h.Stream(), 200*time.Millisecond)
	shots.Start(context.Background(), sched)

	for i := 0; i < 5; i++ {
		shots.Trigger()
	}
	sched.Advance(200 * time.Millisecond)
	if shots.Len() != 1 {
		t.Fatalf("shots = %d, want 1 after a burst", shots.Len())
	}

	sched.Advance(400 * time.Millisecond)
	if shots.Len() != 1 {
		t.Fatalf("shots = %d, want 1 with no new triggers", shots.Len())
	}

	shots.Trigger()
	sched.Advance(200 * time.Millisecond)
	list, _ := shots.Stream().Latest()
	if len(list) != 2 || !list[1].Fired.Equal(epoch.Add(800*time.Millisecond)) {
		t.Fatalf("shots = %v", list)
	}
}

func TestHeroShotsPruneHidden(t *testing.T) {
	h := NewHeroTracker(config.Default().Hero, object.NewScreen(800, 600))
	shots := NewHeroShots(h.Stream(), 200*time.Millisecond)
	shots.Fire(time.UnixMilli(1))
	shots.Fire(time.UnixMilli(2))

	emitted := 0
	shots.Stream().Subscribe(func([]*object.Shot) { emitted++ })

	shots.Prune()
	if emitted != 0 {
		t.Fatal("prune without hidden shots republished")
	}

	list, _ := shots.Stream().Latest()
	list[0].Hide()
	shots.Prune()
	if emitted != 1 || shots.Len() != 1 {
		t.Fatalf("emitted %d, len %d", emitted, shots.Len())
	}
}

func TestScoreStartsAtZeroAndAccumulates(t *testing.T) {
	s := NewScore()
	if v, ok := s.Stream().Latest(); !ok || v != 0 {
		t.Fatalf("initial score %d, %v", v, ok)
	}
	var seen []int
	s.Stream().Subscribe(func(v int) { seen = append(seen, v) })

	s.Add(10)
	s.Add(0)
	s.Add(-5)
	s.Add(10)

	if s.Value() != 20 {
		t.Fatalf("score = %d, want 20", s.Value())
	}
	if len(seen) != 2 || seen[0] != 10 || seen[1] != 20 {
		t.Fatalf("seen %v, want [10 20]", seen)
	}
}
