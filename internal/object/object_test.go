package object

import (
	"math"
	"math/rand"
	"testing"
)

func TestStarFallWrapsToTop(t *testing.T) {
	s := Star{Point: Point{X: 12, Y: 596}, Size: 2}
	s.Fall(3, 600)
	if s.Y != 599 {
		t.Fatalf("y = %v, want 599", s.Y)
	}
	s.Fall(3, 600)
	if s.Y != 0 || s.X != 12 {
		t.Fatalf("star = %+v, want wrapped to (12, 0)", s.Point)
	}
}

func TestStarFallIgnoresEmptyHeight(t *testing.T) {
	s := Star{Point: Point{X: 1, Y: 0}, Size: 1}
	s.Fall(3, 0)
	if s.Y != 0 {
		t.Fatalf("y = %v, want 0", s.Y)
	}
}

func TestNewRandomStarStaysInBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	screen := NewScreen(320, 200)
	for i := 0; i < 1000; i++ {
		s := NewRandomStar(rng, screen, 1, 4)
		if s.X < 0 || s.X >= 320 || s.Y < 0 || s.Y >= 200 {
			t.Fatalf("star out of bounds: %+v", s)
		}
		if s.Size < 1 || s.Size >= 4 {
			t.Fatalf("size out of range: %v", s.Size)
		}
	}
}

func TestNewScreenClampsDegenerateSizes(t *testing.T) {
	s := NewScreen(-1, math.NaN())
	if s.Width != 0 || s.Height != 0 || !s.Empty() {
		t.Fatalf("screen = %+v", s)
	}
}

func TestScreenContainsUsesMargin(t *testing.T) {
	s := NewScreen(100, 100)
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{50, 50}, true},
		{Point{-39, 50}, true},
		{Point{-40, 50}, false},
		{Point{50, 139}, true},
		{Point{50, 140}, false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.p, 40); got != tt.want {
			t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}

func TestEnemyFireStopsWhenDead(t *testing.T) {
	e := NewEnemy(100, 30)
	if !e.Fire(50) {
		t.Fatal("live enemy should fire")
	}
	if len(e.Shots) != 1 || e.Shots[0].X != 100 || e.Shots[0].Y != 80 || !e.Shots[0].Visible {
		t.Fatalf("unexpected shot %+v", e.Shots[0])
	}
	e.Kill()
	if e.Fire(50) {
		t.Fatal("dead enemy fired")
	}
	if e.Visible {
		t.Fatal("killed enemy still visible")
	}
	if e.Removable() {
		t.Fatal("enemy with a shot in flight must not be removable")
	}
	e.Shots[0].Hide()
	e.PruneShots()
	if !e.Removable() {
		t.Fatal("dead enemy without shots should be removable")
	}
}

func TestEnemyFireDropsHiddenShots(t *testing.T) {
	e := NewEnemy(0, 0)
	e.Fire(0)
	e.Fire(0)
	e.Shots[0].Hide()
	e.Fire(0)
	if len(e.Shots) != 2 {
		t.Fatalf("len(shots) = %d, want 2", len(e.Shots))
	}
	for _, s := range e.Shots {
		if !s.Visible {
			t.Fatal("hidden shot kept")
		}
	}
}

func TestEnemyDescendCarriesShots(t *testing.T) {
	e := NewEnemy(10, 30)
	e.Fire(50)
	e.Descend(5)
	if e.Y != 35 || e.Shots[0].Y != 85 {
		t.Fatalf("enemy y = %v, shot y = %v", e.Y, e.Shots[0].Y)
	}
}

func TestHeroUpdatesAreCopies(t *testing.T) {
	h := NewHero(400, 570)
	moved := h.MovedTo(120)
	dead := moved.Killed()
	if h.X != 400 || h.Dead {
		t.Fatalf("original hero changed: %+v", h)
	}
	if moved.X != 120 || moved.Y != 570 || moved.Dead {
		t.Fatalf("moved = %+v", moved)
	}
	if !dead.Dead || dead.X != 120 {
		t.Fatalf("dead = %+v", dead)
	}
}
