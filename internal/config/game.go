package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"time"

	"github.com/BurntSushi/toml"
)

// ErrInvalid is returned when a configuration file cannot be decoded.
var ErrInvalid = errors.New("invalid configuration")

// Game holds every tunable parameter of a game.
// Durations are written as strings in TOML ("40ms", "1.5s").
type Game struct {
	Canvas    Canvas    `toml:"canvas"`
	Stars     Stars     `toml:"stars"`
	Enemies   Enemies   `toml:"enemies"`
	Hero      Hero      `toml:"hero"`
	HeroShots HeroShots `toml:"hero_shots"`
	Frame     Frame     `toml:"frame"`
	Collision Collision `toml:"collision"`
	Render    Render    `toml:"render"`
}

// Canvas is the logical drawing area in pixels.
type Canvas struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
	// Margin is how far past an edge a shot may travel before it is culled.
	Margin float64 `toml:"offscreen_margin"`
}

// Stars configures the falling star field.
type Stars struct {
	Count   int           `toml:"count"`
	Tick    time.Duration `toml:"tick"`
	Step    float64       `toml:"step"`
	MinSize float64       `toml:"min_size"`
	MaxSize float64       `toml:"max_size"`
}

// Enemies configures spawning, firing and descent.
type Enemies struct {
	SpawnInterval time.Duration `toml:"spawn_interval"`
	FireInterval  time.Duration `toml:"fire_interval"`
	SpawnY        float64       `toml:"spawn_y"`
	BulletOffset  float64       `toml:"bullet_offset"`
	Speed         float64       `toml:"speed"`
}

// Hero configures the player ship.
type Hero struct {
	OffsetY float64 `toml:"offset_y"` // distance from the bottom edge
	KeyStep float64 `toml:"key_step"` // horizontal move per arrow key press
}

// HeroShots configures the player's bullets.
type HeroShots struct {
	FireWindow    time.Duration `toml:"fire_window"`
	Speed         float64       `toml:"speed"`
	CullOffscreen bool          `toml:"cull_offscreen"`
}

// Frame configures the compositor.
type Frame struct {
	SampleInterval time.Duration `toml:"sample_interval"`
}

// Collision configures hit detection and scoring.
type Collision struct {
	HalfWidth      float64 `toml:"half_width"`
	ScoreIncrement int     `toml:"score_increment"`
	HeroVulnerable bool    `toml:"hero_vulnerable"`
}

// Render configures terminal output.
type Render struct {
	// ColorProfile is one of "truecolor", "256", "16" or "ascii".
	// Empty means detect from the environment.
	ColorProfile string `toml:"color_profile"`
}

// Default returns the stock game parameters.
func Default() Game {
	return Game{
		Canvas: Canvas{Width: 800, Height: 600, Margin: 40},
		Stars: Stars{
			Count:   500,
			Tick:    40 * time.Millisecond,
			Step:    3,
			MinSize: 1,
			MaxSize: 4,
		},
		Enemies: Enemies{
			SpawnInterval: 1500 * time.Millisecond,
			FireInterval:  500 * time.Millisecond,
			SpawnY:        30,
			BulletOffset:  50,
			Speed:         5,
		},
		Hero: Hero{
			OffsetY: 30,
			KeyStep: 20,
		},
		HeroShots: HeroShots{
			FireWindow: 200 * time.Millisecond,
			Speed:      100,
		},
		Frame: Frame{
			SampleInterval: 500 * time.Millisecond,
		},
		Collision: Collision{
			HalfWidth:      20,
			ScoreIncrement: 10,
		},
	}
}

// Load decodes the TOML file at path over the defaults.
// An empty path or a missing file yields the defaults.
func Load(path string) (Game, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("%w: %s: %v", ErrInvalid, path, err)
	}
	return cfg.Normalize(), nil
}

// Decode parses TOML text over the defaults.
func Decode(data string) (Game, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return Default(), fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return cfg.Normalize(), nil
}

// Normalize replaces values that would break the simulation with defaults.
// TOML accepts nan and inf, so every float is checked for being finite.
// Canvas dimensions are only clamped to zero: a zero-sized canvas is a valid,
// if degenerate, game.
func (g Game) Normalize() Game {
	d := Default()

	if !finite(g.Canvas.Width) || g.Canvas.Width < 0 {
		g.Canvas.Width = 0
	}
	if !finite(g.Canvas.Height) || g.Canvas.Height < 0 {
		g.Canvas.Height = 0
	}
	g.Canvas.Margin = nonNegative(g.Canvas.Margin, d.Canvas.Margin)

	if g.Stars.Count < 0 {
		g.Stars.Count = 0
	}
	if g.Stars.Tick <= 0 {
		g.Stars.Tick = d.Stars.Tick
	}
	g.Stars.Step = nonNegative(g.Stars.Step, d.Stars.Step)
	if !finite(g.Stars.MinSize) || !finite(g.Stars.MaxSize) ||
		g.Stars.MinSize <= 0 || g.Stars.MaxSize < g.Stars.MinSize {
		g.Stars.MinSize, g.Stars.MaxSize = d.Stars.MinSize, d.Stars.MaxSize
	}

	if g.Enemies.SpawnInterval <= 0 {
		g.Enemies.SpawnInterval = d.Enemies.SpawnInterval
	}
	if g.Enemies.FireInterval <= 0 {
		g.Enemies.FireInterval = d.Enemies.FireInterval
	}
	g.Enemies.SpawnY = orDefault(g.Enemies.SpawnY, d.Enemies.SpawnY)
	g.Enemies.BulletOffset = orDefault(g.Enemies.BulletOffset, d.Enemies.BulletOffset)
	g.Enemies.Speed = nonNegative(g.Enemies.Speed, d.Enemies.Speed)

	g.Hero.OffsetY = orDefault(g.Hero.OffsetY, d.Hero.OffsetY)
	g.Hero.KeyStep = nonNegative(g.Hero.KeyStep, d.Hero.KeyStep)

	if g.HeroShots.FireWindow <= 0 {
		g.HeroShots.FireWindow = d.HeroShots.FireWindow
	}
	g.HeroShots.Speed = nonNegative(g.HeroShots.Speed, d.HeroShots.Speed)

	if g.Frame.SampleInterval <= 0 {
		g.Frame.SampleInterval = d.Frame.SampleInterval
	}

	if !finite(g.Collision.HalfWidth) || g.Collision.HalfWidth <= 0 {
		g.Collision.HalfWidth = d.Collision.HalfWidth
	}
	if g.Collision.ScoreIncrement <= 0 {
		g.Collision.ScoreIncrement = d.Collision.ScoreIncrement
	}

	return g
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func orDefault(v, fallback float64) float64 {
	if !finite(v) {
		return fallback
	}
	return v
}

func nonNegative(v, fallback float64) float64 {
	if !finite(v) || v < 0 {
		return fallback
	}
	return v
}

// WithCanvas returns a copy of g using the given canvas size.
func (g Game) WithCanvas(width, height float64) Game {
	g.Canvas.Width = width
	g.Canvas.Height = height
	return g.Normalize()
}
