// Package object defines the game entities: stars, enemies, shots and the hero.
//
// Entities are plain records. Stars, enemies and shots are shared by pointer
// between their producer and the frame that references them and are mutated
// in place; the hero is a value replaced on every update.
package object

import "math"

// Point is a position on the play surface. The origin is the top-left corner
// and y grows downward; units are pixels.
type Point struct {
	X, Y float64
}

// Position returns the point itself. Embedding Point makes a type Locatable.
func (p Point) Position() Point {
	return p
}

// Locatable is anything with a position.
type Locatable interface {
	Position() Point
}

// Screen holds the play surface dimensions.
type Screen struct {
	Width  float64
	Height float64
}

// NewScreen creates a screen, clamping negative dimensions to zero.
func NewScreen(width, height float64) Screen {
	if width < 0 || math.IsNaN(width) {
		width = 0
	}
	if height < 0 || math.IsNaN(height) {
		height = 0
	}
	return Screen{Width: width, Height: height}
}

// Center returns the middle of the screen.
func (s Screen) Center() Point {
	return Point{X: s.Width / 2, Y: s.Height / 2}
}

// Contains reports whether p lies inside the screen grown by margin on every side.
func (s Screen) Contains(p Point, margin float64) bool {
	return p.X > -margin && p.X < s.Width+margin &&
		p.Y > -margin && p.Y < s.Height+margin
}

// Empty reports whether the screen has no area.
func (s Screen) Empty() bool {
	return s.Width <= 0 || s.Height <= 0
}
