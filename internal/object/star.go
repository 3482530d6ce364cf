package object

import "math/rand"

// Star is a background star. Size is its side length in pixels.
type Star struct {
	Point
	Size float64
}

// NewRandomStar places a star uniformly on the screen with a size in
// [minSize, maxSize).
func NewRandomStar(rng *rand.Rand, screen Screen, minSize, maxSize float64) Star {
	return Star{
		Point: Point{
			X: rng.Float64() * screen.Width,
			Y: rng.Float64() * screen.Height,
		},
		Size: minSize + rng.Float64()*(maxSize-minSize),
	}
}

// Fall moves the star down by step, wrapping to the top edge once it reaches
// height. The x coordinate never changes.
func (s *Star) Fall(step, height float64) {
	if height <= 0 {
		return
	}
	s.Y += step
	if s.Y >= height || s.Y < 0 {
		s.Y = 0
	}
}
