// Package physics provides collision detection utilities.
package physics

import "math"

// BoxOverlap reports whether two centers lie strictly within half of each
// other on both axes. This is an axis-aligned box test, not a circular one.
func BoxOverlap(x1, y1, x2, y2, half float64) bool {
	return math.Abs(x1-x2) < half && math.Abs(y1-y2) < half
}
