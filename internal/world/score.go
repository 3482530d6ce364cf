package world

import "github.com/tomz197/spacegame/internal/stream"

// Score accumulates score increments. It starts by publishing 0.
type Score struct {
	total int
	out   *stream.Stream[int]
}

// NewScore creates a zero score.
func NewScore() *Score {
	return &Score{out: stream.Of(0)}
}

// Stream publishes the running total.
func (s *Score) Stream() *stream.Stream[int] {
	return s.out
}

// Add increases the score by delta and publishes the total.
// Non-positive deltas are ignored so the score never decreases.
func (s *Score) Add(delta int) bool {
	if delta <= 0 {
		return false
	}
	s.total += delta
	s.out.Emit(s.total)
	return true
}

// Value returns the running total.
func (s *Score) Value() int {
	return s.total
}
