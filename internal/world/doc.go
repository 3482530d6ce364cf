// Package world holds the five producers of simulation state: the star field,
// the enemy arena, the hero tracker, the hero shot tracker and the score
// accumulator.
//
// Each producer is a small state machine driven by timer callbacks from a
// clock.Scheduler or by input calls from the engine, and publishes its state
// on a stream.Stream. None of them is safe for concurrent use; they all run on
// the engine goroutine.
package world
