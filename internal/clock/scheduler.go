// Package clock provides the cooperative timer queue that drives every
// periodic process of a game: star ticks, enemy spawns, enemy firing, trigger
// sampling and frame sampling.
//
// A Scheduler never starts goroutines. Callbacks run on whichever goroutine
// advances the scheduler, in deadline order, so all game state can be owned by
// a single goroutine.
package clock

import (
	"container/heap"
	"context"
	"time"
)

// Scheduler is a queue of periodic timers advanced explicitly by its owner.
type Scheduler struct {
	now    time.Time
	queue  timerQueue
	nextID uint64

	// sweepIn counts calls to dropReleased until the next full sweep.
	sweepIn int
}

// Timer is a periodic callback registered with a Scheduler.
type Timer struct {
	id       uint64
	interval time.Duration
	deadline time.Time
	fn       func(now time.Time)
	ctx      context.Context
	stopped  bool
	index    int // position in the heap, -1 once removed
}

// NewScheduler creates a scheduler whose clock starts at start.
func NewScheduler(start time.Time) *Scheduler {
	return &Scheduler{now: start}
}

// Now returns the scheduler's current time.
func (s *Scheduler) Now() time.Time {
	return s.now
}

// Every registers fn to run every interval, first at Now()+interval.
// The timer is released when ctx is done or Stop is called; a nil ctx never
// expires. Non-positive intervals are clamped to one millisecond.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, fn func(now time.Time)) *Timer {
	if interval <= 0 {
		interval = time.Millisecond
	}
	if ctx == nil {
		ctx = context.Background()
	}
	s.nextID++
	t := &Timer{
		id:       s.nextID,
		interval: interval,
		deadline: s.now.Add(interval),
		fn:       fn,
		ctx:      ctx,
	}
	heap.Push(&s.queue, t)
	return t
}

// Stop cancels the timer. Stopping twice is harmless.
func (t *Timer) Stop() {
	t.stopped = true
}

// Active reports whether the timer can still fire.
func (t *Timer) Active() bool {
	return !t.stopped && t.ctx.Err() == nil
}

// Next returns the earliest pending deadline, dropping released timers first.
func (s *Scheduler) Next() (time.Time, bool) {
	s.dropReleased()
	if len(s.queue) == 0 {
		return time.Time{}, false
	}
	return s.queue[0].deadline, true
}

// Len returns the number of live timers.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.queue {
		if t.Active() {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d. See AdvanceTo.
func (s *Scheduler) Advance(d time.Duration) int {
	return s.AdvanceTo(s.now.Add(d))
}

// AdvanceTo runs every callback whose deadline is at or before t, in deadline
// order with registration order breaking ties, and returns how many ran.
// A periodic timer that is several intervals behind fires once per missed
// interval. Timers registered by a callback are eligible in the same call.
func (s *Scheduler) AdvanceTo(t time.Time) int {
	fired := 0
	for {
		s.dropReleased()
		if len(s.queue) == 0 || s.queue[0].deadline.After(t) {
			break
		}
		next := s.queue[0]
		s.now = next.deadline
		next.deadline = next.deadline.Add(next.interval)
		heap.Fix(&s.queue, 0)
		next.fn(s.now)
		fired++
	}
	if t.After(s.now) {
		s.now = t
	}
	return fired
}

func (s *Scheduler) dropReleased() {
	for len(s.queue) > 0 && !s.queue[0].Active() {
		heap.Pop(&s.queue)
	}
	// Released timers deeper in the heap are collected lazily once they
	// surface. A full sweep is O(n), so it runs at most once per n calls and
	// compacts when released timers dominate.
	if s.sweepIn > 0 {
		s.sweepIn--
		return
	}
	s.sweepIn = len(s.queue)
	if dead := len(s.queue) - s.Len(); dead > 64 && dead > len(s.queue)/2 {
		kept := s.queue[:0]
		for _, t := range s.queue {
			if t.Active() {
				t.index = len(kept)
				kept = append(kept, t)
			} else {
				t.index = -1
			}
		}
		for i := len(kept); i < len(s.queue); i++ {
			s.queue[i] = nil
		}
		s.queue = kept
		heap.Init(&s.queue)
	}
}

// timerQueue orders timers by deadline, then by registration.
type timerQueue []*Timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].deadline.Equal(q[j].deadline) {
		return q[i].id < q[j].id
	}
	return q[i].deadline.Before(q[j].deadline)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*Timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
