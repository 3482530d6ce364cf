// Package stream provides the value streams the entity producers publish to.
//
// A Stream remembers its latest value and calls its subscribers synchronously
// on every Emit. It is not safe for concurrent use: a stream belongs to the
// goroutine that runs its producer.
package stream

// Stream is a time-ordered sequence of values of type T.
type Stream[T any] struct {
	latest T
	has    bool
	subs   []subscriber[T]
	nextID int
}

type subscriber[T any] struct {
	id int
	fn func(T)
}

// New creates a stream with no value yet.
func New[T any]() *Stream[T] {
	return &Stream[T]{}
}

// Of creates a stream that starts with initial as its latest value.
func Of[T any](initial T) *Stream[T] {
	return &Stream[T]{latest: initial, has: true}
}

// Emit records v as the latest value and hands it to every subscriber in
// subscription order.
func (s *Stream[T]) Emit(v T) {
	s.latest = v
	s.has = true
	// Subscribers may unsubscribe while being notified.
	subs := append([]subscriber[T](nil), s.subs...)
	for _, sub := range subs {
		sub.fn(v)
	}
}

// Latest returns the most recent value and whether one was ever emitted.
func (s *Stream[T]) Latest() (T, bool) {
	return s.latest, s.has
}

// Subscribe registers fn for future values. The current value is not replayed.
// The returned function removes the subscription.
func (s *Stream[T]) Subscribe(fn func(T)) (cancel func()) {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber[T]{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of active subscriptions.
func (s *Stream[T]) Subscribers() int {
	return len(s.subs)
}
