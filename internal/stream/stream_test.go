package stream

import "testing"

func TestLatestBeforeAndAfterEmit(t *testing.T) {
	s := New[int]()
	if _, ok := s.Latest(); ok {
		t.Fatal("new stream should have no value")
	}
	s.Emit(4)
	if v, ok := s.Latest(); !ok || v != 4 {
		t.Fatalf("Latest() = %d, %v; want 4, true", v, ok)
	}
}

func TestOfStartsWithValue(t *testing.T) {
	s := Of("start")
	if v, ok := s.Latest(); !ok || v != "start" {
		t.Fatalf("Latest() = %q, %v", v, ok)
	}
}

func TestSubscribeReceivesOnlyFutureValues(t *testing.T) {
	s := Of(1)
	var got []int
	cancel := s.Subscribe(func(v int) { got = append(got, v) })

	s.Emit(2)
	s.Emit(3)
	cancel()
	s.Emit(4)

	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("got %v, want [2 3]", got)
	}
	if s.Subscribers() != 0 {
		t.Fatalf("Subscribers() = %d after cancel", s.Subscribers())
	}
}

func TestUnsubscribeDuringNotification(t *testing.T) {
	s := New[int]()
	calls := 0
	var cancelFirst func()
	cancelFirst = s.Subscribe(func(int) {
		calls++
		cancelFirst()
	})
	s.Subscribe(func(int) { calls++ })

	s.Emit(1)
	s.Emit(2)

	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}
