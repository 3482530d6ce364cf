package clock

import (
	"context"
	"testing"
	"time"
)

var epoch = time.UnixMilli(0)

func TestEveryFiresOncePerInterval(t *testing.T) {
	s := NewScheduler(epoch)
	count := 0
	s.Every(nil, 40*time.Millisecond, func(time.Time) { count++ })

	if n := s.Advance(39 * time.Millisecond); n != 0 {
		t.Fatalf("fired %d times before the first deadline", n)
	}
	s.Advance(1 * time.Millisecond)
	if count != 1 {
		t.Fatalf("count = %d, want 1", count)
	}

	s.Advance(400 * time.Millisecond)
	if count != 11 {
		t.Fatalf("count = %d, want 11 after 440ms", count)
	}
}

func TestCallbacksRunInDeadlineOrder(t *testing.T) {
	s := NewScheduler(epoch)
	var got []string
	s.Every(nil, 30*time.Millisecond, func(time.Time) { got = append(got, "slow") })
	s.Every(nil, 20*time.Millisecond, func(time.Time) { got = append(got, "fast") })
	s.Every(nil, 30*time.Millisecond, func(time.Time) { got = append(got, "tie") })

	s.Advance(60 * time.Millisecond)

	want := []string{"fast", "slow", "tie", "fast", "slow", "fast", "tie"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestCallbackSeesDeadlineAsNow(t *testing.T) {
	s := NewScheduler(epoch)
	var seen []time.Time
	s.Every(nil, 100*time.Millisecond, func(now time.Time) {
		seen = append(seen, now)
		if !s.Now().Equal(now) {
			t.Errorf("Now() = %v inside callback, want %v", s.Now(), now)
		}
	})

	s.Advance(250 * time.Millisecond)

	if len(seen) != 2 || !seen[0].Equal(epoch.Add(100*time.Millisecond)) || !seen[1].Equal(epoch.Add(200*time.Millisecond)) {
		t.Fatalf("unexpected callback times %v", seen)
	}
	if !s.Now().Equal(epoch.Add(250 * time.Millisecond)) {
		t.Fatalf("Now() = %v after advance", s.Now())
	}
}

func TestContextCancelReleasesTimer(t *testing.T) {
	s := NewScheduler(epoch)
	ctx, cancel := context.WithCancel(context.Background())
	count := 0
	s.Every(ctx, 10*time.Millisecond, func(time.Time) { count++ })
	s.Every(nil, 10*time.Millisecond, func(time.Time) {})

	s.Advance(30 * time.Millisecond)
	cancel()
	s.Advance(30 * time.Millisecond)

	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestStopFromInsideCallback(t *testing.T) {
	s := NewScheduler(epoch)
	count := 0
	var timer *Timer
	timer = s.Every(nil, 10*time.Millisecond, func(time.Time) {
		count++
		if count == 2 {
			timer.Stop()
		}
	})

	s.Advance(100 * time.Millisecond)

	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
	if _, ok := s.Next(); ok {
		t.Fatal("expected empty queue after stop")
	}
}

func TestTimerRegisteredInCallbackFiresInSameAdvance(t *testing.T) {
	s := NewScheduler(epoch)
	inner := 0
	once := false
	s.Every(nil, 100*time.Millisecond, func(time.Time) {
		if once {
			return
		}
		once = true
		s.Every(nil, 10*time.Millisecond, func(time.Time) { inner++ })
	})

	s.Advance(150 * time.Millisecond)

	if inner != 5 {
		t.Fatalf("inner = %d, want 5", inner)
	}
}

func TestCompactionKeepsLiveTimers(t *testing.T) {
	s := NewScheduler(epoch)
	var cancels []context.CancelFunc
	for i := 0; i < 200; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancels = append(cancels, cancel)
		s.Every(ctx, time.Duration(i+1)*time.Second, func(time.Time) {})
	}
	live := 0
	s.Every(nil, time.Millisecond, func(time.Time) { live++ })
	for _, cancel := range cancels {
		cancel()
	}

	s.Advance(5 * time.Millisecond)

	if live != 5 {
		t.Fatalf("live = %d, want 5", live)
	}
	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
}

func TestReleasedTimersAreSweptWhileRunning(t *testing.T) {
	s := NewScheduler(epoch)
	var cancels []context.CancelFunc
	for i := 0; i < 300; i++ {
		ctx, cancel := context.WithCancel(context.Background())
		cancels = append(cancels, cancel)
		s.Every(ctx, time.Hour+time.Duration(i)*time.Second, func(time.Time) {})
	}
	live := 0
	s.Every(nil, time.Millisecond, func(time.Time) { live++ })

	s.Advance(10 * time.Millisecond)
	for _, cancel := range cancels {
		cancel()
	}
	if len(s.queue) != 301 {
		t.Fatalf("queue holds %d timers before the sweep", len(s.queue))
	}

	s.Advance(time.Second)

	if live != 1010 {
		t.Fatalf("live = %d, want 1010", live)
	}
	if len(s.queue) != 1 {
		t.Fatalf("queue holds %d timers, want 1 after the sweep", len(s.queue))
	}
}
