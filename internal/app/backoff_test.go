package app

import (
	"testing"
	"time"
)

func TestBackoff(t *testing.T) {
	t.Parallel()

	t.Run("first delay exceeds the base cadence", func(t *testing.T) {
		b := newBackoff(2*time.Second, 2*time.Minute)
		if got := b.next(); got <= 2*time.Second {
			t.Fatalf("expected first backoff above base cadence, got %s", got)
		}
	})

	t.Run("delays grow and stop at the cap", func(t *testing.T) {
		b := newBackoff(time.Second, 10*time.Second)

		var prev time.Duration
		for i := 0; i < 8; i++ {
			d := b.next()
			if d < prev {
				t.Fatalf("delay shrank from %s to %s", prev, d)
			}
			if d > 10*time.Second {
				t.Fatalf("delay %s exceeds cap", d)
			}
			prev = d
		}
		if prev != 10*time.Second {
			t.Fatalf("expected to reach cap, got %s", prev)
		}
	})

	t.Run("reset clears the streak", func(t *testing.T) {
		b := newBackoff(time.Second, time.Minute)
		first := b.next()
		b.next()
		b.next()
		b.reset()
		if b.consecutive() != 0 {
			t.Fatalf("expected zero consecutive failures after reset, got %d", b.consecutive())
		}
		if got := b.next(); got != first {
			t.Fatalf("expected post-reset delay %s to match first delay, got %s", first, got)
		}
	})

	t.Run("sub-second base is raised to a floor", func(t *testing.T) {
		b := newBackoff(100*time.Millisecond, time.Minute)
		if got := b.next(); got < time.Second {
			t.Fatalf("expected at least 1s backoff for tiny cadence, got %s", got)
		}
	})
}
