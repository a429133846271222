package app

import "time"

// backoff tracks consecutive failed cycles and yields a capped
// exponential delay. The first delay is already one doubling above the
// base, so a throttled monitor always waits strictly longer than its
// normal cadence.
type backoff struct {
	base     time.Duration
	cap      time.Duration
	failures int
}

const minBackoffBase = time.Second

func newBackoff(base, cap time.Duration) *backoff {
	if base < minBackoffBase {
		base = minBackoffBase
	}
	if cap < base {
		cap = base
	}
	return &backoff{base: base, cap: cap}
}

// next records one more failure and returns the delay to apply before
// the retry.
func (b *backoff) next() time.Duration {
	b.failures++
	d := b.base
	for i := 0; i < b.failures && d < b.cap; i++ {
		d *= 2
	}
	if d > b.cap {
		d = b.cap
	}
	return d
}

// reset clears the failure streak after a fully successful cycle.
func (b *backoff) reset() {
	b.failures = 0
}

func (b *backoff) consecutive() int {
	return b.failures
}
