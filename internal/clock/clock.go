package clock

import (
	"context"
	"time"
)

// Clock allows injecting time into the monitor and its collaborators.
type Clock interface {
	Now() time.Time
}

// Sleeper is a context-interruptible sleep. The monitor suspends only
// through a Sleeper, so shutdown can cut a pending cadence or backoff
// delay short.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type systemClock struct{}

// NewSystem returns a clock backed by time.Now.
func NewSystem() Clock {
	return systemClock{}
}

func (systemClock) Now() time.Time {
	return time.Now().UTC()
}

type fixedClock struct {
	now time.Time
}

// NewFixed returns a clock that always returns the same instant (useful for tests).
func NewFixed(t time.Time) Clock {
	return fixedClock{now: t.UTC()}
}

func (f fixedClock) Now() time.Time {
	return f.now
}

type systemSleeper struct{}

// NewSystemSleeper returns a Sleeper backed by a real timer.
func NewSystemSleeper() Sleeper {
	return systemSleeper{}
}

func (systemSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
