package upscale

import (
	"context"
	"time"
)

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Sleeper waits for a duration or until ctx is done, whichever comes first.
// It returns ctx.Err() if the wait was cut short.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// TimerSleeper waits on a timer. The waiting goroutine is parked, not
// spinning, so many concurrent waits cost no OS threads.
type TimerSleeper struct{}

// Sleep implements Sleeper.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
