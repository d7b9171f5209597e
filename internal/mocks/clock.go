package mocks

import (
	"context"
	"sync"
	"time"
)

// FakeClock is a manually advanced clock implementing upscale.Clock.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock creates a FakeClock set to a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now implements upscale.Clock
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// RecordingSleeper implements upscale.Sleeper without blocking. Each call is
// recorded and, when Clock is set, advances it by the requested duration.
type RecordingSleeper struct {
	Clock *FakeClock

	// OnSleep runs before the clock is advanced, with the 1-based call
	// number. A non-nil error is returned from Sleep.
	OnSleep func(call int) error

	mu    sync.Mutex
	waits []time.Duration
}

// Sleep implements upscale.Sleeper
func (s *RecordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	call := len(s.waits)
	s.mu.Unlock()

	if s.OnSleep != nil {
		if err := s.OnSleep(call); err != nil {
			return err
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.Clock != nil {
		s.Clock.Advance(d)
	}
	return nil
}

// Waits returns a copy of the recorded durations.
func (s *RecordingSleeper) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.waits))
	copy(out, s.waits)
	return out
}
