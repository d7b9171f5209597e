package upscale

import "time"

// DefaultBackoffSchedule is the sequence of waits between status checks.
// Once exhausted, the last value is reused for every further wait.
var DefaultBackoffSchedule = []time.Duration{
	500 * time.Millisecond,
	500 * time.Millisecond,
	1 * time.Second,
	1 * time.Second,
	2 * time.Second,
	2 * time.Second,
	3 * time.Second,
	5 * time.Second,
	10 * time.Second,
}

// Backoff walks a capped schedule of wait intervals.
type Backoff struct {
	schedule []time.Duration
	index    int
}

// NewBackoff creates a Backoff over schedule. An empty schedule falls back
// to DefaultBackoffSchedule.
func NewBackoff(schedule []time.Duration) *Backoff {
	if len(schedule) == 0 {
		schedule = DefaultBackoffSchedule
	}
	return &Backoff{schedule: schedule}
}

// Next returns the current interval and advances to the following one.
func (b *Backoff) Next() time.Duration {
	last := len(b.schedule) - 1
	if b.index > last {
		return b.schedule[last]
	}
	d := b.schedule[b.index]
	b.index++
	return d
}

// Index reports how many intervals have been handed out, capped at the
// schedule length.
func (b *Backoff) Index() int {
	return b.index
}
