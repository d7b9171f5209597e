package upscale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_DefaultSchedule(t *testing.T) {
	b := NewBackoff(nil)

	var got []time.Duration
	for i := 0; i < 12; i++ {
		got = append(got, b.Next())
	}

	assert.Equal(t, seconds(0.5, 0.5, 1, 1, 2, 2, 3, 5, 10, 10, 10, 10), got)
	assert.Equal(t, len(DefaultBackoffSchedule), b.Index())
}

func TestBackoff_NeverExceedsCap(t *testing.T) {
	b := NewBackoff(nil)
	for i := 0; i < 100; i++ {
		assert.LessOrEqual(t, b.Next(), 10*time.Second)
	}
}

func TestBackoff_CustomSchedule(t *testing.T) {
	b := NewBackoff([]time.Duration{time.Millisecond, 2 * time.Millisecond})

	assert.Equal(t, time.Millisecond, b.Next())
	assert.Equal(t, 2*time.Millisecond, b.Next())
	assert.Equal(t, 2*time.Millisecond, b.Next())
	assert.Equal(t, 2, b.Index())
}

func TestBackoff_Independent(t *testing.T) {
	a := NewBackoff(nil)
	b := NewBackoff(nil)

	a.Next()
	a.Next()
	a.Next()

	assert.Equal(t, 500*time.Millisecond, b.Next(), "backoffs must not share progress")
}
