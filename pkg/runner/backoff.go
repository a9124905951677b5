package runner

import (
	"context"
	"math/rand"
	"time"
)

// Default backoff configuration values.
const (
	DefaultBackoffInitial = 500 * time.Millisecond
	DefaultBackoffMax     = 10 * time.Second
)

// Backoff spaces out restarts after failed sessions. Delays double from
// initial up to max, with ±20% jitter.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	current time.Duration

	// jitter returns a value in [-1, 1).
	jitter func() float64
}

// NewBackoff creates a backoff with the given initial and max durations.
func NewBackoff(initial, max time.Duration) *Backoff {
	return &Backoff{
		initial: initial,
		max:     max,
		current: initial,
		jitter:  func() float64 { return rand.Float64()*2 - 1 },
	}
}

// Next returns the jittered delay for the current step and advances.
func (b *Backoff) Next() time.Duration {
	d := time.Duration(float64(b.current) * (1 + 0.2*b.jitter()))

	b.current *= 2
	if b.current > b.max {
		b.current = b.max
	}
	return d
}

// Wait blocks for the next delay or until ctx is done, returning ctx.Err()
// in the latter case.
func (b *Backoff) Wait(ctx context.Context) error {
	t := time.NewTimer(b.Next())
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Reset resets the backoff to the initial duration.
func (b *Backoff) Reset() {
	b.current = b.initial
}

// Current returns the un-jittered delay of the next step.
func (b *Backoff) Current() time.Duration {
	return b.current
}
