package runner

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBackoff_Doubles(t *testing.T) {
	b := NewBackoff(100*time.Millisecond, time.Second)
	b.jitter = func() float64 { return 0 }

	var got []time.Duration
	for i := 0; i < 6; i++ {
		got = append(got, b.Next())
	}
	assert.Equal(t, []time.Duration{
		100 * time.Millisecond,
		200 * time.Millisecond,
		400 * time.Millisecond,
		800 * time.Millisecond,
		time.Second,
		time.Second,
	}, got)

	b.Reset()
	assert.Equal(t, 100*time.Millisecond, b.Current())
}

func TestBackoff_Jitter(t *testing.T) {
	b := NewBackoff(time.Second, time.Minute)

	b.jitter = func() float64 { return -1 }
	assert.InDelta(t, float64(800*time.Millisecond), float64(b.Next()), float64(time.Microsecond))

	b.jitter = func() float64 { return 0.5 }
	assert.InDelta(t, float64(2200*time.Millisecond), float64(b.Next()), float64(time.Microsecond))

	b = NewBackoff(time.Second, time.Minute)
	for i := 0; i < 20; i++ {
		b.Reset()
		d := b.Next()
		assert.GreaterOrEqual(t, d, 800*time.Millisecond-time.Microsecond)
		assert.Less(t, d, 1200*time.Millisecond)
	}
}

func TestBackoff_WaitCanceled(t *testing.T) {
	b := NewBackoff(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, b.Wait(ctx), context.Canceled)
}

func TestBackoff_Wait(t *testing.T) {
	b := NewBackoff(time.Millisecond, time.Millisecond)
	assert.NoError(t, b.Wait(context.Background()))
}
