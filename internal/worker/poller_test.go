package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollerRunsImmediatelyAndRepeats(t *testing.T) {
	p := NewPoller(10*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, func(context.Context) error {
			if calls.Add(1) == 3 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
	assert.GreaterOrEqual(t, calls.Load(), int32(3))
}

func TestPollerStopsWhenTaskFails(t *testing.T) {
	p := NewPoller(time.Hour, nil)
	boom := errors.New("client gone")

	var calls int
	err := p.Run(context.Background(), func(context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPollerDefaultsInterval(t *testing.T) {
	assert.Equal(t, DefaultPollInterval, NewPoller(0, nil).Interval())
}

func TestPollerDoesNotTickAfterCancel(t *testing.T) {
	p := NewPoller(time.Hour, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls int
	err := p.Run(ctx, func(context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}
