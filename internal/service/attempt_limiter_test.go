package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnlimitedWhenMaxAttemptsIsZero(t *testing.T) {
	l := NewAttemptLimiter(nil, "ubox:", 0, time.Minute)
	ctx := context.Background()
	for i := 0; i < 10; i++ {
		_, err := l.Fail(ctx, "b:1")
		require.NoError(t, err)
	}
	locked, err := l.Locked(ctx, "b:1")
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestMemoryLimiterWindow(t *testing.T) {
	l := NewMemoryAttemptLimiter(3, time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		n, err := l.Fail(ctx, "b:1")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	locked, _ := l.Locked(ctx, "b:1")
	assert.True(t, locked)

	other, _ := l.Locked(ctx, "b:2")
	assert.False(t, other)

	now = now.Add(time.Minute)
	locked, _ = l.Locked(ctx, "b:1")
	assert.False(t, locked)
}

func TestMemoryLimiterReset(t *testing.T) {
	l := NewMemoryAttemptLimiter(1, time.Minute)
	ctx := context.Background()

	_, err := l.Fail(ctx, "b:1")
	require.NoError(t, err)
	locked, _ := l.Locked(ctx, "b:1")
	assert.True(t, locked)

	require.NoError(t, l.Reset(ctx, "b:1"))
	locked, _ = l.Locked(ctx, "b:1")
	assert.False(t, locked)
}

func TestNewAttemptLimiterFallsBackToMemory(t *testing.T) {
	l := NewAttemptLimiter(nil, "ubox:", 5, time.Minute)
	_, ok := l.(*MemoryAttemptLimiter)
	assert.True(t, ok)
}
