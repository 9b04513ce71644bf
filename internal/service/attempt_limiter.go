package service

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed PIN attempts per account and reports lockouts.
type AttemptLimiter interface {
	Locked(ctx context.Context, key string) (bool, error)
	Fail(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

// NewAttemptLimiter picks the limiter for the configuration. maxAttempts <= 0
// disables lockout; a nil Redis client keeps counters in memory.
func NewAttemptLimiter(client *redis.Client, prefix string, maxAttempts int, window time.Duration) AttemptLimiter {
	if maxAttempts <= 0 {
		return unlimitedLimiter{}
	}
	if client == nil {
		return NewMemoryAttemptLimiter(maxAttempts, window)
	}
	return &redisAttemptLimiter{client: client, prefix: prefix + "pin_fail:", max: maxAttempts, window: window}
}

type unlimitedLimiter struct{}

func (unlimitedLimiter) Locked(context.Context, string) (bool, error) { return false, nil }
func (unlimitedLimiter) Fail(context.Context, string) (int, error)    { return 0, nil }
func (unlimitedLimiter) Reset(context.Context, string) error          { return nil }

type redisAttemptLimiter struct {
	client *redis.Client
	prefix string
	max    int
	window time.Duration
}

func (l *redisAttemptLimiter) Locked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, l.prefix+key).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n >= l.max, nil
}

func (l *redisAttemptLimiter) Fail(ctx context.Context, key string) (int, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, l.prefix+key)
	pipe.ExpireNX(ctx, l.prefix+key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}

func (l *redisAttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.prefix+key).Err()
}

type failureWindow struct {
	count   int
	expires time.Time
}

// MemoryAttemptLimiter keeps fixed-window failure counters in process.
type MemoryAttemptLimiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]failureWindow
	now     func() time.Time
}

// NewMemoryAttemptLimiter builds an in-process limiter.
func NewMemoryAttemptLimiter(maxAttempts int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		max:     maxAttempts,
		window:  window,
		entries: make(map[string]failureWindow),
		now:     time.Now,
	}
}

func (l *MemoryAttemptLimiter) current(key string) failureWindow {
	e, ok := l.entries[key]
	if ok && !l.now().Before(e.expires) {
		delete(l.entries, key)
		return failureWindow{}
	}
	return e
}

func (l *MemoryAttemptLimiter) Locked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current(key).count >= l.max, nil
}

func (l *MemoryAttemptLimiter) Fail(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e := l.current(key)
	if e.count == 0 {
		e.expires = l.now().Add(l.window)
	}
	e.count++
	l.entries[key] = e
	return e.count, nil
}

func (l *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}
