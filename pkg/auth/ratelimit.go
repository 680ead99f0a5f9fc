package auth

import (
	"context"
	"sync"
	"time"
)

// RateLimiter checks whether a request from the given user may proceed.
type RateLimiter interface {
	Allow(ctx context.Context, userID string) error
}

// InProcessLimiter is a fixed-window rate limiter that tracks request
// counts per user in memory.
type InProcessLimiter struct {
	rpm      int
	window   time.Duration
	now      func() time.Time
	mu       sync.Mutex
	counters map[string]*counter
}

type counter struct {
	count    int
	windowAt time.Time
}

// NewInProcessLimiter creates a limiter allowing rpm requests per user per
// minute. rpm <= 0 disables limiting.
func NewInProcessLimiter(rpm int) *InProcessLimiter {
	return &InProcessLimiter{
		rpm:      rpm,
		window:   time.Minute,
		now:      time.Now,
		counters: make(map[string]*counter),
	}
}

// Allow checks if the request is within the rate limit.
func (l *InProcessLimiter) Allow(_ context.Context, userID string) error {
	if l.rpm <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.counters[userID]
	if !ok || now.Sub(c.windowAt) >= l.window {
		l.counters[userID] = &counter{count: 1, windowAt: now}
		l.sweep(now)
		return nil
	}

	c.count++
	if c.count > l.rpm {
		return ErrTooManyRequests
	}
	return nil
}

// sweep drops counters whose window has closed. Caller holds l.mu.
func (l *InProcessLimiter) sweep(now time.Time) {
	for id, c := range l.counters {
		if now.Sub(c.windowAt) >= l.window {
			delete(l.counters, id)
		}
	}
}
