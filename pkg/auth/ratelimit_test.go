package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestInProcessLimiter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInProcessLimiter(2)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := l.Allow(ctx, "alice"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}
	if err := l.Allow(ctx, "alice"); !errors.Is(err, ErrTooManyRequests) {
		t.Errorf("3rd request: expected ErrTooManyRequests, got %v", err)
	}

	// Other users have their own window.
	if err := l.Allow(ctx, "bob"); err != nil {
		t.Errorf("bob: unexpected error %v", err)
	}

	now = now.Add(time.Minute)
	if err := l.Allow(ctx, "alice"); err != nil {
		t.Errorf("new window: unexpected error %v", err)
	}
}

func TestInProcessLimiter_Disabled(t *testing.T) {
	l := NewInProcessLimiter(0)
	for i := 0; i < 100; i++ {
		if err := l.Allow(context.Background(), "alice"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i+1, err)
		}
	}
}

func TestInProcessLimiter_SweepsClosedWindows(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewInProcessLimiter(5)
	l.now = func() time.Time { return now }

	l.Allow(context.Background(), "alice")
	now = now.Add(2 * time.Minute)
	l.Allow(context.Background(), "bob")

	if _, ok := l.counters["alice"]; ok {
		t.Error("expired counter for alice should have been swept")
	}
}
