package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type WindowStore interface {
	IncrementWindow(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
	WindowState(ctx context.Context, key string) (int64, time.Duration, error)
}

// Limiter counts requests per client in a fixed window. A zero ceiling
// disables limiting.
type Limiter struct {
	store   WindowStore
	window  time.Duration
	ceiling int
}

func NewLimiter(store WindowStore, window time.Duration, ceiling int) *Limiter {
	if window <= 0 {
		window = time.Minute
	}
	if ceiling < 0 {
		ceiling = 0
	}

	return &Limiter{
		store:   store,
		window:  window,
		ceiling: ceiling,
	}
}

func (l *Limiter) Allow(ctx context.Context, clientKey string) (int64, bool, error) {
	if strings.TrimSpace(clientKey) == "" {
		return 0, false, fmt.Errorf("client key is required")
	}
	if l.store == nil {
		return 0, false, fmt.Errorf("rate limiter store is nil")
	}
	if l.ceiling == 0 {
		return 0, true, nil
	}

	count, ttl, err := l.store.IncrementWindow(ctx, windowKey(clientKey), l.window)
	if err != nil {
		return 0, false, err
	}
	if count > int64(l.ceiling) {
		return ceilSeconds(ttl), false, nil
	}

	return 0, true, nil
}

func (l *Limiter) RetryAfter(ctx context.Context, clientKey string) (int64, error) {
	if strings.TrimSpace(clientKey) == "" {
		return 0, fmt.Errorf("client key is required")
	}
	if l.store == nil {
		return 0, fmt.Errorf("rate limiter store is nil")
	}
	if l.ceiling == 0 {
		return 0, nil
	}

	count, ttl, err := l.store.WindowState(ctx, windowKey(clientKey))
	if err != nil {
		return 0, err
	}
	if count >= int64(l.ceiling) {
		return ceilSeconds(ttl), nil
	}

	return 0, nil
}

func windowKey(clientKey string) string {
	return "rate:req:" + clientKey
}

func ceilSeconds(d time.Duration) int64 {
	if d <= 0 {
		return 0
	}
	sec := int64(d / time.Second)
	if d%time.Second != 0 {
		sec++
	}
	if sec <= 0 {
		sec = 1
	}
	return sec
}
