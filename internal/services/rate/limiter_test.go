package rate

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	redrepo "github.com/nkarpovich/duet-backend/internal/repo/redis"
)

func TestLimiterBlocksAtCeiling(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, 10*time.Second, 2)

	ctx := context.Background()
	clientKey := "203.0.113.7"

	for i := 0; i < 2; i++ {
		retryAfter, allowed, err := limiter.Allow(ctx, clientKey)
		if err != nil {
			t.Fatalf("allow #%d: %v", i+1, err)
		}
		if !allowed || retryAfter != 0 {
			t.Fatalf("unexpected result on allow #%d: allowed=%v retry_after=%d", i+1, allowed, retryAfter)
		}
	}

	retryAfter, allowed, err := limiter.Allow(ctx, clientKey)
	if err != nil {
		t.Fatalf("allow #3: %v", err)
	}
	if allowed {
		t.Fatalf("expected limiter block on third request in window")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry_after, got %d", retryAfter)
	}

	currentRetry, err := limiter.RetryAfter(ctx, clientKey)
	if err != nil {
		t.Fatalf("retry_after state: %v", err)
	}
	if currentRetry <= 0 {
		t.Fatalf("expected positive retry_after state, got %d", currentRetry)
	}

	mr.FastForward(11 * time.Second)

	retryAfter, allowed, err = limiter.Allow(ctx, clientKey)
	if err != nil {
		t.Fatalf("allow after window: %v", err)
	}
	if !allowed || retryAfter != 0 {
		t.Fatalf("unexpected result after fast forward: allowed=%v retry_after=%d", allowed, retryAfter)
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, time.Minute, 1)

	ctx := context.Background()

	if _, allowed, err := limiter.Allow(ctx, "198.51.100.1"); err != nil || !allowed {
		t.Fatalf("first client first request should pass: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.Allow(ctx, "198.51.100.1"); err != nil || allowed {
		t.Fatalf("first client second request should block: allowed=%v err=%v", allowed, err)
	}
	if _, allowed, err := limiter.Allow(ctx, "198.51.100.2"); err != nil || !allowed {
		t.Fatalf("second client should not share the window: allowed=%v err=%v", allowed, err)
	}
}

func TestLimiterZeroCeilingDisables(t *testing.T) {
	mr, client := newMiniRedisClient(t)
	defer mr.Close()
	defer func() { _ = client.Close() }()

	repo := redrepo.NewRateRepo(client)
	limiter := NewLimiter(repo, time.Minute, 0)

	for i := 0; i < 10; i++ {
		if _, allowed, err := limiter.Allow(context.Background(), "unlimited"); err != nil || !allowed {
			t.Fatalf("zero ceiling should always allow: allowed=%v err=%v", allowed, err)
		}
	}
}

func newMiniRedisClient(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}

	client := goredis.NewClient(&goredis.Options{
		Addr: mr.Addr(),
	})

	return mr, client
}
