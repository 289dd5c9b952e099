package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	likesReceivedPrefix = "stats:likes_received:"

	statsTTL = time.Hour
)

// StatsRepo caches interaction counters that are expensive to recount on
// every stats request. Values are best effort; a miss falls back to postgres.
type StatsRepo struct {
	client *goredis.Client
}

func NewStatsRepo(client *goredis.Client) *StatsRepo {
	return &StatsRepo{client: client}
}

func (r *StatsRepo) GetLikesReceived(ctx context.Context, userID int64) (int64, bool, error) {
	if r.client == nil {
		return 0, false, fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return 0, false, fmt.Errorf("invalid user id")
	}

	value, err := r.client.Get(ctx, likesReceivedKey(userID)).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get likes counter: %w", err)
	}

	count, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, false, nil
	}

	return count, true, nil
}

func (r *StatsRepo) SetLikesReceived(ctx context.Context, userID, count int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if err := r.client.Set(ctx, likesReceivedKey(userID), count, statsTTL).Err(); err != nil {
		return fmt.Errorf("set likes counter: %w", err)
	}

	return nil
}

// InvalidateLikesReceived drops the cached counter after a new like lands so
// the next stats read recounts from postgres.
func (r *StatsRepo) InvalidateLikesReceived(ctx context.Context, userID int64) error {
	if r.client == nil {
		return fmt.Errorf("redis client is nil")
	}
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}

	if err := r.client.Del(ctx, likesReceivedKey(userID)).Err(); err != nil {
		return fmt.Errorf("invalidate likes counter: %w", err)
	}

	return nil
}

func likesReceivedKey(userID int64) string {
	return likesReceivedPrefix + strconv.FormatInt(userID, 10)
}
