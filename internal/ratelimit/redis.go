package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares attempt counters across instances. Redis key expiry
// replaces the memory limiter's lazy sweep: an expired window simply means
// the key is gone.
type RedisLimiter struct {
	client    *redis.Client
	threshold int
	window    time.Duration
}

func NewRedisLimiter(client *redis.Client, threshold int, window time.Duration) *RedisLimiter {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &RedisLimiter{client: client, threshold: threshold, window: window}
}

func (l *RedisLimiter) key(username string) string {
	return "login:failures:" + Key(username)
}

func (l *RedisLimiter) IsLocked(ctx context.Context, username string) (bool, error) {
	count, err := l.client.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("rate limit get: %w", err)
	}
	return count >= l.threshold, nil
}

func (l *RedisLimiter) RecordFailure(ctx context.Context, username string) (bool, error) {
	key := l.key(username)
	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("rate limit incr: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("rate limit expire: %w", err)
		}
	}
	return count >= int64(l.threshold), nil
}

func (l *RedisLimiter) Clear(ctx context.Context, username string) error {
	if err := l.client.Del(ctx, l.key(username)).Err(); err != nil {
		return fmt.Errorf("rate limit del: %w", err)
	}
	return nil
}
