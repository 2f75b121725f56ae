package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter decides whether another login attempt from key is allowed.
type LoginLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// NoopLoginLimiter allows everything; used when Redis is not configured.
type NoopLoginLimiter struct{}

func (NoopLoginLimiter) Allow(context.Context, string) (bool, error) { return true, nil }

// RedisLoginLimiter is a fixed-window counter per key.
type RedisLoginLimiter struct {
	Client *redis.Client
	Limit  int
	Window time.Duration
	prefix string
}

func NewRedisLoginLimiter(redisURL string, limit int, window time.Duration) (*RedisLoginLimiter, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisLoginLimiter{
		Client: client,
		Limit:  limit,
		Window: window,
		prefix: "keepnotes:login:",
	}, nil
}

func (l *RedisLoginLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if l.Limit <= 0 {
		return true, nil
	}

	redisKey := l.prefix + key
	count, err := l.Client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, fmt.Errorf("incr login counter: %w", err)
	}
	if count == 1 {
		if err := l.Client.Expire(ctx, redisKey, l.Window).Err(); err != nil {
			return true, fmt.Errorf("expire login counter: %w", err)
		}
	}
	return count <= int64(l.Limit), nil
}

// Close closes the Redis connection
func (l *RedisLoginLimiter) Close() error {
	return l.Client.Close()
}
