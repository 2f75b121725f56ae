package services

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopLoginLimiter(t *testing.T) {
	var limiter LoginLimiter = NoopLoginLimiter{}
	for i := 0; i < 100; i++ {
		ok, err := limiter.Allow(context.Background(), "1.2.3.4")
		require.NoError(t, err)
		require.True(t, ok)
	}
}

func TestNewRedisLoginLimiterBadURL(t *testing.T) {
	_, err := NewRedisLoginLimiter("not a url", 5, time.Minute)
	assert.Error(t, err)
}

func TestRedisLoginLimiterWindow(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	limiter, err := NewRedisLoginLimiter(url, 3, time.Minute)
	require.NoError(t, err)
	defer limiter.Close()

	ctx := context.Background()
	key := "test-" + uuid.NewString()
	t.Cleanup(func() { limiter.Client.Del(context.Background(), limiter.prefix+key) })

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d", i+1)
	}
	ok, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	ttl, err := limiter.Client.TTL(ctx, limiter.prefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
