package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_WindowAndReset(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2, 15*time.Minute)
	l.now = func() time.Time { return now }

	res, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 1, res.Remaining)

	res, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)

	now = now.Add(5 * time.Minute)
	res, _ = l.Allow(ctx, "10.0.0.1")
	assert.False(t, res.Allowed)
	assert.Equal(t, 10*time.Minute, res.RetryAfter)

	// other clients keep their own counter
	res, _ = l.Allow(ctx, "10.0.0.2")
	assert.True(t, res.Allowed)

	now = now.Add(10 * time.Minute)
	res, _ = l.Allow(ctx, "10.0.0.1")
	assert.True(t, res.Allowed)
}

func TestRedisLimiter_FailsOpenWhenUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	defer client.Close()

	res, err := NewRedisLimiter(client, "login", DefaultLimit, DefaultWindow).Allow(context.Background(), "10.0.0.1")
	assert.Error(t, err)
	assert.True(t, res.Allowed)
}
