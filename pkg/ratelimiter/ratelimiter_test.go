package ratelimiter

import (
	"context"
	"errors"
	"testing"
	"time"

	"anoa.com/assignmenthub/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLimiter(t *testing.T) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestLimiter_SecondAcquireWithinWindow(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t)

	_, err := l.Acquire(ctx, "submit", 1, 2, 10*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists(key("submit", 1, 2)))

	_, err = l.Acquire(ctx, "submit", 1, 2, 10*time.Second)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrRateLimitExceeded)

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Greater(t, rl.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rl.RetryAfter, 10*time.Second)

	// other assignments and other students are separate slots
	_, err = l.Acquire(ctx, "submit", 1, 3, 10*time.Second)
	assert.NoError(t, err)
	_, err = l.Acquire(ctx, "submit", 4, 2, 10*time.Second)
	assert.NoError(t, err)

	mr.FastForward(11 * time.Second)
	_, err = l.Acquire(ctx, "submit", 1, 2, 10*time.Second)
	assert.NoError(t, err, "the slot frees up once the window expires")
}

func TestLimiter_ReleaseFreesSlot(t *testing.T) {
	ctx := context.Background()
	l, mr := newRedisLimiter(t)

	release, err := l.Acquire(ctx, "submit", 1, 2, time.Minute)
	require.NoError(t, err)
	release()
	assert.False(t, mr.Exists(key("submit", 1, 2)))

	_, err = l.Acquire(ctx, "submit", 1, 2, time.Minute)
	assert.NoError(t, err)
}

func TestLimiter_DisabledWithoutRedis(t *testing.T) {
	var l *Limiter
	release, err := l.Acquire(context.Background(), "submit", 1, 2, time.Second)
	require.NoError(t, err)
	require.NotNil(t, release)
	release()

	release, err = New(nil).Acquire(context.Background(), "submit", 1, 2, time.Second)
	require.NoError(t, err)
	release()
}

func TestRateLimitError(t *testing.T) {
	var err error = &RateLimitError{Message: "too many requests, retry in 3 seconds", RetryAfter: 3 * time.Second}

	assert.True(t, errors.Is(err, apperror.ErrRateLimitExceeded))
	assert.Equal(t, 429, apperror.MapErrorToStatus(err))

	var rl *RateLimitError
	require.True(t, errors.As(err, &rl))
	assert.Equal(t, 3*time.Second, rl.RetryAfter)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "rate_limit:submit:user:4:9", key("submit", 4, 9))
}
