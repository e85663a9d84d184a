package ratelimiter

import (
	"context"
	"fmt"
	"time"

	"anoa.com/assignmenthub/pkg/apperror"
	"github.com/redis/go-redis/v9"
)

// RateLimitError carries how long the caller has to wait.
type RateLimitError struct {
	Message    string
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return e.Message
}

func (e *RateLimitError) Unwrap() error {
	return apperror.ErrRateLimitExceeded
}

// Limiter allows one action per key per window. A nil client disables it.
type Limiter struct {
	rdb redis.Cmdable
}

func New(rdb *redis.Client) *Limiter {
	if rdb == nil {
		return &Limiter{}
	}
	return &Limiter{rdb: rdb}
}

func key(action string, subject uint, scope uint) string {
	return fmt.Sprintf("rate_limit:%s:user:%d:%d", action, subject, scope)
}

// Acquire claims the slot for (action, subject, scope). It returns a
// *RateLimitError when the slot is taken and a release func that frees the
// slot again when the guarded work fails.
func (l *Limiter) Acquire(ctx context.Context, action string, subject, scope uint, window time.Duration) (func(), error) {
	if l == nil || l.rdb == nil || window <= 0 {
		return func() {}, nil
	}

	k := key(action, subject, scope)
	wasSet, err := l.rdb.SetNX(ctx, k, "locked", window).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to check rate limit in redis: %w", err)
	}

	if !wasSet {
		ttl, err := l.rdb.TTL(ctx, k).Result()
		if err != nil || ttl < 0 {
			ttl = window
		}
		return nil, &RateLimitError{
			Message:    fmt.Sprintf("too many requests, retry in %.0f seconds", ttl.Seconds()),
			RetryAfter: ttl,
		}
	}

	release := func() {
		l.rdb.Del(context.Background(), k)
	}
	return release, nil
}
