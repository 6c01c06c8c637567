// Package ratelimit throttles failed logins per identifier with Redis
// fixed-window counters.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrRateLimited      = errors.New("too many login attempts, try again later")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const keyPrefix = "sessionkeeper:login:"

// Config sets how many failed logins an identifier may accumulate within
// Window before Check starts refusing it.
type Config struct {
	MaxAttempts int
	Window      time.Duration
}

type Limiter struct {
	redis  redis.UniversalClient
	config Config
}

func New(redisClient redis.UniversalClient, cfg Config) *Limiter {
	return &Limiter{redis: redisClient, config: cfg}
}

// Check returns ErrRateLimited once identifier has used up its failures
// for the current window.
func (l *Limiter) Check(ctx context.Context, identifier string) error {
	count, err := l.redis.Get(ctx, key(identifier)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count >= int64(l.config.MaxAttempts) {
		return ErrRateLimited
	}
	return nil
}

// Fail records a failed attempt. The window starts at the first failure.
func (l *Limiter) Fail(ctx context.Context, identifier string) error {
	k := key(identifier)

	count, err := l.redis.Incr(ctx, k).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, k, l.config.Window).Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
		}
	}
	return nil
}

// Reset forgets the failures of identifier, after a successful login.
func (l *Limiter) Reset(ctx context.Context, identifier string) error {
	if err := l.redis.Del(ctx, key(identifier)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrRedisUnavailable, err)
	}
	return nil
}

func key(identifier string) string {
	return keyPrefix + strings.ToLower(strings.TrimSpace(identifier))
}
