package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, max int, window time.Duration) (*Limiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb, Config{MaxAttempts: max, Window: window}), mr
}

func TestLimiter_BlocksAfterMaxFailures(t *testing.T) {
	l, _ := newTestLimiter(t, 3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Check(ctx, "alice"), "attempt %d", i+1)
		require.NoError(t, l.Fail(ctx, "alice"))
	}

	assert.ErrorIs(t, l.Check(ctx, "alice"), ErrRateLimited)
	assert.ErrorIs(t, l.Check(ctx, " ALICE "), ErrRateLimited, "identifier is normalised")
	assert.NoError(t, l.Check(ctx, "bob"), "other identifiers are unaffected")
}

func TestLimiter_WindowExpires(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "alice"))
	require.ErrorIs(t, l.Check(ctx, "alice"), ErrRateLimited)

	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"alice"))
	require.NoError(t, l.Fail(ctx, "alice"))
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"alice"), "later failures do not extend the window")

	mr.FastForward(time.Minute + time.Second)
	assert.NoError(t, l.Check(ctx, "alice"))
}

func TestLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()

	require.NoError(t, l.Fail(ctx, "alice"))
	require.ErrorIs(t, l.Check(ctx, "alice"), ErrRateLimited)

	require.NoError(t, l.Reset(ctx, "alice"))
	assert.NoError(t, l.Check(ctx, "alice"))
}

func TestLimiter_RedisDown(t *testing.T) {
	l, mr := newTestLimiter(t, 1, time.Minute)
	ctx := context.Background()
	mr.Close()

	assert.ErrorIs(t, l.Check(ctx, "alice"), ErrRedisUnavailable)
	assert.ErrorIs(t, l.Fail(ctx, "alice"), ErrRedisUnavailable)
	assert.ErrorIs(t, l.Reset(ctx, "alice"), ErrRedisUnavailable)
}
