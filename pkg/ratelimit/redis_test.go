package ratelimit_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"github.com/storeops/storefront/pkg/ratelimit"
)

func TestAllowFailsOpenWhenRedisUnavailable(t *testing.T) {
	// Nothing listens here; every pipeline exec fails with a dial error.
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer func() { _ = rdb.Close() }()

	limiter := ratelimit.New(slog.New(slog.DiscardHandler), rdb, "suggest", 1, time.Minute)

	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
	assert.True(t, limiter.Allow(context.Background(), "10.0.0.1"))
}
