package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter is a sliding-window rate limiter backed by a redis sorted set per
// client key. When redis is unreachable it fails open: requests are allowed
// rather than turned into errors.
type Limiter struct {
	log    *slog.Logger
	rdb    *redis.Client
	prefix string
	limit  int64
	window time.Duration
}

func New(log *slog.Logger, rdb *redis.Client, prefix string, limit int64, window time.Duration) *Limiter {
	return &Limiter{
		log:    log,
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
	}
}

// Allow records one request for ident and reports whether it is within the
// window's budget.
func (l *Limiter) Allow(ctx context.Context, ident string) bool {
	key := fmt.Sprintf("%s:%s", l.prefix, ident)
	now := time.Now()
	cutoff := now.Add(-l.window)

	pipe := l.rdb.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: now.UnixNano()})
	count := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, l.window)

	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Warn("rate limiter unavailable, allowing request", "err", err)
		return true
	}
	return count.Val() <= l.limit
}
