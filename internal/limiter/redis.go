package limiter

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a Redis-backed limiter with a sliding failure window and lockout.
// Counters are ephemeral, so Redis TTLs replace the bookkeeping a durable
// store would need.
type Redis struct {
	rdb      *redis.Client
	window   time.Duration
	maxFails int
	blockFor time.Duration
}

// NewRedis constructs a Redis-backed limiter.
func NewRedis(rdb *redis.Client, window time.Duration, maxFails int, blockFor time.Duration) *Redis {
	return &Redis{rdb: rdb, window: window, maxFails: maxFails, blockFor: blockFor}
}

func (l *Redis) keys(email string, ipHash []byte) (fails, block string) {
	suffix := email + ":" + hex.EncodeToString(ipHash[:8])
	return "login:fails:" + suffix, "login:block:" + suffix
}

// Allow reports whether login is currently allowed and a retry-after duration.
func (l *Redis) Allow(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	_, block := l.keys(email, ipHash)
	ttl, err := l.rdb.TTL(ctx, block).Result()
	if err != nil {
		return false, 0, fmt.Errorf("limiter allow: %w", err)
	}
	if ttl > 0 {
		return false, ttl, nil
	}
	return true, 0, nil
}

// Success resets counters for (email, ip).
func (l *Redis) Success(ctx context.Context, email string, ipHash []byte) error {
	fails, block := l.keys(email, ipHash)
	return l.rdb.Del(ctx, fails, block).Err()
}

// Failure records a failed attempt; may set a block until a future time.
func (l *Redis) Failure(ctx context.Context, email string, ipHash []byte) (bool, time.Duration, error) {
	fails, block := l.keys(email, ipHash)

	n, err := l.rdb.Incr(ctx, fails).Result()
	if err != nil {
		return false, 0, fmt.Errorf("limiter failure: %w", err)
	}
	if n == 1 {
		// First failure opens the window.
		if err := l.rdb.Expire(ctx, fails, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if int(n) >= l.maxFails {
		if err := l.rdb.Set(ctx, block, 1, l.blockFor).Err(); err != nil {
			return false, 0, err
		}
		return true, l.blockFor, nil
	}
	return false, 0, nil
}
