// Package cache provides a short-TTL Redis cache for event list queries.
// The cache is advisory: every failure degrades to a miss and the
// caller re-reads the store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weekplanner/internal/model"
)

// EventListCache caches per-owner list query results until the owner
// mutates any event.
type EventListCache interface {
	// Get returns a cached result for (owner, filters), if any.
	Get(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, bool)
	// Set stores a list result for (owner, filters).
	Set(ctx context.Context, ownerID uuid.UUID, f model.EventFilters, events []model.Event)
	// Invalidate drops every cached list of the owner.
	Invalidate(ctx context.Context, ownerID uuid.UUID)
}

// Redis implements EventListCache with generation-based invalidation:
// list keys embed a per-owner generation counter, and Invalidate bumps
// the counter so stale entries simply age out via TTL.
type Redis struct {
	rdb *redis.Client
	ttl time.Duration
	log *zap.Logger
}

// NewRedis constructs a Redis-backed cache with the given staleness window.
func NewRedis(rdb *redis.Client, ttl time.Duration, log *zap.Logger) *Redis {
	return &Redis{rdb: rdb, ttl: ttl, log: log}
}

func genKey(ownerID uuid.UUID) string { return "events:gen:" + ownerID.String() }

func (c *Redis) listKey(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) (string, error) {
	gen, err := c.rdb.Get(ctx, genKey(ownerID)).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	var from, to int64
	if !f.StartDate.IsZero() {
		from = f.StartDate.UnixNano()
	}
	if !f.EndDate.IsZero() {
		to = f.EndDate.UnixNano()
	}
	return fmt.Sprintf("events:list:%s:%d:%d:%d:%s", ownerID, gen, from, to, f.Tag), nil
}

// Get returns a cached result for (owner, filters), if any.
func (c *Redis) Get(ctx context.Context, ownerID uuid.UUID, f model.EventFilters) ([]model.Event, bool) {
	key, err := c.listKey(ctx, ownerID, f)
	if err != nil {
		c.log.Debug("cache key lookup failed", zap.Error(err))
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Debug("cache get failed", zap.Error(err))
		}
		return nil, false
	}
	var events []model.Event
	if err := json.Unmarshal(raw, &events); err != nil {
		c.log.Warn("cache entry unmarshal failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return events, true
}

// Set stores a list result for (owner, filters) with the cache TTL.
func (c *Redis) Set(ctx context.Context, ownerID uuid.UUID, f model.EventFilters, events []model.Event) {
	key, err := c.listKey(ctx, ownerID, f)
	if err != nil {
		return
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.log.Debug("cache set failed", zap.Error(err))
	}
}

// Invalidate bumps the owner's generation, detaching all cached lists.
func (c *Redis) Invalidate(ctx context.Context, ownerID uuid.UUID) {
	if err := c.rdb.Incr(ctx, genKey(ownerID)).Err(); err != nil {
		c.log.Warn("cache invalidate failed", zap.Error(err))
	}
}

// Noop satisfies EventListCache when no Redis is configured.
type Noop struct{}

func (Noop) Get(context.Context, uuid.UUID, model.EventFilters) ([]model.Event, bool) {
	return nil, false
}
func (Noop) Set(context.Context, uuid.UUID, model.EventFilters, []model.Event) {}
func (Noop) Invalidate(context.Context, uuid.UUID)                             {}
