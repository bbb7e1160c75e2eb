package cache

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"weekplanner/internal/model"
)

// deadClient returns a client pointed at a port nothing listens on, so
// every command fails fast with a dial error.
func deadClient(t *testing.T) *redis.Client {
	t.Helper()
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRedisGet_BackendDown_DegradesToMiss(t *testing.T) {
	t.Parallel()

	c := NewRedis(deadClient(t), time.Minute, zap.NewNop())
	owner := uuid.Must(uuid.NewV4())

	events, ok := c.Get(context.Background(), owner, model.EventFilters{})
	if ok {
		t.Fatalf("unreachable backend must read as a miss")
	}
	if events != nil {
		t.Fatalf("miss must carry no events, got %d", len(events))
	}
}

func TestRedisSetInvalidate_BackendDown_Silent(t *testing.T) {
	t.Parallel()

	c := NewRedis(deadClient(t), time.Minute, zap.NewNop())
	owner := uuid.Must(uuid.NewV4())
	ev := model.Event{ID: uuid.Must(uuid.NewV4()), OwnerID: owner, Name: "standup"}

	// Both are advisory; neither may panic or surface the failure.
	c.Set(context.Background(), owner, model.EventFilters{}, []model.Event{ev})
	c.Invalidate(context.Background(), owner)

	if _, ok := c.Get(context.Background(), owner, model.EventFilters{}); ok {
		t.Fatalf("nothing was stored, Get must still miss")
	}
}

func TestNoop_AlwaysMisses(t *testing.T) {
	t.Parallel()

	var c Noop
	owner := uuid.Must(uuid.NewV4())

	c.Set(context.Background(), owner, model.EventFilters{}, []model.Event{{OwnerID: owner}})
	events, ok := c.Get(context.Background(), owner, model.EventFilters{})
	if ok || events != nil {
		t.Fatalf("noop cache must never hit")
	}
	c.Invalidate(context.Background(), owner)
}
