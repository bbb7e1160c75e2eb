package limiter

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
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

func TestRedisKeys_PrefixesAndDistinct(t *testing.T) {
	t.Parallel()

	l := NewRedis(nil, time.Minute, 5, time.Minute)
	ipA := HashIP("203.0.113.7")
	ipB := HashIP("203.0.113.8")

	fails, block := l.keys("a@b.com", ipA)
	if !strings.HasPrefix(fails, "login:fails:a@b.com:") {
		t.Fatalf("fails key = %q", fails)
	}
	if !strings.HasPrefix(block, "login:block:a@b.com:") {
		t.Fatalf("block key = %q", block)
	}

	failsB, _ := l.keys("a@b.com", ipB)
	if fails == failsB {
		t.Fatalf("different IPs must map to different keys")
	}
	failsC, _ := l.keys("c@d.com", ipA)
	if fails == failsC {
		t.Fatalf("different emails must map to different keys")
	}
}

func TestRedisAllow_BackendError_Propagates(t *testing.T) {
	t.Parallel()

	l := NewRedis(deadClient(t), time.Minute, 5, time.Minute)
	ok, retry, err := l.Allow(context.Background(), "a@b.com", HashIP("203.0.113.7"))
	if err == nil {
		t.Fatalf("expected error from unreachable backend")
	}
	if ok || retry != 0 {
		t.Fatalf("ok=%v retry=%v, want false/0 on error", ok, retry)
	}
	if !strings.Contains(err.Error(), "limiter allow") {
		t.Fatalf("err = %v, want limiter allow context", err)
	}
}

func TestRedisFailure_BackendError_Propagates(t *testing.T) {
	t.Parallel()

	l := NewRedis(deadClient(t), time.Minute, 5, time.Minute)
	blocked, _, err := l.Failure(context.Background(), "a@b.com", HashIP("203.0.113.7"))
	if err == nil {
		t.Fatalf("expected error from unreachable backend")
	}
	if blocked {
		t.Fatalf("must not report a block when the counter could not be read")
	}
}

func TestRedisSuccess_BackendError_Propagates(t *testing.T) {
	t.Parallel()

	l := NewRedis(deadClient(t), time.Minute, 5, time.Minute)
	if err := l.Success(context.Background(), "a@b.com", HashIP("203.0.113.7")); err == nil {
		t.Fatalf("expected error from unreachable backend")
	}
}
