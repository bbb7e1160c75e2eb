package limiter

import (
	"bytes"
	"context"
	"testing"
)

func TestHashIP_StableAndDistinct(t *testing.T) {
	t.Parallel()

	a := HashIP("203.0.113.7")
	b := HashIP("203.0.113.7")
	if !bytes.Equal(a, b) {
		t.Fatalf("same IP must hash identically")
	}
	if len(a) != 32 {
		t.Fatalf("len=%d, want 32", len(a))
	}
	if bytes.Equal(a, HashIP("203.0.113.8")) {
		t.Fatalf("different IPs must hash differently")
	}
}

func TestNoop_AlwaysAllows(t *testing.T) {
	t.Parallel()

	var l Noop
	ctx := context.Background()
	ok, retry, err := l.Allow(ctx, "a@b.com", nil)
	if err != nil || !ok || retry != 0 {
		t.Fatalf("noop Allow: ok=%v retry=%v err=%v", ok, retry, err)
	}
	blocked, _, err := l.Failure(ctx, "a@b.com", nil)
	if err != nil || blocked {
		t.Fatalf("noop Failure: blocked=%v err=%v", blocked, err)
	}
}
