package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRedis_UnavailableDegrades(t *testing.T) {
	r := NewRedisWithClient(nil, 0, nil)
	ctx := context.Background()

	if r.Available() {
		t.Fatalf("expected unavailable")
	}
	if r.ttl != defaultTTL {
		t.Fatalf("expected default ttl, got %s", r.ttl)
	}

	var out map[string]string
	ok, err := r.GetJSON(ctx, "k", &out)
	if ok || err != nil {
		t.Fatalf("expected silent miss, got ok=%v err=%v", ok, err)
	}
	if err := r.SetJSON(ctx, "k", map[string]string{"a": "b"}, time.Minute); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := r.Delete(ctx, "k"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
	if err := r.Publish(ctx, "c", []byte("x")); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Subscribe(ctx, "c", nil, func([]byte) {}); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := r.Ping(ctx); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestRedis_NilReceiver(t *testing.T) {
	var r *Redis
	if r.Available() {
		t.Fatalf("nil cache must be unavailable")
	}
	if err := r.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
