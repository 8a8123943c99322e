package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type fakeCommands struct {
	data    map[string]string
	ttls    map[string]time.Duration
	failAll bool
}

func newFakeCommands() *fakeCommands {
	return &fakeCommands{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (f *fakeCommands) Get(_ context.Context, key string) *redis.StringCmd {
	if f.failAll {
		return redis.NewStringResult("", errors.New("connection refused"))
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeCommands) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.failAll {
		return redis.NewStatusResult("", errors.New("connection refused"))
	}
	f.data[key] = value.(string)
	f.ttls[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeCommands) Del(_ context.Context, keys ...string) *redis.IntCmd {
	if f.failAll {
		return redis.NewIntResult(0, errors.New("connection refused"))
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestIdentityCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	c := NewIdentityCache(fake, time.Minute, zap.NewNop())

	if _, ok := c.Get(ctx, "a@x.io"); ok {
		t.Fatal("expected a miss on an empty cache")
	}

	c.Set(ctx, "a@x.io", "user-1")
	if fake.ttls["identity:email:a@x.io"] != time.Minute {
		t.Fatalf("expected ttl to be applied, got %s", fake.ttls["identity:email:a@x.io"])
	}
	id, ok := c.Get(ctx, "a@x.io")
	if !ok || id != "user-1" {
		t.Fatalf("expected user-1, got %q (hit=%v)", id, ok)
	}

	c.Delete(ctx, "a@x.io")
	if _, ok := c.Get(ctx, "a@x.io"); ok {
		t.Fatal("expected a miss after delete")
	}
}

func TestIdentityCache_FailuresAreMisses(t *testing.T) {
	ctx := context.Background()
	fake := newFakeCommands()
	fake.failAll = true
	c := NewIdentityCache(fake, time.Minute, zap.NewNop())

	c.Set(ctx, "a@x.io", "user-1")
	c.Delete(ctx, "a@x.io")
	if _, ok := c.Get(ctx, "a@x.io"); ok {
		t.Fatal("expected a failing backend to read as a miss")
	}
}
