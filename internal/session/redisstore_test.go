package session

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// memRedis implements the subset of redis.Cmdable the store calls.
type memRedis struct {
	redis.Cmdable
	data map[string][]byte
	ttl  map[string]time.Duration
}

func newMemRedis() *memRedis {
	return &memRedis{data: map[string][]byte{}, ttl: map[string]time.Duration{}}
}

func (m *memRedis) Get(_ context.Context, key string) *redis.StringCmd {
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(string(v), nil)
}

func (m *memRedis) Set(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.data[key] = value.([]byte)
	m.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (m *memRedis) Del(_ context.Context, keys ...string) *redis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := m.data[k]; ok {
			delete(m.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStoreCommitFindDelete(t *testing.T) {
	t.Parallel()

	fake := newMemRedis()
	store := NewRedisStore(fake)
	ctx := context.Background()

	if _, found, err := store.FindCtx(ctx, "abc"); err != nil || found {
		t.Fatalf("FindCtx on empty store = %v, %v", found, err)
	}

	if err := store.CommitCtx(ctx, "abc", []byte("payload"), time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CommitCtx error: %v", err)
	}
	if _, ok := fake.data[defaultRedisPrefix+"abc"]; !ok {
		t.Fatal("expected prefixed key")
	}
	if ttl := fake.ttl[defaultRedisPrefix+"abc"]; ttl <= 0 || ttl > time.Hour {
		t.Fatalf("unexpected ttl %v", ttl)
	}

	b, found, err := store.Find("abc")
	if err != nil || !found || string(b) != "payload" {
		t.Fatalf("Find = %q, %v, %v", b, found, err)
	}

	if err := store.Delete("abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, found, _ := store.Find("abc"); found {
		t.Fatal("session survived delete")
	}
}

func TestRedisStoreCommitPastExpiryDeletes(t *testing.T) {
	t.Parallel()

	fake := newMemRedis()
	store := NewRedisStore(fake)
	fake.data[defaultRedisPrefix+"old"] = []byte("x")

	if err := store.Commit("old", []byte("y"), time.Now().Add(-time.Second)); err != nil {
		t.Fatalf("Commit error: %v", err)
	}
	if _, ok := fake.data[defaultRedisPrefix+"old"]; ok {
		t.Fatal("expired commit should delete the key")
	}
}
