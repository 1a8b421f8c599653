package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "userdeck:session:"

// RedisStore persists scs sessions in Redis with native key expiry.
type RedisStore struct {
	client redis.Cmdable
	prefix string
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, prefix: defaultRedisPrefix}
}

func (r *RedisStore) key(token string) string {
	return r.prefix + token
}

func (r *RedisStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (r *RedisStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	ttl := time.Until(expiry)
	if ttl <= 0 {
		return r.DeleteCtx(ctx, token)
	}
	return r.client.Set(ctx, r.key(token), b, ttl).Err()
}

func (r *RedisStore) DeleteCtx(ctx context.Context, token string) error {
	return r.client.Del(ctx, r.key(token)).Err()
}

func (r *RedisStore) Find(token string) ([]byte, bool, error) {
	return r.FindCtx(context.Background(), token)
}

func (r *RedisStore) Commit(token string, b []byte, expiry time.Time) error {
	return r.CommitCtx(context.Background(), token, b, expiry)
}

func (r *RedisStore) Delete(token string) error {
	return r.DeleteCtx(context.Background(), token)
}
