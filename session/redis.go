package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrStoreUnavailable wraps backend failures so callers can distinguish an
// unreachable store from absent or corrupt state.
var ErrStoreUnavailable = errors.New("session store unavailable")

// RedisKV is a Redis-backed [KV] for deployments where the client process
// is restarted often or shares a session across hosts. Keys are namespaced
// under prefix.
type RedisKV struct {
	redis  redis.UniversalClient
	prefix string
}

// NewRedisKV creates a Redis-backed [KV]. prefix defaults to "rc" when
// empty.
func NewRedisKV(client redis.UniversalClient, prefix string) *RedisKV {
	if prefix == "" {
		prefix = "rc"
	}
	return &RedisKV{redis: client, prefix: prefix}
}

func (r *RedisKV) key(key string) string {
	return r.prefix + ":" + key
}

// Get returns the stored value, [ErrNotFound], or a wrapped
// [ErrStoreUnavailable].
func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := r.redis.Get(ctx, r.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return data, nil
}

// Put writes all entries in one transaction so the credential/identity pair
// is never observable half-written.
func (r *RedisKV) Put(ctx context.Context, entries map[string][]byte) error {
	_, err := r.redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for key, value := range entries {
			pipe.Set(ctx, r.key(key), value, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

// Delete removes the given keys in one transaction.
func (r *RedisKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	namespaced := make([]string, len(keys))
	for i, key := range keys {
		namespaced[i] = r.key(key)
	}

	if err := r.redis.Del(ctx, namespaced...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}
