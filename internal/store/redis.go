// AngelaMos | 2026
// redis.go

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Redis keeps one hash per visitor namespace under "<prefix>:visitor:<ns>".
type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) hashKey(ns string) string {
	return r.prefix + ":visitor:" + ns
}

func (r *Redis) Get(ctx context.Context, ns, key string) (string, bool, error) {
	v, err := r.client.HGet(ctx, r.hashKey(ns), key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis hget %s: %w", key, err)
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, ns, key, value string) error {
	if err := r.client.HSet(ctx, r.hashKey(ns), key, value).Err(); err != nil {
		return fmt.Errorf("redis hset %s: %w", key, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, ns string, keys ...string) error {
	if err := r.client.HDel(ctx, r.hashKey(ns), keys...).Err(); err != nil {
		return fmt.Errorf("redis hdel: %w", err)
	}
	return nil
}

func (r *Redis) Keys(ctx context.Context, ns string) ([]string, error) {
	keys, err := r.client.HKeys(ctx, r.hashKey(ns)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hkeys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}

func (r *Redis) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Close is a no-op; the client belongs to core.Redis.
func (r *Redis) Close() error {
	return nil
}
