package repos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores the same namespaced rows as KVRepo in redis, for deployments running
// more than one instance. Keys look like "thriftshop:cart:v1:<sid>".
type RedisKV struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisKV parses url and pings the server. ttl of zero keeps keys forever.
func NewRedisKV(ctx context.Context, url string, ttl time.Duration) (*RedisKV, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisKV{client: client, prefix: "thriftshop", ttl: ttl}, nil
}

func (r *RedisKV) key(ns Namespace, key string) string {
	return fmt.Sprintf("%s:%s:v%d:%s", r.prefix, ns.Name, ns.Version, key)
}

func (r *RedisKV) Get(ctx context.Context, ns Namespace, key string) ([]byte, error) {
	b, err := r.client.Get(ctx, r.key(ns, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return b, err
}

func (r *RedisKV) Put(ctx context.Context, ns Namespace, key string, value []byte) error {
	return r.client.Set(ctx, r.key(ns, key), value, r.ttl).Err()
}

func (r *RedisKV) Delete(ctx context.Context, ns Namespace, key string) error {
	return r.client.Del(ctx, r.key(ns, key)).Err()
}

func (r *RedisKV) Close() error { return r.client.Close() }
