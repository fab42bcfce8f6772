package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

var NilError = goredis.Nil

type Options = goredis.UniversalOptions

// Adapter is the small slice of redis the portal needs: plain KV plus the
// counter ops backing the auth rate limiter.
type Adapter interface {
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
	Del(key string) error
	Incr(key string) (int64, error)
	Expire(key string, ttl time.Duration) (bool, error)
	TTL(key string) (time.Duration, error)
	Client() goredis.UniversalClient
	Close() error
}

type adapter struct {
	client goredis.UniversalClient
	prefix string
}

// NewAdapter connects and pings the configured redis; keyPrefix namespaces
// every key this adapter touches.
func NewAdapter(keyPrefix string, opts *Options) (Adapter, error) {
	client := goredis.NewUniversalClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &adapter{client: client, prefix: keyPrefix}, nil
}

func (a *adapter) key(k string) string {
	if a.prefix == "" {
		return k
	}
	return a.prefix + ":" + k
}

func (a *adapter) Set(key string, value []byte, ttl time.Duration) error {
	return a.client.Set(context.Background(), a.key(key), value, ttl).Err()
}

func (a *adapter) Get(key string) ([]byte, error) {
	return a.client.Get(context.Background(), a.key(key)).Bytes()
}

func (a *adapter) Del(key string) error {
	return a.client.Del(context.Background(), a.key(key)).Err()
}

func (a *adapter) Incr(key string) (int64, error) {
	return a.client.Incr(context.Background(), a.key(key)).Result()
}

func (a *adapter) Expire(key string, ttl time.Duration) (bool, error) {
	return a.client.Expire(context.Background(), a.key(key), ttl).Result()
}

func (a *adapter) TTL(key string) (time.Duration, error) {
	return a.client.TTL(context.Background(), a.key(key)).Result()
}

func (a *adapter) Client() goredis.UniversalClient {
	return a.client
}

func (a *adapter) Close() error {
	return a.client.Close()
}
