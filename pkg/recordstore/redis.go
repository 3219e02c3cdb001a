package recordstore

import (
	"context"
	"errors"
	"strings"

	redis "github.com/redis/go-redis/v9"
)

// RedisBackend keeps each collection under <prefix>:<collection>.
type RedisBackend struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisBackend(client redis.UniversalClient, prefix string) *RedisBackend {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "farmstand"
	}
	return &RedisBackend{client: client, prefix: prefix}
}

func (b *RedisBackend) Name() string { return "redis" }

func (b *RedisBackend) Key(collection string) string {
	return b.prefix + ":" + collection
}

func (b *RedisBackend) Read(ctx context.Context, collection string) ([]byte, error) {
	data, err := b.client.Get(ctx, b.Key(collection)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCollectionNotFound
	}
	return data, err
}

func (b *RedisBackend) Write(ctx context.Context, collection string, data []byte) error {
	return b.client.Set(ctx, b.Key(collection), data, 0).Err()
}
