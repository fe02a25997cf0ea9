package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ceyewan/trialkit/connector"
	"github.com/ceyewan/trialkit/xerrors"
)

type redisBackend struct {
	conn   connector.RedisConnector
	prefix string
	ttl    time.Duration
}

// newRedisBackend 连接器必须已 Connect
func newRedisBackend(cfg *Config, conn connector.RedisConnector) (backend, error) {
	if conn == nil {
		return nil, xerrors.Wrap(ErrInvalidConfig, "redis driver requires WithRedisConnector")
	}
	if conn.GetClient() == nil {
		return nil, xerrors.Wrapf(connector.ErrClientNil, "redis connector[%s] is not connected", conn.Name())
	}
	return &redisBackend{conn: conn, prefix: cfg.Prefix, ttl: cfg.TTL}, nil
}

func (b *redisBackend) client() (*redis.Client, error) {
	client := b.conn.GetClient()
	if client == nil {
		return nil, xerrors.Wrapf(connector.ErrClientNil, "redis connector[%s]", b.conn.Name())
	}
	return client, nil
}

func (b *redisBackend) put(ctx context.Context, key string, data []byte) error {
	client, err := b.client()
	if err != nil {
		return err
	}
	return client.Set(ctx, b.prefix+key, data, b.ttl).Err()
}

func (b *redisBackend) get(ctx context.Context, key string) ([]byte, error) {
	client, err := b.client()
	if err != nil {
		return nil, err
	}
	data, err := client.Get(ctx, b.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	return data, err
}

func (b *redisBackend) del(ctx context.Context, key string) error {
	client, err := b.client()
	if err != nil {
		return err
	}
	return client.Del(ctx, b.prefix+key).Err()
}

func (b *redisBackend) close() error { return nil }
