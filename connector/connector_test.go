package connector

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/xerrors"
)

func TestSQLiteConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *SQLiteConfig
		wantErr bool
	}{
		{name: "nil", cfg: nil, wantErr: true},
		{name: "empty path", cfg: &SQLiteConfig{}, wantErr: true},
		{name: "memory", cfg: &SQLiteConfig{Path: ":memory:"}},
		{name: "file", cfg: &SQLiteConfig{Name: "trials", Path: "/tmp/trials.db", MaxOpenConns: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
				assert.Equal(t, "CONNECTOR_CONFIG", xerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, tt.cfg.Name)
			assert.Greater(t, tt.cfg.MaxOpenConns, 0)
		})
	}
}

func TestRedisConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *RedisConfig
		wantErr bool
	}{
		{name: "nil", cfg: nil, wantErr: true},
		{name: "empty addr", cfg: &RedisConfig{}, wantErr: true},
		{name: "negative db", cfg: &RedisConfig{Addr: "localhost:6379", DB: -1}, wantErr: true},
		{name: "negative idle", cfg: &RedisConfig{Addr: "localhost:6379", MinIdleConns: -1}, wantErr: true},
		{name: "defaults", cfg: &RedisConfig{Addr: "localhost:6379"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "default", tt.cfg.Name)
			assert.Equal(t, 10, tt.cfg.PoolSize)
			assert.Equal(t, 5*time.Second, tt.cfg.DialTimeout)
		})
	}
}

func TestSQLiteConnector(t *testing.T) {
	ctx := context.Background()
	conn, err := NewSQLite(&SQLiteConfig{Name: "test", Path: ":memory:"}, WithLogger(clog.Discard()))
	require.NoError(t, err)
	assert.Equal(t, "test", conn.Name())

	// 未连接
	assert.Nil(t, conn.GetClient())
	assert.False(t, conn.IsHealthy())
	assert.ErrorIs(t, conn.HealthCheck(ctx), ErrClientNil)

	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.Connect(ctx), "Connect should be idempotent")
	db := conn.GetClient()
	require.NotNil(t, db)
	assert.True(t, conn.IsHealthy())
	require.NoError(t, conn.HealthCheck(ctx))

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "Close should be idempotent")
	assert.Nil(t, conn.GetClient())
	assert.False(t, conn.IsHealthy())
}

func TestSQLiteConnectorConcurrentConnect(t *testing.T) {
	ctx := context.Background()
	conn, err := NewSQLite(&SQLiteConfig{Path: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, conn.Connect(ctx))
			_ = conn.IsHealthy()
		}()
	}
	wg.Wait()
	assert.NotNil(t, conn.GetClient())
}

func TestRedisConnectorWithoutConnect(t *testing.T) {
	conn, err := NewRedis(&RedisConfig{Addr: "127.0.0.1:1"})
	require.NoError(t, err)

	assert.Nil(t, conn.GetClient())
	assert.ErrorIs(t, conn.HealthCheck(context.Background()), ErrClientNil)
	assert.NoError(t, conn.Close())
}

func TestRedisConnectorUnreachable(t *testing.T) {
	conn, err := NewRedis(&RedisConfig{Addr: "127.0.0.1:1", DialTimeout: 200 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err = conn.Connect(ctx)
	assert.ErrorIs(t, err, ErrConnection)
	assert.Nil(t, conn.GetClient())
	assert.False(t, conn.IsHealthy())
}

func TestRedisConnectorIntegration(t *testing.T) {
	addr := os.Getenv("TRIALKIT_REDIS_ADDR")
	if addr == "" {
		addr = "127.0.0.1:6379"
	}

	conn, err := NewRedis(&RedisConfig{Addr: addr, DialTimeout: 500 * time.Millisecond})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("redis not available at %s: %v", addr, err)
	}

	require.NoError(t, conn.Connect(ctx))
	require.NoError(t, conn.HealthCheck(ctx))
	assert.True(t, conn.IsHealthy())

	client := conn.GetClient()
	require.NoError(t, client.Set(ctx, "trialkit:connector:test", "ok", time.Minute).Err())
	val, err := client.Get(ctx, "trialkit:connector:test").Result()
	require.NoError(t, err)
	assert.Equal(t, "ok", val)
	client.Del(ctx, "trialkit:connector:test")
}
