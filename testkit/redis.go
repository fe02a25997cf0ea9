package testkit

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ceyewan/trialkit/connector"
)

// NewRedisConfig 返回 Redis 测试配置
// 默认连接 localhost:6379，可通过 TRIALKIT_TEST_REDIS_ADDR 环境变量覆盖
func NewRedisConfig() *connector.RedisConfig {
	addr := os.Getenv("TRIALKIT_TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	return &connector.RedisConfig{
		Name:         "test-redis",
		Addr:         addr,
		DB:           1, // 使用 DB 1 避免与默认的 DB 0 冲突
		PoolSize:     4,
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	}
}

// NewRedisConnector 获取已连接的 Redis 连接器，Redis 不可用时跳过测试
// 生命周期由 t.Cleanup 管理
func NewRedisConnector(t *testing.T) connector.RedisConnector {
	t.Helper()
	cfg := NewRedisConfig()
	conn, err := connector.NewRedis(cfg, connector.WithLogger(NewLogger()))
	require.NoError(t, err, "failed to create redis connector")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := conn.Connect(ctx); err != nil {
		t.Skipf("redis not available at %s: %v", cfg.Addr, err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
