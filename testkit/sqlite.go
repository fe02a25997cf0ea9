package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ceyewan/trialkit/connector"
)

// NewSQLiteConfig 返回内存数据库配置
//
// 连接器把最大连接数限制为 1，同一个连接器内看到的始终是同一个内存库。
func NewSQLiteConfig() *connector.SQLiteConfig {
	return &connector.SQLiteConfig{
		Name: "test-sqlite",
		Path: ":memory:",
	}
}

// NewSQLiteConnector 获取已连接的 SQLite 连接器（内存数据库）
// 生命周期由 t.Cleanup 管理
func NewSQLiteConnector(t *testing.T) connector.SQLiteConnector {
	return connectSQLite(t, NewSQLiteConfig())
}

// NewPersistentSQLiteConnector 获取文件数据库连接器，文件位于 t.TempDir()
func NewPersistentSQLiteConnector(t *testing.T) connector.SQLiteConnector {
	return connectSQLite(t, &connector.SQLiteConfig{
		Name: "test-sqlite-file",
		Path: filepath.Join(t.TempDir(), "trialkit.db"),
	})
}

func connectSQLite(t *testing.T, cfg *connector.SQLiteConfig) connector.SQLiteConnector {
	t.Helper()
	conn, err := connector.NewSQLite(cfg, connector.WithLogger(NewLogger()))
	require.NoError(t, err, "failed to create sqlite connector")

	err = conn.Connect(context.Background())
	require.NoError(t, err, "failed to connect to sqlite")

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}
