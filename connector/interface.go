// Package connector 管理 trialkit 持久化后端使用的外部连接。
//
// 目前提供两种连接器：
//   - SQLite: 基于 GORM，checkpoint 的 sqlite 驱动使用
//   - Redis: 基于 go-redis，checkpoint 的 redis 驱动使用
//
// NewXXX() 只创建连接器，Connect() 时才真正建立连接，Connect 与 Close 都是幂等的。
//
// 基本使用：
//
//	conn, err := connector.NewSQLite(&connector.SQLiteConfig{Path: "./trials.db"},
//		connector.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Connect(ctx); err != nil {
//		return err
//	}
//	db := conn.GetClient()
//
// 资源所有权：Connector 拥有底层连接的生命周期。checkpoint.Store 只借用 Connector，
// 不会调用它的 Close()；应用层应先关闭 Store，再关闭 Connector。
package connector

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Connector 所有连接器的通用行为，方法均为并发安全
type Connector interface {
	// Connect 建立连接，幂等
	//
	// 返回错误：
	//   - ErrConnection: 连接建立失败
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源，幂等。关闭后 GetClient() 返回 nil
	Close() error

	// HealthCheck 发送测试请求检查连接，同时刷新 IsHealthy() 的缓存结果
	//
	// 返回错误：
	//   - ErrClientNil: 未连接或已关闭
	//   - ErrHealthCheck: 健康检查失败
	HealthCheck(ctx context.Context) error

	// IsHealthy 返回最近一次检查的结果，不阻塞
	IsHealthy() bool

	// Name 连接器实例名称，用于日志
	Name() string
}

// TypedConnector 提供类型安全的客户端访问
type TypedConnector[T any] interface {
	Connector

	// GetClient 返回底层客户端，Connect() 之前或 Close() 之后返回 nil
	GetClient() T
}

// SQLiteConnector SQLite 连接器，支持文件数据库与内存数据库
type SQLiteConnector interface {
	TypedConnector[*gorm.DB]
}

// RedisConnector Redis 连接器
type RedisConnector interface {
	TypedConnector[*redis.Client]
}
