package checkpoint

import (
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/connector"
	"github.com/ceyewan/trialkit/metrics"
)

// Option 配置 Store 的选项函数类型
type Option func(*options)

type options struct {
	logger clog.Logger
	meter  metrics.Meter
	sqlite connector.SQLiteConnector
	redis  connector.RedisConnector
}

// WithLogger 注入日志记录器，组件会自动为 logger 添加 "checkpoint" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("checkpoint")
		}
	}
}

// WithMeter 注入指标 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithSQLiteConnector sqlite 驱动使用的连接器，Store 只借用，不负责关闭
func WithSQLiteConnector(conn connector.SQLiteConnector) Option {
	return func(o *options) {
		o.sqlite = conn
	}
}

// WithRedisConnector redis 驱动使用的连接器，Store 只借用，不负责关闭
func WithRedisConnector(conn connector.RedisConnector) Option {
	return func(o *options) {
		o.redis = conn
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger: clog.Discard(),
		meter:  metrics.Discard(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
