package tracker

import (
	"github.com/ceyewan/trialkit/catalog"
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/metrics"
)

// Option 配置 Tracker 的选项函数类型
type Option func(*options)

type options struct {
	logger   clog.Logger
	meter    metrics.Meter
	resolver catalog.Resolver
	metrics  []catalog.Descriptor
	labels   []metrics.Label
}

// WithLogger 注入日志记录器，组件会自动为 logger 添加 "tracker" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("tracker")
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

// WithResolver 指定推断方向时使用的指标目录，默认 catalog.Default()
func WithResolver(r catalog.Resolver) Option {
	return func(o *options) {
		o.resolver = r
	}
}

// WithLabels 附加到 tracker 所有指标上的固定标签
//
// 多个 tracker 共用一个 Meter 时，best_value gauge 只按 metric 区分，后写入者覆盖先写入者；
// 用标签（例如搜索槽位）区分各 tracker。
func WithLabels(labels ...metrics.Label) Option {
	return func(o *options) {
		o.labels = append(o.labels, labels...)
	}
}

// WithMetrics 创建时预先注册的指标，方向由描述符推断
func WithMetrics(descs ...catalog.Descriptor) Option {
	return func(o *options) {
		o.metrics = append(o.metrics, descs...)
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger:   clog.Discard(),
		meter:    metrics.Discard(),
		resolver: catalog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
