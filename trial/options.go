package trial

import (
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/tracker"
)

// Option 配置 Trial 的选项函数类型
type Option func(*options)

type options struct {
	id          string
	logger      clog.Logger
	trackerOpts []tracker.Option
}

// WithID 指定 trial ID，默认生成 UUID
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithLogger 注入日志记录器，组件会自动为 logger 添加 "trial" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger.WithNamespace("trial")
		}
	}
}

// WithTrackerOptions 传给内部 tracker 的选项，例如 tracker.WithMeter
func WithTrackerOptions(opts ...tracker.Option) Option {
	return func(o *options) {
		o.trackerOpts = append(o.trackerOpts, opts...)
	}
}

func applyOptions(opts []Option) *options {
	o := &options{logger: clog.Discard()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
