package metrics

import "github.com/ceyewan/trialkit/xerrors"

// Config 指标系统的配置
//
// 典型配置示例（YAML）：
//
//	metrics:
//	  enabled: true
//	  service_name: "tuner"
//	  version: "v0.1.0"
//	  port: 9090
//	  path: "/metrics"
type Config struct {
	// Enabled 为 false 时 New() 返回 noop Meter
	Enabled bool `mapstructure:"enabled"`

	// ServiceName 作为 OpenTelemetry Resource 的 service.name
	ServiceName string `mapstructure:"service_name"`

	// Version 作为 OpenTelemetry Resource 的 service.version
	Version string `mapstructure:"version"`

	// Port 大于 0 且 Path 非空时启动 Prometheus HTTP 服务器
	Port int `mapstructure:"port"`

	// Path Prometheus 指标的 HTTP 路径，必须以 "/" 开头
	Path string `mapstructure:"path"`
}

// NewDevDefaultConfig 返回开发环境配置：启用指标但不启动 HTTP 服务器
func NewDevDefaultConfig(serviceName string) *Config {
	return &Config{
		Enabled:     true,
		ServiceName: serviceName,
		Version:     "dev",
	}
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		c.ServiceName = "trialkit"
	}
	if c.Port < 0 {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "metrics: invalid port %d", c.Port)
	}
	if c.Port > 0 && (c.Path == "" || c.Path[0] != '/') {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "metrics: path %q must start with /", c.Path)
	}
	return nil
}
