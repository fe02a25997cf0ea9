package checkpoint

import (
	"strings"
	"time"

	"github.com/ceyewan/trialkit/serializer"
	"github.com/ceyewan/trialkit/xerrors"
)

// 存储驱动
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config checkpoint 存储配置
//
// 典型配置示例（YAML）：
//
//	checkpoint:
//	  driver: "sqlite"
//	  serializer: "msgpack"
type Config struct {
	// Driver 存储驱动: memory | file | sqlite | redis (默认: memory)
	Driver string `mapstructure:"driver"`

	// Serializer 快照编码: json | msgpack (默认: json)
	Serializer string `mapstructure:"serializer"`

	// Prefix redis 键前缀 (默认: "trialkit:checkpoint:")
	Prefix string `mapstructure:"prefix"`

	// Dir file 驱动的存储目录，必填
	Dir string `mapstructure:"dir"`

	// Capacity memory 驱动的最大条目数 (默认: 1000)
	Capacity int `mapstructure:"capacity"`

	// TTL memory / redis 驱动的过期时间，0 表示不过期；file 与 sqlite 忽略该字段
	TTL time.Duration `mapstructure:"ttl"`
}

// DefaultConfig 返回内存存储的默认配置
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.setDefaults()
	return cfg
}

func (c *Config) setDefaults() {
	c.Driver = strings.ToLower(c.Driver)
	if c.Driver == "" {
		c.Driver = DriverMemory
	}
	if c.Serializer == "" {
		c.Serializer = serializer.JSON
	}
	if c.Prefix == "" {
		c.Prefix = "trialkit:checkpoint:"
	}
	if c.Capacity <= 0 {
		c.Capacity = 1000
	}
}

func (c *Config) validate() error {
	c.setDefaults()
	switch c.Driver {
	case DriverMemory, DriverSQLite, DriverRedis:
	case DriverFile:
		if c.Dir == "" {
			return xerrors.Wrap(ErrInvalidConfig, "file driver requires dir")
		}
	default:
		return xerrors.Wrapf(ErrInvalidConfig, "unsupported driver %q", c.Driver)
	}
	if c.TTL < 0 {
		return xerrors.Wrapf(ErrInvalidConfig, "negative ttl %s", c.TTL)
	}
	return nil
}
