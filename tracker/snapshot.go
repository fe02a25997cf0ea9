package tracker

import (
	"github.com/ceyewan/trialkit/serializer"
	"github.com/ceyewan/trialkit/xerrors"
)

// Config Tracker 的完整快照，没有版本号，只作为内部快照格式嵌入 trial 快照
//
// JSON 形式：
//
//	{
//	  "names": ["loss", "val_accuracy"],
//	  "directions": {"loss": "min", "val_accuracy": "max"},
//	  "metrics_history": {"loss": [[1.0, 0], [0.8, 1]], "val_accuracy": [[0.5, 0]]}
//	}
type Config struct {
	Names          []string                 `json:"names" msgpack:"names" mapstructure:"names"`
	Directions     map[string]string        `json:"directions" msgpack:"directions" mapstructure:"directions"`
	MetricsHistory map[string][]Observation `json:"metrics_history" msgpack:"metrics_history" mapstructure:"metrics_history"`
}

// GetConfig 导出当前状态，返回值与 Tracker 不共享内存
func (t *Tracker) GetConfig() *Config {
	cfg := &Config{
		Names:          t.Names(),
		Directions:     make(map[string]string, len(t.names)),
		MetricsHistory: make(map[string][]Observation, len(t.names)),
	}
	for _, name := range t.names {
		s := t.metrics[name]
		cfg.Directions[name] = string(s.direction)
		history := make([]Observation, len(s.history))
		copy(history, s.history)
		cfg.MetricsHistory[name] = history
	}
	return cfg
}

// FromConfig 从快照恢复 Tracker
//
// 快照必须自洽：每个名称恰好出现一次并带有合法方向，directions 与 metrics_history
// 不能包含 names 以外的键。缺少历史的指标视为空序列。
func FromConfig(cfg *Config, opts ...Option) (*Tracker, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrInvalidConfig, "nil config")
	}
	if len(cfg.Directions) != len(cfg.Names) {
		return nil, xerrors.Wrapf(ErrInvalidConfig, "%d names but %d directions", len(cfg.Names), len(cfg.Directions))
	}

	o := applyOptions(opts)
	t := newTracker(o)

	for _, name := range cfg.Names {
		raw, ok := cfg.Directions[name]
		if !ok {
			return nil, xerrors.Wrapf(ErrInvalidConfig, "metric %q has no direction", name)
		}
		dir, err := ParseDirection(raw)
		if err != nil {
			return nil, xerrors.Wrapf(ErrInvalidConfig, "metric %q: %v", name, err)
		}
		if err := t.register(name, dir); err != nil {
			return nil, xerrors.Wrapf(ErrInvalidConfig, "metric %q: %v", name, err)
		}
		if history := cfg.MetricsHistory[name]; len(history) > 0 {
			s := t.metrics[name]
			s.history = make([]Observation, len(history))
			copy(s.history, history)
		}
	}

	for name := range cfg.MetricsHistory {
		if !t.Exists(name) {
			return nil, xerrors.Wrapf(ErrInvalidConfig, "history for unregistered metric %q", name)
		}
	}
	return t, nil
}

// Marshal 用给定的序列化器编码快照
func (c *Config) Marshal(s serializer.Serializer) ([]byte, error) {
	data, err := s.Marshal(c)
	if err != nil {
		return nil, xerrors.Wrapf(err, "marshal tracker config (%s)", s.Name())
	}
	return data, nil
}

// UnmarshalConfig 用给定的序列化器解码快照
func UnmarshalConfig(s serializer.Serializer, data []byte) (*Config, error) {
	var cfg Config
	if err := s.Unmarshal(data, &cfg); err != nil {
		return nil, xerrors.Wrapf(ErrInvalidConfig, "unmarshal (%s): %v", s.Name(), err)
	}
	return &cfg, nil
}

// Load 解码快照并恢复 Tracker
func Load(s serializer.Serializer, data []byte, opts ...Option) (*Tracker, error) {
	cfg, err := UnmarshalConfig(s, data)
	if err != nil {
		return nil, err
	}
	return FromConfig(cfg, opts...)
}
