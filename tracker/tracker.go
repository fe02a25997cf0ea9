// Package tracker 按指标名记录试验过程中的观测序列，并回答最优值、最优时刻、
// 最近值与聚合统计等查询。
//
// 每个指标有固定的方向（Minimize / Maximize），注册后不可更改；观测按调用顺序追加，
// 只有 SetHistory 可以整体替换。GetConfig / FromConfig 导出与恢复完整状态，
// 用于嵌入更大的 trial 快照。
//
// Tracker 内部不加锁：多个 goroutine 共享同一实例时，Register / Update / SetHistory
// 必须由调用方串行化；没有并发修改时，只读查询可以并发调用。
//
// 基本用法：
//
//	tr, _ := tracker.New()
//	best, _ := tr.Update("val_accuracy", 0.81, 3)
//	v, ok, _ := tr.BestValue("val_accuracy")
package tracker

import (
	"math"

	"github.com/spf13/cast"

	"github.com/ceyewan/trialkit/catalog"
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/xerrors"
)

// series 单个指标的方向与观测序列，方向注册后不变
type series struct {
	direction Direction
	history   []Observation
}

// Tracker 指标追踪器
type Tracker struct {
	names    []string
	metrics  map[string]*series
	resolver catalog.Resolver
	logger   clog.Logger
	inst     *instruments
}

// New 创建 Tracker，WithMetrics 给出的描述符会按顺序注册
func New(opts ...Option) (*Tracker, error) {
	o := applyOptions(opts)
	t := newTracker(o)

	if err := t.RegisterMetrics(o.metrics...); err != nil {
		return nil, err
	}
	return t, nil
}

func newTracker(o *options) *Tracker {
	return &Tracker{
		metrics:  make(map[string]*series),
		resolver: o.resolver,
		logger:   o.logger,
		inst:     newInstruments(o.meter, o.logger, o.labels),
	}
}

// Exists 指标是否已注册
func (t *Tracker) Exists(name string) bool {
	_, ok := t.metrics[name]
	return ok
}

// Register 注册指标，dir 为空时按名称推断方向
func (t *Tracker) Register(name string, dir Direction) error {
	if dir == "" {
		dir = InferDirection(Name(name), t.resolver)
	}
	return t.register(name, dir)
}

// RegisterMetrics 批量注册描述符，方向由描述符本身推断
func (t *Tracker) RegisterMetrics(descs ...catalog.Descriptor) error {
	for _, d := range descs {
		if d == nil {
			continue
		}
		if err := t.register(d.Name(), InferDirection(Desc(d), t.resolver)); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) register(name string, dir Direction) error {
	if !dir.Valid() {
		return xerrors.Wrapf(ErrInvalidDirection, "metric %q: got %q", name, dir)
	}
	if t.Exists(name) {
		return xerrors.Wrapf(ErrDuplicateMetric, "metric %q", name)
	}

	t.names = append(t.names, name)
	t.metrics[name] = &series{direction: dir, history: []Observation{}}
	t.logger.Debug("metric registered", clog.Metric(name), clog.String("direction", string(dir)))
	return nil
}

// ensure 返回指标序列，未注册时按名称推断方向并注册
func (t *Tracker) ensure(name string) (*series, error) {
	if s, ok := t.metrics[name]; ok {
		return s, nil
	}
	if err := t.Register(name, ""); err != nil {
		return nil, err
	}
	return t.metrics[name], nil
}

func (t *Tracker) lookup(name string) (*series, error) {
	s, ok := t.metrics[name]
	if !ok {
		return nil, xerrors.Wrapf(ErrUnknownMetric, "metric %q", name)
	}
	return s, nil
}

// Update 追加一次观测，返回它是否为目前为止的最优值
//
// value 通过 cast 转换为 float64，数值字符串也被接受。比较时忽略历史中的 NaN，
// 没有历史或历史全为 NaN 时新观测视为最优；相等也算最优。
func (t *Tracker) Update(name string, value any, step int64) (bool, error) {
	v, err := toFloat(value)
	if err != nil {
		return false, xerrors.Wrapf(err, "metric %q", name)
	}

	s, err := t.ensure(name)
	if err != nil {
		return false, err
	}

	prior, ok := extremum(s.history, s.direction)
	best := !ok || s.direction.Better(v, prior)
	s.history = append(s.history, Observation{Value: v, T: step})

	t.inst.observe(name, v, best)
	if best {
		t.logger.Debug("new best value", clog.Metric(name), clog.Float64("value", v), clog.Int64("t", step))
	}
	return best, nil
}

func toFloat(value any) (float64, error) {
	if value == nil {
		return 0, xerrors.Wrap(ErrInvalidValue, "nil")
	}
	v, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, xerrors.Wrapf(ErrInvalidValue, "%v (%T)", value, value)
	}
	return v, nil
}

// History 返回指标的观测序列副本
func (t *Tracker) History(name string) ([]Observation, error) {
	s, err := t.lookup(name)
	if err != nil {
		return nil, err
	}
	out := make([]Observation, len(s.history))
	copy(out, s.history)
	return out, nil
}

// SetHistory 整体替换观测序列，只接受 []Observation，未注册的指标会自动注册
func (t *Tracker) SetHistory(name string, history any) error {
	obs, ok := history.([]Observation)
	if !ok {
		return xerrors.Wrapf(ErrInvalidHistory, "metric %q: got %T", name, history)
	}

	s, err := t.ensure(name)
	if err != nil {
		return err
	}
	s.history = make([]Observation, len(obs))
	copy(s.history, obs)
	return nil
}

// BestValue 返回最优值，历史为空时 ok 为 false，全为 NaN 时返回 NaN
func (t *Tracker) BestValue(name string) (float64, bool, error) {
	s, err := t.lookup(name)
	if err != nil {
		return 0, false, err
	}
	if len(s.history) == 0 {
		return 0, false, nil
	}
	v, ok := extremum(s.history, s.direction)
	if !ok {
		return math.NaN(), true, nil
	}
	return v, true, nil
}

// BestT 返回取得最优值的时间索引，多个观测并列时取最早追加的那个
func (t *Tracker) BestT(name string) (int64, bool, error) {
	s, err := t.lookup(name)
	if err != nil {
		return 0, false, err
	}
	if len(s.history) == 0 {
		return 0, false, nil
	}
	return s.history[bestIndex(s.history, s.direction)].T, true, nil
}

// LastValue 返回最近追加的观测值
func (t *Tracker) LastValue(name string) (float64, bool, error) {
	s, err := t.lookup(name)
	if err != nil {
		return 0, false, err
	}
	if len(s.history) == 0 {
		return 0, false, nil
	}
	return s.history[len(s.history)-1].Value, true, nil
}

// Statistics 返回聚合统计，历史为空时返回零值
func (t *Tracker) Statistics(name string) (Statistics, error) {
	s, err := t.lookup(name)
	if err != nil {
		return Statistics{}, err
	}
	return computeStatistics(s.history), nil
}

// Names 按注册顺序返回指标名
func (t *Tracker) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}

// Direction 返回指标方向
func (t *Tracker) Direction(name string) (Direction, error) {
	s, err := t.lookup(name)
	if err != nil {
		return "", err
	}
	return s.direction, nil
}

// InferDirection 返回指标方向：已注册时取注册方向，否则用本 tracker 的指标目录按名称推断，不注册
func (t *Tracker) InferDirection(name string) Direction {
	if s, ok := t.metrics[name]; ok {
		return s.direction
	}
	return InferDirection(Name(name), t.resolver)
}

// Len 已注册的指标数量
func (t *Tracker) Len() int {
	return len(t.names)
}

// extremum 忽略 NaN 的最小/最大值，没有非 NaN 值时 ok 为 false
func extremum(history []Observation, dir Direction) (float64, bool) {
	i := bestIndex(history, dir)
	if i < 0 || math.IsNaN(history[i].Value) {
		return 0, false
	}
	return history[i].Value, true
}

// bestIndex 最优观测的下标，并列取最早；全为 NaN 时返回 0，空序列返回 -1
func bestIndex(history []Observation, dir Direction) int {
	if len(history) == 0 {
		return -1
	}
	best := -1
	for i, o := range history {
		if math.IsNaN(o.Value) {
			continue
		}
		if best < 0 || strictlyBetter(dir, o.Value, history[best].Value) {
			best = i
		}
	}
	if best < 0 {
		return 0
	}
	return best
}

func strictlyBetter(dir Direction, a, b float64) bool {
	if dir == Maximize {
		return a > b
	}
	return a < b
}
