package tracker

import (
	"bytes"
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/trialkit/catalog"
	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/metrics"
	"github.com/ceyewan/trialkit/xerrors"
)

func newTestTracker(t *testing.T, opts ...Option) *Tracker {
	t.Helper()
	tr, err := New(opts...)
	require.NoError(t, err)
	return tr
}

func TestNew(t *testing.T) {
	tr := newTestTracker(t)
	assert.Equal(t, 0, tr.Len())
	assert.Empty(t, tr.Names())

	tr = newTestTracker(t, WithMetrics(
		catalog.Class{MetricName: "auc", ClassName: "AUC"},
		catalog.Func{FuncName: "mean_squared_error"},
		nil,
	))
	assert.Equal(t, []string{"auc", "mean_squared_error"}, tr.Names())

	dir, err := tr.Direction("auc")
	require.NoError(t, err)
	assert.Equal(t, Maximize, dir)

	_, err = New(WithMetrics(catalog.Func{FuncName: "accuracy"}, catalog.Func{FuncName: "accuracy"}))
	assert.ErrorIs(t, err, ErrDuplicateMetric)
}

func TestRegister(t *testing.T) {
	tr := newTestTracker(t)

	require.NoError(t, tr.Register("x", ""))
	assert.True(t, tr.Exists("x"))
	assert.False(t, tr.Exists("y"))

	err := tr.Register("x", "")
	assert.ErrorIs(t, err, ErrDuplicateMetric)
	assert.Equal(t, "DUPLICATE_METRIC", xerrors.GetCode(err))

	err = tr.Register("y", Direction("up"))
	assert.ErrorIs(t, err, ErrInvalidDirection)
	assert.False(t, tr.Exists("y"), "failed registration must not leave a partial entry")

	require.NoError(t, tr.Register("val_accuracy", ""))
	require.NoError(t, tr.Register("score", Maximize))

	dir, err := tr.Direction("val_accuracy")
	require.NoError(t, err)
	assert.Equal(t, Maximize, dir)

	dir, err = tr.Direction("x")
	require.NoError(t, err)
	assert.Equal(t, Minimize, dir)

	assert.Equal(t, []string{"x", "val_accuracy", "score"}, tr.Names())

	history, err := tr.History("score")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRegisterMetrics(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.RegisterMetrics(
		catalog.Wrapper{MetricName: "acc", FuncName: "accuracy"},
		catalog.Class{MetricName: "recall", ClassName: "Recall"},
	))

	for _, name := range []string{"acc", "recall"} {
		dir, err := tr.Direction(name)
		require.NoError(t, err)
		assert.Equal(t, Maximize, dir, name)
	}

	assert.ErrorIs(t, tr.RegisterMetrics(catalog.Func{FuncName: "acc"}), ErrDuplicateMetric)
}

func TestUpdateFirstAlwaysBest(t *testing.T) {
	for _, name := range []string{"loss", "accuracy", "unknown"} {
		tr := newTestTracker(t)
		best, err := tr.Update(name, 42.0, 0)
		require.NoError(t, err)
		assert.True(t, best, name)
	}
}

func TestUpdateMaximize(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Register("acc", Maximize))

	want := []bool{true, true, false}
	for i, v := range []float64{0.5, 0.7, 0.6} {
		best, err := tr.Update("acc", v, int64(i))
		require.NoError(t, err)
		assert.Equal(t, want[i], best, "step %d", i)
	}

	v, ok, err := tr.BestValue("acc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.7, v)

	step, ok, err := tr.BestT("acc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1), step)

	last, ok, err := tr.LastValue("acc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 0.6, last)
}

func TestUpdateMinimizeAutoRegister(t *testing.T) {
	tr := newTestTracker(t)

	want := []bool{true, true, false}
	for i, v := range []float64{1.0, 0.8, 0.9} {
		best, err := tr.Update("loss", v, int64(i))
		require.NoError(t, err)
		assert.Equal(t, want[i], best, "step %d", i)
	}

	dir, err := tr.Direction("loss")
	require.NoError(t, err)
	assert.Equal(t, Minimize, dir)

	v, _, err := tr.BestValue("loss")
	require.NoError(t, err)
	assert.Equal(t, 0.8, v)

	step, _, err := tr.BestT("loss")
	require.NoError(t, err)
	assert.Equal(t, int64(1), step)
}

func TestUpdateAutoRegisterInfersByName(t *testing.T) {
	tr := newTestTracker(t)
	_, err := tr.Update("val_accuracy", 0.1, 0)
	require.NoError(t, err)

	dir, err := tr.Direction("val_accuracy")
	require.NoError(t, err)
	assert.Equal(t, Maximize, dir)
}

func TestUpdateTies(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Register("acc", Maximize))

	best, err := tr.Update("acc", 0.7, 1)
	require.NoError(t, err)
	assert.True(t, best)

	// 相等也算最优
	best, err = tr.Update("acc", 0.7, 5)
	require.NoError(t, err)
	assert.True(t, best)

	step, _, err := tr.BestT("acc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), step)
}

func TestUpdateNaN(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Register("loss", Minimize))

	best, err := tr.Update("loss", math.NaN(), 0)
	require.NoError(t, err)
	assert.True(t, best)

	// 历史全为 NaN 时新观测视为最优
	best, err = tr.Update("loss", math.NaN(), 1)
	require.NoError(t, err)
	assert.True(t, best)

	v, ok, err := tr.BestValue("loss")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, math.IsNaN(v))

	best, err = tr.Update("loss", 2.0, 2)
	require.NoError(t, err)
	assert.True(t, best)

	// NaN 比较结果恒为 false
	best, err = tr.Update("loss", math.NaN(), 3)
	require.NoError(t, err)
	assert.False(t, best)

	best, err = tr.Update("loss", 1.5, 4)
	require.NoError(t, err)
	assert.True(t, best)

	v, _, err = tr.BestValue("loss")
	require.NoError(t, err)
	assert.Equal(t, 1.5, v)

	step, _, err := tr.BestT("loss")
	require.NoError(t, err)
	assert.Equal(t, int64(4), step)
}

func TestUpdateValueCoercion(t *testing.T) {
	tr := newTestTracker(t)

	for i, v := range []any{1, int64(2), float32(0.5), "0.25", true} {
		_, err := tr.Update("m", v, int64(i))
		require.NoError(t, err, "value %v", v)
	}

	history, err := tr.History("m")
	require.NoError(t, err)
	values := make([]float64, len(history))
	for i, o := range history {
		values[i] = o.Value
	}
	assert.Equal(t, []float64{1, 2, 0.5, 0.25, 1}, values)

	for _, bad := range []any{nil, "abc", struct{}{}, []float64{1}} {
		_, err := tr.Update("bad", bad, 0)
		assert.ErrorIs(t, err, ErrInvalidValue, "value %v", bad)
	}
	assert.False(t, tr.Exists("bad"), "invalid values must not register the metric")
}

func TestHistory(t *testing.T) {
	tr := newTestTracker(t)

	_, err := tr.History("missing")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	// t 不要求单调，保留追加顺序
	_, _ = tr.Update("loss", 3.0, 5)
	_, _ = tr.Update("loss", 2.0, 1)
	_, _ = tr.Update("loss", 1.0, 5)

	history, err := tr.History("loss")
	require.NoError(t, err)
	assert.Equal(t, []Observation{{3, 5}, {2, 1}, {1, 5}}, history)

	// 返回副本
	history[0].Value = 100
	again, _ := tr.History("loss")
	assert.Equal(t, 3.0, again[0].Value)
}

func TestSetHistory(t *testing.T) {
	tr := newTestTracker(t)
	_, _ = tr.Update("acc", 0.1, 0)

	replacement := []Observation{{0.9, 3}, {0.4, 1}}
	require.NoError(t, tr.SetHistory("acc", replacement))
	replacement[0].Value = 0

	history, err := tr.History("acc")
	require.NoError(t, err)
	assert.Equal(t, []Observation{{0.9, 3}, {0.4, 1}}, history)

	// 自动注册
	require.NoError(t, tr.SetHistory("val_accuracy", []Observation{{0.5, 0}}))
	dir, err := tr.Direction("val_accuracy")
	require.NoError(t, err)
	assert.Equal(t, Maximize, dir)

	// nil 切片等价于空序列
	require.NoError(t, tr.SetHistory("acc", []Observation(nil)))
	history, err = tr.History("acc")
	require.NoError(t, err)
	assert.Empty(t, history)

	for _, bad := range []any{nil, []float64{0.1}, [][2]float64{{0.1, 0}}, Observation{}, "x"} {
		err := tr.SetHistory("new", bad)
		assert.ErrorIs(t, err, ErrInvalidHistory, "payload %T", bad)
		assert.Equal(t, "INVALID_HISTORY", xerrors.GetCode(err))
	}
	assert.False(t, tr.Exists("new"))
}

func TestEmptyHistoryQueries(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Register("loss", ""))

	_, ok, err := tr.BestValue("loss")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = tr.BestT("loss")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = tr.LastValue("loss")
	require.NoError(t, err)
	assert.False(t, ok)

	st, err := tr.Statistics("loss")
	require.NoError(t, err)
	assert.True(t, st.Empty())
	assert.Empty(t, st.AsMap())
}

func TestUnknownMetricQueries(t *testing.T) {
	tr := newTestTracker(t)

	_, _, err := tr.BestValue("x")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	_, _, err = tr.BestT("x")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	_, _, err = tr.LastValue("x")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	_, err = tr.Statistics("x")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	_, err = tr.Direction("x")
	assert.ErrorIs(t, err, ErrUnknownMetric)
	assert.Equal(t, "UNKNOWN_METRIC", xerrors.GetCode(err))
}

func TestNamesReturnsCopy(t *testing.T) {
	tr := newTestTracker(t)
	require.NoError(t, tr.Register("a", Minimize))

	names := tr.Names()
	names[0] = "b"
	assert.Equal(t, []string{"a"}, tr.Names())
}

func TestWithResolver(t *testing.T) {
	custom := catalog.New(catalog.Class{MetricName: "f1", ClassName: "Precision"})
	tr := newTestTracker(t, WithResolver(custom))

	_, err := tr.Update("f1", 0.3, 0)
	require.NoError(t, err)
	dir, _ := tr.Direction("f1")
	assert.Equal(t, Maximize, dir)

	// 自定义目录里没有 accuracy
	_, err = tr.Update("accuracy", 0.3, 0)
	require.NoError(t, err)
	dir, _ = tr.Direction("accuracy")
	assert.Equal(t, Minimize, dir)
}

// recordingMeter 记录 tracker 上报的指标
type recordingMeter struct {
	mu       sync.Mutex
	counters map[string]map[string]float64
	gauges   map[string]map[string]float64
}

func newRecordingMeter() *recordingMeter {
	return &recordingMeter{
		counters: make(map[string]map[string]float64),
		gauges:   make(map[string]map[string]float64),
	}
}

// labelValue 按顺序用 "/" 拼接标签值
func labelValue(labels []metrics.Label) string {
	values := make([]string, len(labels))
	for i, l := range labels {
		values[i] = l.Value
	}
	return strings.Join(values, "/")
}

type recordingCounter struct {
	m    *recordingMeter
	name string
}

func (c recordingCounter) Inc(ctx context.Context, labels ...metrics.Label) {
	c.Add(ctx, 1, labels...)
}

func (c recordingCounter) Add(_ context.Context, val float64, labels ...metrics.Label) {
	c.m.mu.Lock()
	defer c.m.mu.Unlock()
	c.m.counters[c.name][labelValue(labels)] += val
}

type recordingGauge struct {
	m    *recordingMeter
	name string
}

func (g recordingGauge) Set(_ context.Context, val float64, labels ...metrics.Label) {
	g.m.mu.Lock()
	defer g.m.mu.Unlock()
	g.m.gauges[g.name][labelValue(labels)] = val
}

func (g recordingGauge) Inc(context.Context, ...metrics.Label) {}
func (g recordingGauge) Dec(context.Context, ...metrics.Label) {}

func (m *recordingMeter) Counter(name, _ string, _ ...metrics.MetricOption) (metrics.Counter, error) {
	m.counters[name] = make(map[string]float64)
	return recordingCounter{m: m, name: name}, nil
}

func (m *recordingMeter) Gauge(name, _ string, _ ...metrics.MetricOption) (metrics.Gauge, error) {
	m.gauges[name] = make(map[string]float64)
	return recordingGauge{m: m, name: name}, nil
}

func (m *recordingMeter) Histogram(name, desc string, opts ...metrics.MetricOption) (metrics.Histogram, error) {
	return metrics.Discard().Histogram(name, desc, opts...)
}

func (m *recordingMeter) Shutdown(context.Context) error { return nil }

func TestTrackerMetrics(t *testing.T) {
	meter := newRecordingMeter()
	tr := newTestTracker(t, WithMeter(meter), WithLogger(clog.Discard()))

	for i, v := range []float64{1.0, 0.8, 0.9} {
		_, err := tr.Update("val_loss", v, int64(i))
		require.NoError(t, err)
	}

	assert.Equal(t, 3.0, meter.counters[MetricUpdates]["val_loss"])
	assert.Equal(t, 2.0, meter.counters[MetricBestUpdates]["val_loss"])
	assert.Equal(t, 0.8, meter.gauges[MetricBestValue]["val_loss"])
}

func TestTrackerMetricsWithLabels(t *testing.T) {
	meter := newRecordingMeter()
	first := newTestTracker(t, WithMeter(meter), WithLabels(metrics.L("slot", "0")))
	second := newTestTracker(t, WithMeter(meter), WithLabels(metrics.L("slot", "1")))

	_, err := first.Update("val_loss", 0.3, 0)
	require.NoError(t, err)
	_, err = second.Update("val_loss", 0.9, 0)
	require.NoError(t, err)

	// 共用 Meter 的两个 tracker 各自保留最优值
	assert.Equal(t, 0.3, meter.gauges[MetricBestValue]["0/val_loss"])
	assert.Equal(t, 0.9, meter.gauges[MetricBestValue]["1/val_loss"])
	assert.Equal(t, 1.0, meter.counters[MetricUpdates]["0/val_loss"])
}

func TestTrackerInferDirection(t *testing.T) {
	c := catalog.New(catalog.Class{MetricName: "f1", ClassName: "Precision"})
	tr := newTestTracker(t, WithResolver(c))

	// 未注册时用注入的目录推断，且不注册
	assert.Equal(t, Maximize, tr.InferDirection("f1"))
	assert.Equal(t, Minimize, tr.InferDirection("accuracy"))
	assert.False(t, tr.Exists("f1"))

	// 已注册时返回注册方向
	require.NoError(t, tr.Register("accuracy", Minimize))
	assert.Equal(t, Minimize, tr.InferDirection("accuracy"))

	_, err := tr.Update("f1", 0.4, 0)
	require.NoError(t, err)
	dir, err := tr.Direction("f1")
	require.NoError(t, err)
	assert.Equal(t, tr.InferDirection("f1"), dir)
}

func TestTrackerNilCatalogResolver(t *testing.T) {
	tr := newTestTracker(t, WithResolver((*catalog.Catalog)(nil)))

	best, err := tr.Update("accuracy", 0.5, 0)
	require.NoError(t, err)
	assert.True(t, best)

	dir, err := tr.Direction("accuracy")
	require.NoError(t, err)
	assert.Equal(t, Minimize, dir)
}

func TestTrackerLogsWithNamespace(t *testing.T) {
	var buf bytes.Buffer
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json", Output: "buffer"}, clog.WithWriter(&buf))
	require.NoError(t, err)

	tr := newTestTracker(t, WithLogger(logger))
	_, err = tr.Update("val_accuracy", 0.9, 2)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"namespace":"tracker"`)
	assert.Contains(t, out, `"metric":"val_accuracy"`)
	assert.Contains(t, out, "new best value")
}
