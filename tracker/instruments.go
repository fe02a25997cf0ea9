package tracker

import (
	"context"

	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/metrics"
)

const (
	MetricUpdates     = "trialkit_tracker_updates_total"
	MetricBestUpdates = "trialkit_tracker_best_updates_total"
	MetricBestValue   = "trialkit_tracker_best_value"
)

type instruments struct {
	updates     metrics.Counter
	bestUpdates metrics.Counter
	bestValue   metrics.Gauge
	labels      []metrics.Label
}

// newInstruments 创建 tracker 使用的指标，创建失败时退化为 noop 并记录警告
func newInstruments(meter metrics.Meter, logger clog.Logger, labels []metrics.Label) *instruments {
	noop := metrics.Discard()
	inst := &instruments{labels: labels}

	var err error
	if inst.updates, err = meter.Counter(MetricUpdates, "指标观测次数"); err != nil {
		logger.Warn("failed to create counter", clog.String("name", MetricUpdates), clog.Error(err))
		inst.updates, _ = noop.Counter(MetricUpdates, "")
	}
	if inst.bestUpdates, err = meter.Counter(MetricBestUpdates, "刷新最优值的观测次数"); err != nil {
		logger.Warn("failed to create counter", clog.String("name", MetricBestUpdates), clog.Error(err))
		inst.bestUpdates, _ = noop.Counter(MetricBestUpdates, "")
	}
	if inst.bestValue, err = meter.Gauge(MetricBestValue, "指标当前最优值"); err != nil {
		logger.Warn("failed to create gauge", clog.String("name", MetricBestValue), clog.Error(err))
		inst.bestValue, _ = noop.Gauge(MetricBestValue, "")
	}
	return inst
}

func (i *instruments) observe(name string, value float64, best bool) {
	ctx := context.Background()
	labels := make([]metrics.Label, 0, len(i.labels)+1)
	labels = append(labels, i.labels...)
	labels = append(labels, metrics.L("metric", name))

	i.updates.Inc(ctx, labels...)
	if best {
		i.bestUpdates.Inc(ctx, labels...)
		i.bestValue.Set(ctx, value, labels...)
	}
}
