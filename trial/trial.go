// Package trial 描述一次试验：一个目标指标、一个嵌入的 tracker 以及试验状态。
//
// Trial 创建后处于 RUNNING，通过 Report 上报指标；目标指标刷新最优值时同步更新
// Score 与 BestStep。Finish 之后 Trial 只读。GetConfig 导出的快照可交给 checkpoint 持久化。
package trial

import (
	"math"

	"github.com/google/uuid"

	"github.com/ceyewan/trialkit/clog"
	"github.com/ceyewan/trialkit/tracker"
	"github.com/ceyewan/trialkit/xerrors"
)

// Status trial 状态
type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusInvalid   Status = "INVALID"
	StatusStopped   Status = "STOPPED"
)

// Terminal 是否为结束状态
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusInvalid, StatusStopped:
		return true
	}
	return false
}

func (s Status) valid() bool {
	return s == StatusRunning || s.Terminal()
}

// Trial 一次试验，不是并发安全的
type Trial struct {
	ID        string
	Status    Status
	Objective string
	// Score 目标指标的最优值，尚无有效观测时为 nil
	Score *float64
	// BestStep 取得 Score 的时间索引
	BestStep *int64
	Metrics  *tracker.Tracker

	logger clog.Logger
}

// New 创建处于 RUNNING 状态的 trial
func New(objective string, opts ...Option) (*Trial, error) {
	if objective == "" {
		return nil, xerrors.Wrap(xerrors.ErrInvalidInput, "trial: objective is required")
	}

	o := applyOptions(opts)
	tr, err := tracker.New(o.trackerOpts...)
	if err != nil {
		return nil, err
	}

	id := o.id
	if id == "" {
		id = uuid.NewString()
	}

	t := &Trial{
		ID:        id,
		Status:    StatusRunning,
		Objective: objective,
		Metrics:   tr,
		logger:    o.logger,
	}
	t.logger.Debug("trial created", clog.String("trial_id", id), clog.String("objective", objective))
	return t, nil
}

// Report 上报一次指标观测，返回它是否为该指标目前的最优值
func (t *Trial) Report(name string, value any, step int64) (bool, error) {
	if t.Status.Terminal() {
		return false, xerrors.Wrapf(ErrFinished, "trial %s is %s", t.ID, t.Status)
	}

	best, err := t.Metrics.Update(name, value, step)
	if err != nil {
		return false, err
	}

	if best && name == t.Objective {
		t.refreshScore()
	}
	return best, nil
}

// refreshScore 从 tracker 读取目标指标的最优值，NaN 不作为分数
func (t *Trial) refreshScore() {
	v, ok, err := t.Metrics.BestValue(t.Objective)
	if err != nil || !ok || math.IsNaN(v) {
		return
	}
	step, _, _ := t.Metrics.BestT(t.Objective)
	t.Score = &v
	t.BestStep = &step
}

// Finish 以结束状态结束 trial
func (t *Trial) Finish(status Status) error {
	if t.Status.Terminal() {
		return xerrors.Wrapf(ErrFinished, "trial %s is %s", t.ID, t.Status)
	}
	if !status.Terminal() {
		return xerrors.Wrapf(ErrInvalidStatus, "got %q", status)
	}

	t.Status = status
	fields := []clog.Field{
		clog.String("trial_id", t.ID),
		clog.String("status", string(status)),
		clog.Int("metrics", t.Metrics.Len()),
		clog.Bool("scored", t.Score != nil),
	}
	if t.Score != nil {
		fields = append(fields, clog.Float64("score", *t.Score), clog.Int64("best_step", *t.BestStep))
	}
	t.logger.Info("trial finished", fields...)
	return nil
}

// Direction 目标指标的方向，目标尚未上报时用 tracker 的指标目录推断，与首次 Report 注册的方向一致
func (t *Trial) Direction() tracker.Direction {
	return t.Metrics.InferDirection(t.Objective)
}
