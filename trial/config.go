package trial

import (
	"github.com/ceyewan/trialkit/tracker"
	"github.com/ceyewan/trialkit/xerrors"
)

// Config trial 快照
type Config struct {
	TrialID   string          `json:"trial_id" msgpack:"trial_id"`
	Status    Status          `json:"status" msgpack:"status"`
	Objective string          `json:"objective" msgpack:"objective"`
	Score     *float64        `json:"score" msgpack:"score"`
	BestStep  *int64          `json:"best_step" msgpack:"best_step"`
	Metrics   *tracker.Config `json:"metrics" msgpack:"metrics"`
}

// GetConfig 导出快照
func (t *Trial) GetConfig() *Config {
	cfg := &Config{
		TrialID:   t.ID,
		Status:    t.Status,
		Objective: t.Objective,
		Metrics:   t.Metrics.GetConfig(),
	}
	if t.Score != nil {
		score := *t.Score
		cfg.Score = &score
	}
	if t.BestStep != nil {
		step := *t.BestStep
		cfg.BestStep = &step
	}
	return cfg
}

// FromConfig 从快照恢复 trial，WithID 会被忽略
func FromConfig(cfg *Config, opts ...Option) (*Trial, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrInvalidConfig, "nil config")
	}
	if cfg.TrialID == "" || cfg.Objective == "" {
		return nil, xerrors.Wrap(ErrInvalidConfig, "trial_id and objective are required")
	}
	if !cfg.Status.valid() {
		return nil, xerrors.Wrapf(ErrInvalidConfig, "status %q", cfg.Status)
	}

	o := applyOptions(opts)
	var (
		tr  *tracker.Tracker
		err error
	)
	if cfg.Metrics != nil {
		tr, err = tracker.FromConfig(cfg.Metrics, o.trackerOpts...)
	} else {
		tr, err = tracker.New(o.trackerOpts...)
	}
	if err != nil {
		return nil, xerrors.Wrapf(err, "trial %s", cfg.TrialID)
	}

	t := &Trial{
		ID:        cfg.TrialID,
		Status:    cfg.Status,
		Objective: cfg.Objective,
		Metrics:   tr,
		logger:    o.logger,
	}
	if cfg.Score != nil {
		score := *cfg.Score
		t.Score = &score
	}
	if cfg.BestStep != nil {
		step := *cfg.BestStep
		t.BestStep = &step
	}
	return t, nil
}
