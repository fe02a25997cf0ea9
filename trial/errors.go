package trial

import "github.com/ceyewan/trialkit/xerrors"

var (
	// ErrInvalidStatus 结束状态不是 COMPLETED / INVALID / STOPPED
	ErrInvalidStatus = xerrors.WithCode(xerrors.New("trial: invalid status"), "INVALID_STATUS")

	// ErrFinished trial 已结束，不再接受上报
	ErrFinished = xerrors.WithCode(xerrors.New("trial: already finished"), "TRIAL_FINISHED")

	// ErrInvalidConfig 快照内容不合法
	ErrInvalidConfig = xerrors.WithCode(xerrors.New("trial: invalid config"), "INVALID_TRIAL_CONFIG")
)
