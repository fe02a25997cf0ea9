package tracker

import "github.com/ceyewan/trialkit/xerrors"

// 哨兵错误，都表示调用方误用，直接返回给调用方，不做任何恢复
var (
	// ErrInvalidDirection 方向不是 "min" 或 "max"
	ErrInvalidDirection = xerrors.WithCode(xerrors.New("tracker: invalid direction"), "INVALID_DIRECTION")

	// ErrDuplicateMetric 指标已注册
	ErrDuplicateMetric = xerrors.WithCode(xerrors.New("tracker: metric already exists"), "DUPLICATE_METRIC")

	// ErrUnknownMetric 指标未注册
	ErrUnknownMetric = xerrors.WithCode(xerrors.New("tracker: unknown metric"), "UNKNOWN_METRIC")

	// ErrInvalidValue 值无法转换为 float64
	ErrInvalidValue = xerrors.WithCode(xerrors.New("tracker: invalid value"), "INVALID_VALUE")

	// ErrInvalidHistory SetHistory 的参数不是 []Observation
	ErrInvalidHistory = xerrors.WithCode(xerrors.New("tracker: invalid history"), "INVALID_HISTORY")

	// ErrInvalidConfig 快照内容不一致
	ErrInvalidConfig = xerrors.WithCode(xerrors.New("tracker: invalid config"), "INVALID_CONFIG")
)
