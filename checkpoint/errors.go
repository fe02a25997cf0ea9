package checkpoint

import "github.com/ceyewan/trialkit/xerrors"

var (
	// ErrNotFound 键不存在或已过期
	ErrNotFound = xerrors.WithCode(xerrors.ErrNotFound, "CHECKPOINT_NOT_FOUND")

	// ErrInvalidKey 键为空
	ErrInvalidKey = xerrors.WithCode(xerrors.ErrInvalidInput, "INVALID_CHECKPOINT_KEY")

	// ErrInvalidConfig 配置不合法或缺少驱动需要的连接器
	ErrInvalidConfig = xerrors.WithCode(xerrors.ErrInvalidInput, "INVALID_CHECKPOINT_CONFIG")

	// ErrClosed Store 已关闭
	ErrClosed = xerrors.WithCode(xerrors.ErrClosed, "CHECKPOINT_CLOSED")
)
