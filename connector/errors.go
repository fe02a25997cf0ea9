package connector

import "github.com/ceyewan/trialkit/xerrors"

// 连接器专用的哨兵错误
var (
	ErrConnection  = xerrors.New("connector: connection failed")
	ErrConfig      = xerrors.WithCode(xerrors.New("connector: invalid config"), "CONNECTOR_CONFIG")
	ErrHealthCheck = xerrors.New("connector: health check failed")
	ErrClientNil   = xerrors.New("connector: client is nil")
)
