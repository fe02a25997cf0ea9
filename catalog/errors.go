package catalog

import "github.com/ceyewan/trialkit/xerrors"

var (
	// ErrNotFound 目录中没有该名称
	ErrNotFound = xerrors.WithCode(xerrors.ErrNotFound, "METRIC_NOT_IN_CATALOG")

	// ErrInvalidEntry 注册了空别名或 nil 描述符
	ErrInvalidEntry = xerrors.WithCode(xerrors.ErrInvalidInput, "INVALID_CATALOG_ENTRY")
)
