package clog

import (
	"bytes"
)

// withBuffer 测试专用，将日志写入 buf
func withBuffer(buf *bytes.Buffer) Option {
	return WithWriter(buf)
}
