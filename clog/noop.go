package clog

import "context"

// Discard 返回丢弃所有输出的 Logger，作为各组件未注入 logger 时的默认值
func Discard() Logger { return discard{} }

type discard struct{}

func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}
func (discard) Fatal(string, ...Field) {}

func (discard) DebugContext(context.Context, string, ...Field) {}
func (discard) InfoContext(context.Context, string, ...Field)  {}
func (discard) WarnContext(context.Context, string, ...Field)  {}
func (discard) ErrorContext(context.Context, string, ...Field) {}
func (discard) FatalContext(context.Context, string, ...Field) {}

func (d discard) With(...Field) Logger           { return d }
func (d discard) WithNamespace(...string) Logger { return d }
func (discard) SetLevel(Level) error             { return nil }
func (discard) Flush()                           {}
