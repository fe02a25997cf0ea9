// Package catalog 提供指标目录：把指标名解析为描述符，供方向推断使用。
//
// 描述符只暴露身份信息，不包含任何计算逻辑：
//   - Class: 指标类，身份为类名，例如 "AUC"、"Precision"
//   - Func: 指标函数，身份为函数名，例如 "accuracy"
//   - Wrapper: 包装函数的通用适配器，身份固定为 "MeanMetricWrapper"，Unwrapped 返回被包装的函数名
//
// Default() 返回内置 Keras 风格指标的目录。查找区分大小写："AUC" 是已知类，"auc" 未知。
package catalog

import (
	"sort"
	"sync"

	"github.com/ceyewan/trialkit/xerrors"
)

// WrapperIdentity 包装函数适配器的身份
const WrapperIdentity = "MeanMetricWrapper"

// Descriptor 指标描述符
type Descriptor interface {
	// Name 注册到 tracker 时使用的指标名
	Name() string
	// Identity 类名或函数名
	Identity() string
	// Unwrapped 对包装适配器返回被包装函数的名称，其他描述符返回 false
	Unwrapped() (string, bool)
}

// Resolver 按名称查找描述符，未知名称返回 ErrNotFound
type Resolver interface {
	Resolve(name string) (Descriptor, error)
}

// Class 指标类描述符
type Class struct {
	MetricName string
	ClassName  string
}

func (c Class) Name() string {
	if c.MetricName != "" {
		return c.MetricName
	}
	return c.ClassName
}

func (c Class) Identity() string          { return c.ClassName }
func (c Class) Unwrapped() (string, bool) { return "", false }

// Func 指标函数描述符
type Func struct {
	FuncName string
}

func (f Func) Name() string              { return f.FuncName }
func (f Func) Identity() string          { return f.FuncName }
func (f Func) Unwrapped() (string, bool) { return "", false }

// Wrapper 包装了某个指标函数的适配器
type Wrapper struct {
	MetricName string
	FuncName   string
}

func (w Wrapper) Name() string {
	if w.MetricName != "" {
		return w.MetricName
	}
	return w.FuncName
}

func (w Wrapper) Identity() string { return WrapperIdentity }

func (w Wrapper) Unwrapped() (string, bool) {
	return w.FuncName, w.FuncName != ""
}

// Catalog 内存中的指标目录，并发安全
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// New 创建目录，每个描述符以 Name() 为键注册，nil 会被忽略
func New(descs ...Descriptor) *Catalog {
	c := &Catalog{entries: make(map[string]Descriptor, len(descs))}
	for _, d := range descs {
		if d == nil || d.Name() == "" {
			continue
		}
		c.entries[d.Name()] = d
	}
	return c
}

// Register 以 alias 为键注册描述符，已存在的键会被覆盖
func (c *Catalog) Register(alias string, desc Descriptor) error {
	if alias == "" {
		return xerrors.Wrap(ErrInvalidEntry, "empty alias")
	}
	if desc == nil {
		return xerrors.Wrapf(ErrInvalidEntry, "nil descriptor for %q", alias)
	}

	c.mu.Lock()
	c.entries[alias] = desc
	c.mu.Unlock()
	return nil
}

// Resolve 实现 Resolver，nil Catalog 视为空目录
func (c *Catalog) Resolve(name string) (Descriptor, error) {
	if c == nil {
		return nil, xerrors.Wrapf(ErrNotFound, "metric %q", name)
	}
	c.mu.RLock()
	d, ok := c.entries[name]
	c.mu.RUnlock()
	if !ok {
		return nil, xerrors.Wrapf(ErrNotFound, "metric %q", name)
	}
	return d, nil
}

// Names 返回所有已注册的键，按字典序排列
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	c.mu.RLock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	c.mu.RUnlock()

	sort.Strings(names)
	return names
}
