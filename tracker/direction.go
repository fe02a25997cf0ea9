package tracker

import (
	"strings"

	"github.com/ceyewan/trialkit/catalog"
	"github.com/ceyewan/trialkit/xerrors"
)

// Direction 指标的优化方向
type Direction string

const (
	Minimize Direction = "min"
	Maximize Direction = "max"
)

// ParseDirection 解析 "min" / "max"
func ParseDirection(s string) (Direction, error) {
	d := Direction(s)
	if !d.Valid() {
		return "", xerrors.Wrapf(ErrInvalidDirection, "got %q", s)
	}
	return d, nil
}

// Valid 是否为 Minimize 或 Maximize
func (d Direction) Valid() bool {
	return d == Minimize || d == Maximize
}

// Better 报告 a 是否至少与 b 一样好，任一值为 NaN 时返回 false
func (d Direction) Better(a, b float64) bool {
	if d == Maximize {
		return a >= b
	}
	return a <= b
}

func (d Direction) String() string { return string(d) }

// MetricRef 指标的引用：名称或描述符二选一
type MetricRef struct {
	name string
	desc catalog.Descriptor
}

// Name 以名称引用指标
func Name(name string) MetricRef {
	return MetricRef{name: name}
}

// Desc 以描述符引用指标
func Desc(desc catalog.Descriptor) MetricRef {
	return MetricRef{desc: desc}
}

// String 返回引用的指标名
func (r MetricRef) String() string {
	if r.desc != nil {
		return r.desc.Name()
	}
	return r.name
}

// 取值越大越好的指标类
var maxClasses = map[string]struct{}{
	"Accuracy":                      {},
	"BinaryAccuracy":                {},
	"CategoricalAccuracy":           {},
	"SparseCategoricalAccuracy":     {},
	"TopKCategoricalAccuracy":       {},
	"SparseTopKCategoricalAccuracy": {},
	"TruePositives":                 {},
	"TrueNegatives":                 {},
	"Precision":                     {},
	"Recall":                        {},
	"AUC":                           {},
	"SensitivityAtSpecificity":      {},
	"SpecificityAtSensitivity":      {},
}

// 取值越大越好的指标函数
var maxFuncs = map[string]struct{}{
	"accuracy":                    {},
	"categorical_accuracy":        {},
	"binary_accuracy":             {},
	"sparse_categorical_accuracy": {},
}

const valPrefix = "val_"

// canonicalName 去掉验证集前缀 "val_"，名称本身就是 "val_" 时保持不变
func canonicalName(name string) string {
	if len(name) > len(valPrefix) && strings.HasPrefix(name, valPrefix) {
		return name[len(valPrefix):]
	}
	return name
}

// InferDirection 推断指标方向，从不失败，无法判断时返回 Minimize
//
// 名称引用先去掉 "val_" 前缀，"loss" 直接视为 Minimize，其余通过 r 解析为描述符；
// 解析失败或 r 为 nil 时返回 Minimize。描述符的身份若是包装适配器，则使用被包装函数的名称。
func InferDirection(ref MetricRef, r catalog.Resolver) Direction {
	desc := ref.desc
	if desc == nil {
		name := canonicalName(ref.name)
		if name == "loss" {
			return Minimize
		}
		if r == nil {
			return Minimize
		}
		d, err := r.Resolve(name)
		if err != nil || d == nil {
			return Minimize
		}
		desc = d
	}

	identity := desc.Identity()
	if identity == catalog.WrapperIdentity {
		if inner, ok := desc.Unwrapped(); ok {
			identity = inner
		}
	}

	if _, ok := maxClasses[identity]; ok {
		return Maximize
	}
	if _, ok := maxFuncs[identity]; ok {
		return Maximize
	}
	return Minimize
}
