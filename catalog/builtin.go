package catalog

import "sync"

// 内置指标函数
var builtinFuncs = []string{
	"accuracy",
	"binary_accuracy",
	"categorical_accuracy",
	"sparse_categorical_accuracy",
	"top_k_categorical_accuracy",
	"sparse_top_k_categorical_accuracy",
	"binary_crossentropy",
	"categorical_crossentropy",
	"sparse_categorical_crossentropy",
	"mean_squared_error",
	"mean_absolute_error",
	"mean_absolute_percentage_error",
	"mean_squared_logarithmic_error",
	"hinge",
	"squared_hinge",
	"categorical_hinge",
	"kullback_leibler_divergence",
	"poisson",
	"logcosh",
	"cosine_similarity",
}

// 函数别名 -> 函数名
var builtinAliases = map[string]string{
	"acc":           "accuracy",
	"mse":           "mean_squared_error",
	"MSE":           "mean_squared_error",
	"mae":           "mean_absolute_error",
	"MAE":           "mean_absolute_error",
	"mape":          "mean_absolute_percentage_error",
	"MAPE":          "mean_absolute_percentage_error",
	"msle":          "mean_squared_logarithmic_error",
	"MSLE":          "mean_squared_logarithmic_error",
	"kld":           "kullback_leibler_divergence",
	"KLD":           "kullback_leibler_divergence",
	"kl_divergence": "kullback_leibler_divergence",
	"log_cosh":      "logcosh",
}

// 类名 -> 实例默认名
var builtinClasses = map[string]string{
	"Accuracy":                      "accuracy",
	"BinaryAccuracy":                "binary_accuracy",
	"CategoricalAccuracy":           "categorical_accuracy",
	"SparseCategoricalAccuracy":     "sparse_categorical_accuracy",
	"TopKCategoricalAccuracy":       "top_k_categorical_accuracy",
	"SparseTopKCategoricalAccuracy": "sparse_top_k_categorical_accuracy",
	"AUC":                           "auc",
	"Precision":                     "precision",
	"Recall":                        "recall",
	"TruePositives":                 "true_positives",
	"TrueNegatives":                 "true_negatives",
	"FalsePositives":                "false_positives",
	"FalseNegatives":                "false_negatives",
	"SensitivityAtSpecificity":      "sensitivity_at_specificity",
	"SpecificityAtSensitivity":      "specificity_at_sensitivity",
	"MeanSquaredError":              "mean_squared_error",
	"MeanAbsoluteError":             "mean_absolute_error",
	"MeanAbsolutePercentageError":   "mean_absolute_percentage_error",
	"MeanSquaredLogarithmicError":   "mean_squared_logarithmic_error",
	"RootMeanSquaredError":          "root_mean_squared_error",
	"BinaryCrossentropy":            "binary_crossentropy",
	"CategoricalCrossentropy":       "categorical_crossentropy",
	"SparseCategoricalCrossentropy": "sparse_categorical_crossentropy",
	"Hinge":                         "hinge",
	"SquaredHinge":                  "squared_hinge",
	"CategoricalHinge":              "categorical_hinge",
	"KLDivergence":                  "kullback_leibler_divergence",
	"Poisson":                       "poisson",
	"LogCoshError":                  "logcosh",
	"CosineSimilarity":              "cosine_similarity",
	"MeanIoU":                       "mean_io_u",
	"Mean":                          "mean",
	"Sum":                           "sum",
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default 返回预置内置指标的共享目录
//
// 返回的目录是进程内共享的，在其上 Register 会影响所有使用 Default() 的 tracker。
// 需要自定义指标时建议用 NewDefault() 创建独立副本。
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = NewDefault()
	})
	return defaultCatalog
}

// NewDefault 创建一个新的、预置内置指标的目录
func NewDefault() *Catalog {
	c := New()
	for _, fn := range builtinFuncs {
		c.entries[fn] = Func{FuncName: fn}
	}
	for alias, fn := range builtinAliases {
		c.entries[alias] = Func{FuncName: fn}
	}
	for class, name := range builtinClasses {
		c.entries[class] = Class{MetricName: name, ClassName: class}
	}
	return c
}
