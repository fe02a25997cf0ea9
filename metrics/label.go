package metrics

// Label 指标标签，为指标添加维度信息
//
// 标签值应保持低基数：指标名、操作类型、存储驱动、搜索槽位适合作为标签，trial ID 不适合。
type Label struct {
	Key   string
	Value string
}

// L 便捷构造函数，创建一个 Label 实例
//
//	counter.Inc(ctx, metrics.L("metric", "val_loss"))
func L(key, value string) Label {
	return Label{
		Key:   key,
		Value: value,
	}
}
