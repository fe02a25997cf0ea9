package tracker

import (
	"math"
	"slices"
)

// Statistics 指标的聚合统计，忽略 NaN，方差与标准差为总体口径
type Statistics struct {
	// Count 观测总数，包含 NaN
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	Median float64
	Var    float64
	Std    float64
}

// Empty 历史为空
func (s Statistics) Empty() bool {
	return s.Count == 0
}

// AsMap 以 min/max/mean/median/var/std 为键返回统计值，为空时返回空 map
func (s Statistics) AsMap() map[string]float64 {
	if s.Empty() {
		return map[string]float64{}
	}
	return map[string]float64{
		"min":    s.Min,
		"max":    s.Max,
		"mean":   s.Mean,
		"median": s.Median,
		"var":    s.Var,
		"std":    s.Std,
	}
}

func computeStatistics(history []Observation) Statistics {
	if len(history) == 0 {
		return Statistics{}
	}

	values := make([]float64, 0, len(history))
	for _, o := range history {
		if !math.IsNaN(o.Value) {
			values = append(values, o.Value)
		}
	}

	st := Statistics{Count: len(history)}
	if len(values) == 0 {
		nan := math.NaN()
		st.Min, st.Max, st.Mean, st.Median, st.Var, st.Std = nan, nan, nan, nan, nan, nan
		return st
	}

	slices.Sort(values)
	n := float64(len(values))
	st.Min = values[0]
	st.Max = values[len(values)-1]

	var sum float64
	for _, v := range values {
		sum += v
	}
	st.Mean = sum / n

	mid := len(values) / 2
	if len(values)%2 == 1 {
		st.Median = values[mid]
	} else {
		st.Median = (values[mid-1] + values[mid]) / 2
	}

	var sq float64
	for _, v := range values {
		d := v - st.Mean
		sq += d * d
	}
	st.Var = sq / n
	st.Std = math.Sqrt(st.Var)
	return st
}
