package anomaly

import (
	"math"
	"sort"
)

// Method selects a statistical outlier test.
type Method string

const (
	MethodZScore    Method = "zscore"
	MethodIQR       Method = "iqr"
	MethodIsolation Method = "isolation"
)

const (
	zScoreThreshold    = 2.5
	iqrMultiplier      = 1.5
	isolationThreshold = 2.5
	isolationEpsilon   = 0.001
	minStatisticalSize = 3
)

// DetectStatistical returns the indices of outlying values. Fewer than three
// values, or an unknown method, yields no indices.
func DetectStatistical(values []float64, method Method) []int {
	if len(values) < minStatisticalSize {
		return nil
	}
	switch method {
	case MethodZScore, "z_score":
		mean, std := meanStd(values)
		if std == 0 {
			return nil
		}
		return indicesWhere(values, func(v float64) bool {
			return math.Abs(v-mean)/std > zScoreThreshold
		})
	case MethodIQR:
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		q1 := percentile(sorted, 25)
		q3 := percentile(sorted, 75)
		iqr := q3 - q1
		lower, upper := q1-iqrMultiplier*iqr, q3+iqrMultiplier*iqr
		return indicesWhere(values, func(v float64) bool {
			return v < lower || v > upper
		})
	case MethodIsolation, "isolation_forest":
		mean, std := meanStd(values)
		return indicesWhere(values, func(v float64) bool {
			return math.Abs(v-mean)/(std+isolationEpsilon) > isolationThreshold
		})
	}
	return nil
}

func indicesWhere(values []float64, pred func(float64) bool) []int {
	var out []int
	for i, v := range values {
		if pred(v) {
			out = append(out, i)
		}
	}
	return out
}

// meanStd returns the mean and population standard deviation.
func meanStd(values []float64) (float64, float64) {
	if len(values) == 0 {
		return 0, 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	sq := 0.0
	for _, v := range values {
		sq += (v - mean) * (v - mean)
	}
	return mean, math.Sqrt(sq / float64(len(values)))
}

// StdDev is the population standard deviation of values.
func StdDev(values []float64) float64 {
	_, std := meanStd(values)
	return std
}

// percentile uses linear interpolation between closest ranks on sorted data.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
