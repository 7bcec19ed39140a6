// Package stats provides the descriptive statistics used by the analysis
// pipeline: summaries, coefficients of variation, and the z-score outlier
// heuristic applied to repeated benchmark runs.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// OutlierThreshold is the z-score above which a repetition is flagged for
// manual review. Downstream reports key off this literal value.
const OutlierThreshold = 2.0

// Summary holds descriptive statistics for one metric series.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64 // sample standard deviation, 0 when Count < 2
	PopStd float64 // population standard deviation
	Min    float64
	Max    float64
	P50    float64
	P90    float64
	P95    float64
	P99    float64
}

// Describe computes summary statistics over values. An empty input yields a
// zero Summary.
func Describe(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(values),
		Mean:   stat.Mean(values, nil),
		PopStd: stat.PopStdDev(values, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P50:    Quantile(sorted, 50),
		P90:    Quantile(sorted, 90),
		P95:    Quantile(sorted, 95),
		P99:    Quantile(sorted, 99),
	}
	if len(values) >= 2 {
		s.Std = stat.StdDev(values, nil)
	}
	return s
}

// Quantile returns the pct-th empirical quantile of sorted (ascending).
func Quantile(sorted []float64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	return stat.Quantile(pct/100, stat.Empirical, sorted, nil)
}

// CV is the coefficient of variation, sigma/mu x 100. A zero mean reports 0
// rather than NaN so that flat series read as "no variation".
func CV(mean, std float64) float64 {
	if mean == 0 {
		return 0
	}
	return std / mean * 100
}

// ZScores computes |v - mean| / sigma for every value against the group mean
// and population standard deviation. ok is false when the group has fewer
// than 2 values, in which case no test is possible and callers must report
// "not applicable" instead of a score. When sigma is 0 every z-score is 0.
func ZScores(values []float64) (zs []float64, ok bool) {
	if len(values) < 2 {
		return nil, false
	}
	mean := stat.Mean(values, nil)
	sigma := stat.PopStdDev(values, nil)
	zs = make([]float64, len(values))
	if sigma == 0 {
		return zs, true
	}
	for i, v := range values {
		zs[i] = math.Abs(v-mean) / sigma
	}
	return zs, true
}

// Round2 rounds to two decimals, matching the precision of the aggregate
// CSV output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
