package domain

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// BoxStats is the five-number summary behind one box of the box plot.
// Quartiles are empirical: the smallest value whose cumulative share reaches p.
type BoxStats struct {
	Count  int     `json:"count" yaml:"count"`
	Min    float64 `json:"min" yaml:"min"`
	Q1     float64 `json:"q1" yaml:"q1"`
	Median float64 `json:"median" yaml:"median"`
	Q3     float64 `json:"q3" yaml:"q3"`
	Max    float64 `json:"max" yaml:"max"`
}

// Describe computes BoxStats for values. values is not modified. An empty
// input yields a zero BoxStats.
func Describe(values []float64) BoxStats {
	if len(values) == 0 {
		return BoxStats{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return BoxStats{
		Count:  len(sorted),
		Min:    sorted[0],
		Q1:     stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Median: stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q3:     stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Max:    sorted[len(sorted)-1],
	}
}
