package domain

import (
	"math"
	"sort"
)

// Point is one entry of a per-year maximum series.
type Point struct {
	Year  int     `json:"year" yaml:"year"`
	Value float64 `json:"value" yaml:"value"`
}

// Peak is the row holding a group's maximum metric value. Row is the index in
// the Dataset.
type Peak struct {
	Country string  `json:"country" yaml:"country"`
	Year    int     `json:"year" yaml:"year"`
	Value   float64 `json:"value" yaml:"value"`
	Row     int     `json:"row" yaml:"row"`
}

// Group is the aggregation for one group key: "All" or a single country.
type Group struct {
	Key string
	// Series holds the max metric value per year, ascending by year. Years
	// without rows are absent.
	Series []Point
	// Values are the raw per-row metric values in dataset order.
	Values []float64
	// Peak is nil when the group has no rows in range.
	Peak *Peak
}

// Distribution summarizes Values for a box plot.
func (g Group) Distribution() BoxStats {
	return Describe(g.Values)
}

// AggregationResult is derived per request and never stored.
type AggregationResult struct {
	Metric Metric
	Mode   CountryMode
	Years  YearRange
	Groups []Group
}

// HasDistribution reports whether the box plot view applies. The "All" view
// has no per-country distribution.
func (r AggregationResult) HasDistribution() bool {
	return r.Mode == ModeSubset
}

// Empty reports whether no group has any row in range.
func (r AggregationResult) Empty() bool {
	for _, g := range r.Groups {
		if len(g.Values) > 0 {
			return false
		}
	}
	return true
}

// Aggregate filters ds by sel and computes, per group, the per-year maximum
// series, the raw value list and the peak row. It is a pure function of its
// arguments.
//
// The EU aggregate is dropped first, then the year window applies. A tie for
// the peak resolves to the earliest row in dataset order. Missing (NaN) cells
// are skipped.
func Aggregate(ds Dataset, sel Selection) (AggregationResult, error) {
	if err := sel.Validate(); err != nil {
		return AggregationResult{}, err
	}

	keys := sel.groupKeys()
	if sel.Mode == ModeSubset {
		for _, k := range keys {
			if !ds.HasCountry(k) {
				return AggregationResult{}, newUnknownCountry(k)
			}
		}
	}

	index := make(map[string]int, len(keys))
	accs := make([]groupAcc, len(keys))
	for i, k := range keys {
		index[k] = i
		accs[i] = groupAcc{yearMax: make(map[int]float64)}
	}

	for row, rec := range ds.records {
		if rec.Excluded() || !sel.Years.Contains(rec.Year) {
			continue
		}

		gi := 0
		if sel.Mode == ModeSubset {
			var ok bool
			if gi, ok = index[rec.Country]; !ok {
				continue
			}
		}

		v := sel.Metric.Value(rec)
		if math.IsNaN(v) {
			continue
		}
		accs[gi].add(row, rec, v)
	}

	res := AggregationResult{
		Metric: sel.Metric,
		Mode:   sel.Mode,
		Years:  sel.Years,
		Groups: make([]Group, len(keys)),
	}
	for i, k := range keys {
		res.Groups[i] = accs[i].group(k)
	}
	return res, nil
}

type groupAcc struct {
	yearMax map[int]float64
	values  []float64
	peak    *Peak
}

func (a *groupAcc) add(row int, rec Record, v float64) {
	a.values = append(a.values, v)

	if cur, ok := a.yearMax[rec.Year]; !ok || v > cur {
		a.yearMax[rec.Year] = v
	}

	// Strict comparison keeps the first maximal row.
	if a.peak == nil || v > a.peak.Value {
		a.peak = &Peak{Country: rec.Country, Year: rec.Year, Value: v, Row: row}
	}
}

func (a *groupAcc) group(key string) Group {
	series := make([]Point, 0, len(a.yearMax))
	for y, v := range a.yearMax {
		series = append(series, Point{Year: y, Value: v})
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })

	return Group{
		Key:    key,
		Series: series,
		Values: a.values,
		Peak:   a.peak,
	}
}
