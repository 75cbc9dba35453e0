package domain

import (
	"math"
	"strings"
)

// ExcludedCountry marks the EU aggregate rows. They duplicate member-state
// figures and are dropped before any filtering.
const ExcludedCountry = "European Union"

// AllCountries is the synthetic group key (and multi-select choice) that
// aggregates every country.
const AllCountries = "All"

// ValidYears are the years present in the source survey.
var ValidYears = []int{2010, 2012, 2014, 2016, 2018, 2020}

// MinValidYear and MaxValidYear bound the year sliders.
const (
	MinValidYear = 2010
	MaxValidYear = 2020
)

// Record is one row of the environmental damage table. Metric values are in
// tonnes; a missing cell is NaN.
type Record struct {
	Country           string  `json:"country"`
	Year              int     `json:"year"`
	WaterPollution    float64 `json:"water_pollution"`
	SoilContamination float64 `json:"soil_contamination"`
	Deforestation     float64 `json:"deforestation"`
}

// Excluded reports whether the record belongs to an aggregate region that
// never takes part in the dashboard.
func (r Record) Excluded() bool {
	return IsExcludedCountry(r.Country)
}

// IsExcludedCountry reports whether country names the EU aggregate. Source
// files label it with suffixes such as "European Union - 27 countries", so the
// match is on substring.
func IsExcludedCountry(country string) bool {
	return strings.Contains(country, ExcludedCountry)
}

// IsValidYear reports whether year is one of ValidYears.
func IsValidYear(year int) bool {
	for _, y := range ValidYears {
		if y == year {
			return true
		}
	}
	return false
}

// Metric identifies one of the three measured quantities.
type Metric string

const (
	MetricWaterPollution    Metric = "water_pollution"
	MetricSoilContamination Metric = "soil_contamination"
	MetricDeforestation     Metric = "deforestation"
)

// Metrics lists the metrics in selector order.
var Metrics = []Metric{MetricWaterPollution, MetricSoilContamination, MetricDeforestation}

// DefaultMetric is preselected in the metric selector.
const DefaultMetric = MetricWaterPollution

var metricLabels = map[Metric]string{
	MetricWaterPollution:    "Water Pollution",
	MetricSoilContamination: "Soil Contamination",
	MetricDeforestation:     "Deforestation",
}

// ParseMetric accepts either the column name ("soil_contamination") or the
// display label ("Soil Contamination"), case-insensitively.
func ParseMetric(s string) (Metric, error) {
	s = strings.TrimSpace(s)
	for _, m := range Metrics {
		if strings.EqualFold(s, string(m)) || strings.EqualFold(s, metricLabels[m]) {
			return m, nil
		}
	}
	return "", newUnknownMetric(s)
}

// Valid reports whether m is one of Metrics.
func (m Metric) Valid() bool {
	_, ok := metricLabels[m]
	return ok
}

// Label returns the display name, e.g. "Water Pollution".
func (m Metric) Label() string {
	if l, ok := metricLabels[m]; ok {
		return l
	}
	return string(m)
}

// Phrase returns the label in lower case for use inside sentences.
func (m Metric) Phrase() string {
	return strings.ToLower(m.Label())
}

// Value extracts the metric from r. An unknown metric yields NaN.
func (m Metric) Value(r Record) float64 {
	switch m {
	case MetricWaterPollution:
		return r.WaterPollution
	case MetricSoilContamination:
		return r.SoilContamination
	case MetricDeforestation:
		return r.Deforestation
	default:
		return math.NaN()
	}
}
