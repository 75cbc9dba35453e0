package domain

import "strings"

// CountryMode says whether a Selection aggregates across every country or
// looks at an explicit subset.
type CountryMode string

const (
	ModeAll    CountryMode = "all"
	ModeSubset CountryMode = "subset"
)

// YearRange is an inclusive [Min, Max] year window.
type YearRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// Contains reports whether year lies inside the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// DefaultYears spans every valid year.
var DefaultYears = YearRange{Min: MinValidYear, Max: MaxValidYear}

// Selection is the active query rebuilt from the widgets on every interaction.
type Selection struct {
	Metric    Metric
	Mode      CountryMode
	Countries []string
	Years     YearRange

	// mixed records that the raw choices held "All" next to specific
	// countries; Validate reports it.
	mixed bool
}

// NewSelection maps the raw widget values onto a Selection. choices is the
// multi-select list, which may contain the literal "All". Blank entries are
// ignored and duplicates collapse, keeping first-seen order.
//
// Only the country checks run here; call Validate (or Aggregate) for the rest.
func NewSelection(metric Metric, choices []string, minYear, maxYear int) (Selection, error) {
	sel := Selection{
		Metric: metric,
		Years:  YearRange{Min: minYear, Max: maxYear},
	}

	hasAll := false
	seen := make(map[string]struct{}, len(choices))
	for _, c := range choices {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if c == AllCountries {
			hasAll = true
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		sel.Countries = append(sel.Countries, c)
	}

	switch {
	case hasAll && len(sel.Countries) > 0:
		sel.Mode = ModeSubset
		sel.mixed = true
		return sel, ErrMixedSelection
	case hasAll:
		sel.Mode = ModeAll
	default:
		sel.Mode = ModeSubset
		if len(sel.Countries) == 0 {
			return sel, ErrNoCountry
		}
	}
	return sel, nil
}

// AllSelection is a convenience for the "All" view of metric over years.
func AllSelection(metric Metric, years YearRange) Selection {
	return Selection{Metric: metric, Mode: ModeAll, Years: years}
}

// SubsetSelection selects the given countries.
func SubsetSelection(metric Metric, years YearRange, countries ...string) Selection {
	return Selection{Metric: metric, Mode: ModeSubset, Countries: countries, Years: years}
}

// Validate runs every dataset-independent check, in the order the dashboard
// reports them: country choice, year order, year bounds, metric.
func (s Selection) Validate() error {
	switch s.Mode {
	case ModeAll:
	case ModeSubset:
		if s.mixed || containsAll(s.Countries) {
			return ErrMixedSelection
		}
		if len(s.Countries) == 0 {
			return ErrNoCountry
		}
	default:
		// A zero Selection has no country choice at all.
		return ErrNoCountry
	}
	if s.Years.Min > s.Years.Max {
		return ErrInvalidRange
	}
	if s.Years.Min < MinValidYear || s.Years.Min > MaxValidYear {
		return newYearOutOfRange(s.Years.Min)
	}
	if s.Years.Max < MinValidYear || s.Years.Max > MaxValidYear {
		return newYearOutOfRange(s.Years.Max)
	}
	if !s.Metric.Valid() {
		return newUnknownMetric(string(s.Metric))
	}
	return nil
}

// groupKeys returns the group identities in output order.
func (s Selection) groupKeys() []string {
	if s.Mode == ModeAll {
		return []string{AllCountries}
	}
	keys := make([]string, 0, len(s.Countries))
	seen := make(map[string]struct{}, len(s.Countries))
	for _, c := range s.Countries {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		keys = append(keys, c)
	}
	return keys
}

func containsAll(countries []string) bool {
	for _, c := range countries {
		if c == AllCountries {
			return true
		}
	}
	return false
}
