package csvsource

import (
	"fmt"
	"math"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

// Issue is a data-quality finding that does not prevent loading.
type Issue struct {
	Row     int    `json:"row" yaml:"row"`
	Country string `json:"country" yaml:"country"`
	Year    int    `json:"year" yaml:"year"`
	Message string `json:"message" yaml:"message"`
}

func (i Issue) String() string {
	return fmt.Sprintf("row %d (%s, %d): %s", i.Row, i.Country, i.Year, i.Message)
}

// Validate checks a loaded dataset for rows the dashboard cannot show
// faithfully: years off the survey calendar, repeated (country, year) pairs,
// and rows with every metric missing. Row is the zero-based data row.
func Validate(ds domain.Dataset) []Issue {
	var issues []Issue
	type key struct {
		country string
		year    int
	}
	first := make(map[key]int)

	for i := 0; i < ds.Len(); i++ {
		r := ds.At(i)
		add := func(format string, args ...any) {
			issues = append(issues, Issue{Row: i, Country: r.Country, Year: r.Year, Message: fmt.Sprintf(format, args...)})
		}

		if !domain.IsValidYear(r.Year) {
			add("year %d is not a survey year %v", r.Year, domain.ValidYears)
		}

		k := key{r.Country, r.Year}
		if prev, ok := first[k]; ok {
			add("duplicate of row %d", prev)
		} else {
			first[k] = i
		}

		if math.IsNaN(r.WaterPollution) && math.IsNaN(r.SoilContamination) && math.IsNaN(r.Deforestation) {
			add("all metrics missing")
		}
	}
	return issues
}
