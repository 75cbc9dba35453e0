package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

// Query parameter names shared by the page, the API and the chart routes.
const (
	paramMetric  = "metric"
	paramCountry = "country"
	paramMinYear = "min_year"
	paramMaxYear = "max_year"
)

var errBadQuery = errors.New("bad query")

// parseSelection maps query parameters onto a Selection. Absent parameters
// take the dashboard defaults; a country parameter that is present but
// blank counts as no country chosen.
func parseSelection(q url.Values) (domain.Selection, error) {
	metric := domain.DefaultMetric
	if q.Has(paramMetric) {
		raw := q.Get(paramMetric)
		m, err := domain.ParseMetric(raw)
		if err != nil {
			// Left invalid so Validate reports it in order.
			m = domain.Metric(raw)
		}
		metric = m
	}

	countries, ok := q[paramCountry]
	if !ok {
		countries = []string{domain.AllCountries}
	}

	minYear, err := yearParam(q, paramMinYear, domain.DefaultYears.Min)
	if err != nil {
		return domain.Selection{}, err
	}
	maxYear, err := yearParam(q, paramMaxYear, domain.DefaultYears.Max)
	if err != nil {
		return domain.Selection{}, err
	}

	return domain.NewSelection(metric, countries, minYear, maxYear)
}

func yearParam(q url.Values, key string, def int) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", errBadQuery, key, raw)
	}
	return year, nil
}

// selectionQuery encodes sel back into query parameters.
func selectionQuery(sel domain.Selection) url.Values {
	q := url.Values{}
	q.Set(paramMetric, string(sel.Metric))
	if sel.Mode == domain.ModeAll {
		q.Add(paramCountry, domain.AllCountries)
	} else {
		for _, c := range sel.Countries {
			q.Add(paramCountry, c)
		}
	}
	q.Set(paramMinYear, strconv.Itoa(sel.Years.Min))
	q.Set(paramMaxYear, strconv.Itoa(sel.Years.Max))
	return q
}
