package http

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"github.com/couchcryptid/env-damage-dashboard/internal/pipeline"
)

// pageData drives templates/index.html. Warning replaces every output when set.
type pageData struct {
	Options pipeline.Options

	// Widget state.
	Metric    string
	Countries []string
	MinYear   int
	MaxYear   int

	Warning   string
	Subheader string
	Summaries []domain.Summary
	LineURL   string
	BoxURL    string
	Width     int
	Height    int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.Options()
	if err != nil {
		s.internalError(w, r, "options failed", err)
		return
	}

	q := r.URL.Query()
	data := pageData{Options: opts, Width: s.chartOpts.Width, Height: s.chartOpts.Height}
	fillWidgets(&data, q)
	status := http.StatusOK

	sel, err := parseSelection(q)
	if err != nil {
		s.dashboard.RecordValidationError(err)
	} else {
		var rep pipeline.Report
		if rep, err = s.dashboard.Report(r.Context(), sel); err == nil {
			data.Subheader = rep.Subheader
			data.Summaries = rep.Summaries
			if !rep.Result.Empty() {
				charts := selectionQuery(sel).Encode()
				data.LineURL = "/charts/line.png?" + charts
				if rep.Result.HasDistribution() {
					data.BoxURL = "/charts/box.png?" + charts
				}
			}
		}
	}

	switch {
	case err == nil:
	case domain.Warning(err) != "":
		data.Warning = domain.Warning(err)
	case errors.Is(err, errBadQuery):
		data.Warning = err.Error()
		status = http.StatusBadRequest
	default:
		s.internalError(w, r, "aggregation failed", err)
		return
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.internalError(w, r, "page render failed", err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w) //nolint:errcheck // client may have gone away
}

// fillWidgets restores the submitted widget values, or the defaults on
// first load.
func fillWidgets(data *pageData, q url.Values) {
	d := data.Options.Defaults
	data.Metric = d.Metric
	data.Countries = d.Countries
	data.MinYear = d.MinYear
	data.MaxYear = d.MaxYear

	if q.Has(paramMetric) {
		if m, err := domain.ParseMetric(q.Get(paramMetric)); err == nil {
			data.Metric = string(m)
		}
	}
	if raw, ok := q[paramCountry]; ok {
		data.Countries = raw
	}
	if y, err := strconv.Atoi(q.Get(paramMinYear)); err == nil {
		data.MinYear = y
	}
	if y, err := strconv.Atoi(q.Get(paramMaxYear)); err == nil {
		data.MaxYear = y
	}
}

func contains(list []string, s string) bool {
	return slices.Contains(list, s)
}
