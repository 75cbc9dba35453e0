// Package report writes an aggregation result as plain text, JSON or YAML.
// The text form mirrors the dashboard page; the structured forms share one
// Document type, which the HTTP API also serves.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"gopkg.in/yaml.v3"
)

// Format selects the output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Formats lists the supported formats.
var Formats = []Format{FormatText, FormatJSON, FormatYAML}

// ErrUnknownFormat is returned for any format outside Formats.
var ErrUnknownFormat = errors.New("unknown report format")

// ParseFormat matches s case-insensitively against the supported formats.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w %q", ErrUnknownFormat, s)
}

// Document is the structured form of one aggregation.
type Document struct {
	Metric      string           `json:"metric" yaml:"metric"`
	MetricLabel string           `json:"metric_label" yaml:"metric_label"`
	Subheader   string           `json:"subheader" yaml:"subheader"`
	Mode        string           `json:"mode" yaml:"mode"`
	Years       domain.YearRange `json:"years" yaml:"years"`
	Groups      []GroupDocument  `json:"groups" yaml:"groups"`
}

// GroupDocument is one group of a Document. Distribution is only set when
// the result has a box plot view.
type GroupDocument struct {
	Key          string           `json:"key" yaml:"key"`
	Label        string           `json:"label" yaml:"label"`
	Series       []domain.Point   `json:"series" yaml:"series"`
	Values       []float64        `json:"values" yaml:"values"`
	Distribution *domain.BoxStats `json:"distribution,omitempty" yaml:"distribution,omitempty"`
	Peak         *domain.Peak     `json:"peak" yaml:"peak"`
	Summary      domain.Summary   `json:"summary" yaml:"summary"`
}

// NewDocument builds the Document for res.
func NewDocument(res domain.AggregationResult) Document {
	summaries := domain.Summarize(res)
	doc := Document{
		Metric:      string(res.Metric),
		MetricLabel: res.Metric.Label(),
		Subheader:   domain.Subheader(res.Metric),
		Mode:        string(res.Mode),
		Years:       res.Years,
		Groups:      make([]GroupDocument, len(res.Groups)),
	}
	for i, g := range res.Groups {
		gd := GroupDocument{
			Key:     g.Key,
			Label:   domain.SeriesLabel(g.Key),
			Series:  nonNil(g.Series),
			Values:  nonNil(g.Values),
			Peak:    g.Peak,
			Summary: summaries[i],
		}
		if res.HasDistribution() {
			dist := g.Distribution()
			gd.Distribution = &dist
		}
		doc.Groups[i] = gd
	}
	return doc
}

// Write renders res to w in the given format.
func Write(w io.Writer, format Format, res domain.AggregationResult) error {
	switch format {
	case FormatText:
		return writeText(w, res)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(NewDocument(res)); err != nil {
			return fmt.Errorf("encode json report: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(NewDocument(res)); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

func writeText(w io.Writer, res domain.AggregationResult) error {
	var b strings.Builder

	b.WriteString(domain.Subheader(res.Metric))
	b.WriteString("\n")
	fmt.Fprintf(&b, "Metric: %s | Countries: %s | Years: %d-%d\n",
		res.Metric.Label(), countriesLine(res), res.Years.Min, res.Years.Max)

	for _, s := range domain.Summarize(res) {
		b.WriteString("\n")
		b.WriteString(s.Heading)
		b.WriteString("\n")
		for _, line := range s.Lines {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("write text report: %w", err)
	}
	return nil
}

func countriesLine(res domain.AggregationResult) string {
	if res.Mode == domain.ModeAll {
		return domain.AllCountries
	}
	keys := make([]string, len(res.Groups))
	for i, g := range res.Groups {
		keys[i] = g.Key
	}
	return strings.Join(keys, ", ")
}

// nonNil keeps empty groups encoding as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
