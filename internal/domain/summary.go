package domain

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatTonnes renders v as a whole number of tonnes with thousands
// separators, e.g. "12,345 tonnes". Halves round to even.
func FormatTonnes(v float64) string {
	return FormatNumber(v) + " tonnes"
}

// FormatNumber renders v rounded to an integer with thousands separators.
func FormatNumber(v float64) string {
	return printer.Sprintf("%.0f", math.RoundToEven(v))
}

// Summary is the peak-record text for one group.
type Summary struct {
	Group   string   `json:"group" yaml:"group"`
	Heading string   `json:"heading" yaml:"heading"`
	Lines   []string `json:"lines" yaml:"lines"`
}

// Summarize builds one Summary per group. The "All" summary names the country
// that reached the peak; a country summary does not, since the heading already
// does.
func Summarize(res AggregationResult) []Summary {
	phrase := res.Metric.Phrase()
	out := make([]Summary, 0, len(res.Groups))

	for _, g := range res.Groups {
		s := Summary{Group: g.Key}
		if res.Mode == ModeAll {
			s.Heading = fmt.Sprintf("Year with the most %s:", phrase)
		} else {
			s.Heading = fmt.Sprintf("Year with the most %s in %s:", phrase, g.Key)
		}

		if g.Peak == nil {
			s.Lines = []string{fmt.Sprintf("No %s data between %d and %d.", phrase, res.Years.Min, res.Years.Max)}
			out = append(out, s)
			continue
		}

		s.Lines = []string{fmt.Sprintf("%d with %s", g.Peak.Year, FormatTonnes(g.Peak.Value))}
		if res.Mode == ModeAll {
			s.Lines = append(s.Lines, fmt.Sprintf("Country with the most %s: %s", phrase, g.Peak.Country))
		}
		out = append(out, s)
	}
	return out
}

// Subheader is the page heading for a metric.
func Subheader(m Metric) string {
	return "Year with the Most " + m.Label()
}

// LineChartTitle, LineChartYLabel and BoxPlotTitle name the chart parts.
func LineChartTitle(m Metric) string {
	return fmt.Sprintf("Maximum %s Over the Years by Country", m.Label())
}

func LineChartYLabel(m Metric) string {
	return "Maximum " + m.Label()
}

func BoxPlotTitle(m Metric) string {
	return m.Label() + " Across Countries"
}

// SeriesLabel is the legend entry for a group.
func SeriesLabel(key string) string {
	if key == AllCountries {
		return "All Countries"
	}
	return key
}
