package render

import (
	"fmt"
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

var gridStyle = chart.Style{
	StrokeColor: drawing.ColorFromHex("dddddd"),
	StrokeWidth: 1.0,
}

// lineStyle draws the connecting line and a dot on every year.
func lineStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeColor: col,
		StrokeWidth: 2,
		DotColor:    col,
		DotWidth:    4,
	}
}

// LineChart draws one line per group: x is the year, y the maximum metric
// value of that year. Groups without points are left out of the legend.
func LineChart(w io.Writer, res domain.AggregationResult, opts Options) error {
	opts = opts.orDefault()

	series := make([]chart.Series, 0, len(res.Groups))
	yMax := 0.0
	for i, g := range res.Groups {
		if len(g.Series) == 0 {
			continue
		}
		xs := make([]float64, len(g.Series))
		ys := make([]float64, len(g.Series))
		for j, p := range g.Series {
			xs[j] = float64(p.Year)
			ys[j] = p.Value
			if p.Value > yMax {
				yMax = p.Value
			}
		}
		series = append(series, chart.ContinuousSeries{
			Name:    domain.SeriesLabel(g.Key),
			XValues: xs,
			YValues: ys,
			Style:   lineStyle(chart.GetDefaultColor(i)),
		})
	}
	if len(series) == 0 {
		return ErrNoData
	}

	if yMax <= 0 {
		yMax = 1
	}
	// go-chart takes the x-range from the tick extent when ticks are set, so
	// unlabeled ticks pin it half a year beyond each bound. A window holding a
	// single survey year would otherwise have zero width.
	xMin, xMax := float64(res.Years.Min)-0.5, float64(res.Years.Max)+0.5
	xTicks := make([]chart.Tick, 0, len(domain.ValidYears)+2)
	xTicks = append(xTicks, chart.Tick{Value: xMin})
	for _, y := range yearTicks(res.Years) {
		xTicks = append(xTicks, chart.Tick{Value: float64(y), Label: strconv.Itoa(y)})
	}
	xTicks = append(xTicks, chart.Tick{Value: xMax})

	ch := chart.Chart{
		Title:      domain.LineChartTitle(res.Metric),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:           "Year",
			Ticks:          xTicks,
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			GridMajorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           domain.LineChartYLabel(res.Metric),
			Range:          &chart.ContinuousRange{Min: 0, Max: yMax * 1.1},
			ValueFormatter: formatTonnesTick,
			GridMajorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render line chart: %w", err)
	}
	return nil
}

func formatTonnesTick(v interface{}) string {
	if f, ok := v.(float64); ok {
		return domain.FormatNumber(f)
	}
	return fmt.Sprint(v)
}
