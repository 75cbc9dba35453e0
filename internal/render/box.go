package render

import (
	"fmt"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
)

// pngDPI is the resolution vgimg uses for PNG output.
const pngDPI = 96

// BoxPlot draws one box per country over its raw values. Country names sit on
// a nominal axis, rotated so long names stay readable. A country with no
// values keeps its label but gets no box.
func BoxPlot(w io.Writer, res domain.AggregationResult, opts Options) error {
	if !res.HasDistribution() {
		return ErrNoDistribution
	}
	if res.Empty() {
		return ErrNoData
	}
	opts = opts.orDefault()

	p := plot.New()
	p.Title.Text = domain.BoxPlotTitle(res.Metric)
	p.Y.Label.Text = res.Metric.Label()
	p.Y.Tick.Marker = thousandsTicker{}
	p.Y.Min = 0

	names := make([]string, len(res.Groups))
	for i, g := range res.Groups {
		names[i] = g.Key
		if len(g.Values) == 0 {
			continue
		}
		box, err := plotter.NewBoxPlot(vg.Points(30), float64(i), plotter.Values(g.Values))
		if err != nil {
			return fmt.Errorf("box for %s: %w", g.Key, err)
		}
		box.FillColor = plotutil.Color(i)
		p.Add(box)
	}
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter
	p.Add(plotter.NewGrid())

	wt, err := p.WriterTo(pixels(opts.Width), pixels(opts.Height), "png")
	if err != nil {
		return fmt.Errorf("render box plot: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("write box plot: %w", err)
	}
	return nil
}

func pixels(n int) vg.Length {
	return vg.Length(n) * vg.Inch / pngDPI
}

// thousandsTicker labels the default ticks with thousands separators.
type thousandsTicker struct{}

func (thousandsTicker) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label != "" {
			ticks[i].Label = domain.FormatNumber(ticks[i].Value)
		}
	}
	return ticks
}
