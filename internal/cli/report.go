package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/env-damage-dashboard/internal/adapter/csvsource"
	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"github.com/couchcryptid/env-damage-dashboard/internal/render"
	"github.com/couchcryptid/env-damage-dashboard/internal/report"
)

// ReportOptions holds the flags of the report command.
type ReportOptions struct {
	Metric    string
	Countries []string
	MinYear   int
	MaxYear   int
	Format    string
	LineChart string
	BoxPlot   string
	Width     int
	Height    int
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the peak-year summary for a selection",
		Long: `Aggregate the dataset for one selection and print the summary shown
under the dashboard charts. Optionally write the line chart and box plot
as PNG files.

--country may be repeated; "All" aggregates across every country and
cannot be combined with individual countries.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runReport(cmd, rootOpts, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Metric, "metric", string(domain.DefaultMetric), "water_pollution|soil_contamination|deforestation, or its label")
	f.StringArrayVar(&opts.Countries, "country", []string{domain.AllCountries}, "country to include (repeatable)")
	f.IntVar(&opts.MinYear, "min-year", domain.DefaultYears.Min, "first year, inclusive")
	f.IntVar(&opts.MaxYear, "max-year", domain.DefaultYears.Max, "last year, inclusive")
	f.StringVar(&opts.Format, "format", string(report.FormatText), "output format (text|json|yaml)")
	f.StringVar(&opts.LineChart, "line-chart", "", "write the line chart PNG to this path")
	f.StringVar(&opts.BoxPlot, "box-plot", "", "write the box plot PNG to this path")
	f.IntVar(&opts.Width, "width", render.DefaultOptions().Width, "chart width in pixels")
	f.IntVar(&opts.Height, "height", render.DefaultOptions().Height, "chart height in pixels")

	return cmd
}

func runReport(cmd *cobra.Command, rootOpts *RootOptions, opts *ReportOptions) error {
	format, err := report.ParseFormat(opts.Format)
	if err != nil {
		return err
	}

	logger := rootOpts.logger(cmd.ErrOrStderr())
	ds, err := csvsource.NewSource(rootOpts.DataPath, logger).Load(cmd.Context())
	if err != nil {
		return err
	}

	metric, err := domain.ParseMetric(opts.Metric)
	if err != nil {
		metric = domain.Metric(opts.Metric)
	}

	res, err := aggregate(ds, metric, opts)
	if err != nil {
		if w := domain.Warning(err); w != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), w)
		}
		return err
	}

	if err := report.Write(cmd.OutOrStdout(), format, res); err != nil {
		return err
	}

	chartOpts := render.Options{Width: opts.Width, Height: opts.Height}
	if opts.LineChart != "" {
		if err := writeChart(cmd.ErrOrStderr(), opts.LineChart, "line chart", render.LineChart, res, chartOpts); err != nil {
			return err
		}
	}
	if opts.BoxPlot != "" {
		if err := writeChart(cmd.ErrOrStderr(), opts.BoxPlot, "box plot", render.BoxPlot, res, chartOpts); err != nil {
			return err
		}
	}
	return nil
}

func aggregate(ds domain.Dataset, metric domain.Metric, opts *ReportOptions) (domain.AggregationResult, error) {
	sel, err := domain.NewSelection(metric, opts.Countries, opts.MinYear, opts.MaxYear)
	if err != nil {
		return domain.AggregationResult{}, err
	}
	return domain.Aggregate(ds, sel)
}

type drawFunc func(w io.Writer, res domain.AggregationResult, opts render.Options) error

// writeChart renders to path. A chart with nothing to draw is skipped with a
// note on stderr and no file is written.
func writeChart(stderr io.Writer, path, name string, draw drawFunc, res domain.AggregationResult, opts render.Options) error {
	var buf bytes.Buffer
	if err := draw(&buf, res, opts); err != nil {
		if errors.Is(err, render.ErrNoData) || errors.Is(err, render.ErrNoDistribution) {
			fmt.Fprintf(stderr, "%s skipped: %v\n", name, err)
			return nil
		}
		return fmt.Errorf("render %s: %w", name, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil { //nolint:gosec // charts are not secret
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
