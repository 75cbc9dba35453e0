package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"github.com/couchcryptid/env-damage-dashboard/internal/observability"
	"github.com/jonboulle/clockwork"
)

// ErrNotReady is returned by every query before the dataset has been loaded.
var ErrNotReady = errors.New("dataset has not been loaded yet")

// DatasetSource loads the full dataset once at startup.
type DatasetSource interface {
	Load(ctx context.Context) (domain.Dataset, error)
}

type snapshot struct {
	dataset  domain.Dataset
	loadedAt time.Time
}

// Dashboard serves aggregation queries over a dataset loaded once at startup.
// After Load it is read-only and safe for concurrent use.
type Dashboard struct {
	source  DatasetSource
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	current atomic.Pointer[snapshot]
}

// New creates a Dashboard with the given source and observability.
func New(source DatasetSource, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Dashboard {
	return &Dashboard{
		source:  source,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Load reads the dataset from the source. A failure leaves the dashboard unready.
func (d *Dashboard) Load(ctx context.Context) error {
	ds, err := d.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load dataset: %w", err)
	}

	snap := &snapshot{dataset: ds, loadedAt: d.clock.Now()}
	d.current.Store(snap)

	d.metrics.DatasetRecords.Set(float64(ds.Len()))
	d.metrics.DatasetCountries.Set(float64(len(ds.Countries())))
	d.logger.Info("dashboard ready",
		"records", ds.Len(),
		"countries", len(ds.Countries()),
		"loaded_at", snap.loadedAt,
	)
	return nil
}

// CheckReadiness returns nil once the dataset is loaded, or an error
// describing why the service is not yet ready.
func (d *Dashboard) CheckReadiness(_ context.Context) error {
	if d.current.Load() == nil {
		return ErrNotReady
	}
	return nil
}

// Dataset returns the loaded dataset.
func (d *Dashboard) Dataset() (domain.Dataset, error) {
	snap := d.current.Load()
	if snap == nil {
		return domain.Dataset{}, ErrNotReady
	}
	return snap.dataset, nil
}

// MetricOption is one entry of the metric dropdown.
type MetricOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Defaults is the widget state on first page load.
type Defaults struct {
	Metric    string   `json:"metric"`
	Countries []string `json:"countries"`
	MinYear   int      `json:"min_year"`
	MaxYear   int      `json:"max_year"`
}

// Options lists every value the selection widgets can take.
type Options struct {
	Metrics   []MetricOption `json:"metrics"`
	Countries []string       `json:"countries"`
	Years     []int          `json:"years"`
	Defaults  Defaults       `json:"defaults"`
	LoadedAt  time.Time      `json:"loaded_at"`
}

// Options returns the widget choices. Countries starts with "All".
func (d *Dashboard) Options() (Options, error) {
	snap := d.current.Load()
	if snap == nil {
		return Options{}, ErrNotReady
	}

	metrics := make([]MetricOption, len(domain.Metrics))
	for i, m := range domain.Metrics {
		metrics[i] = MetricOption{Value: string(m), Label: m.Label()}
	}

	countries := append([]string{domain.AllCountries}, snap.dataset.Countries()...)

	return Options{
		Metrics:   metrics,
		Countries: countries,
		Years:     append([]int(nil), domain.ValidYears...),
		Defaults: Defaults{
			Metric:    string(domain.DefaultMetric),
			Countries: []string{domain.AllCountries},
			MinYear:   domain.DefaultYears.Min,
			MaxYear:   domain.DefaultYears.Max,
		},
		LoadedAt: snap.loadedAt,
	}, nil
}

// Report is one aggregation plus the text shown under the charts.
type Report struct {
	Subheader string
	Result    domain.AggregationResult
	Summaries []domain.Summary
}

// Report aggregates the loaded dataset for sel. Validation failures come back
// as *domain.ValidationError and are counted by code.
func (d *Dashboard) Report(ctx context.Context, sel domain.Selection) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	ds, err := d.Dataset()
	if err != nil {
		return Report{}, err
	}

	start := d.clock.Now()
	res, err := domain.Aggregate(ds, sel)
	if err != nil {
		d.RecordValidationError(err)
		return Report{}, err
	}
	d.metrics.AggregationDuration.Observe(d.clock.Since(start).Seconds())
	d.metrics.Aggregations.WithLabelValues(string(res.Metric), string(res.Mode)).Inc()

	d.logger.Debug("aggregation complete",
		"metric", res.Metric,
		"mode", res.Mode,
		"groups", len(res.Groups),
		"min_year", res.Years.Min,
		"max_year", res.Years.Max,
	)

	return Report{
		Subheader: domain.Subheader(res.Metric),
		Result:    res,
		Summaries: domain.Summarize(res),
	}, nil
}

// RecordValidationError counts err by its validation code. Other errors are ignored.
func (d *Dashboard) RecordValidationError(err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		d.metrics.ValidationErrors.WithLabelValues(verr.Code).Inc()
	}
}
