package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"github.com/couchcryptid/env-damage-dashboard/internal/observability"
	"github.com/couchcryptid/env-damage-dashboard/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockSource struct {
	ds    domain.Dataset
	err   error
	calls int
}

func (m *mockSource) Load(_ context.Context) (domain.Dataset, error) {
	m.calls++
	if m.err != nil {
		return domain.Dataset{}, m.err
	}
	return m.ds, nil
}

func newTestMetrics() *observability.Metrics {
	return observability.NewMetricsForTesting()
}

var loadTime = time.Date(2024, time.March, 4, 9, 30, 0, 0, time.UTC)

func testRecords() []domain.Record {
	return []domain.Record{
		{Country: "European Union - 27 countries (from 2020)", Year: 2010, WaterPollution: 9999, SoilContamination: 9999, Deforestation: 9999},
		{Country: "Austria", Year: 2010, WaterPollution: 1200, SoilContamination: 40, Deforestation: 7},
		{Country: "Austria", Year: 2012, WaterPollution: 1500, SoilContamination: 55, Deforestation: math.NaN()},
		{Country: "Belgium", Year: 2010, WaterPollution: 1500, SoilContamination: 35, Deforestation: 3},
		{Country: "Belgium", Year: 2012, WaterPollution: 900, SoilContamination: 60, Deforestation: 4},
	}
}

func newLoadedDashboard(t *testing.T) (*pipeline.Dashboard, *observability.Metrics) {
	t.Helper()
	metrics := newTestMetrics()
	src := &mockSource{ds: domain.NewDataset(testRecords())}
	d := pipeline.New(src, slog.Default(), metrics, clockwork.NewFakeClockAt(loadTime))
	require.NoError(t, d.Load(context.Background()))
	return d, metrics
}

// --- tests ---

func TestDashboard_NotReadyBeforeLoad(t *testing.T) {
	d := pipeline.New(&mockSource{}, slog.Default(), newTestMetrics(), clockwork.NewFakeClock())

	require.ErrorIs(t, d.CheckReadiness(context.Background()), pipeline.ErrNotReady)

	_, err := d.Options()
	require.ErrorIs(t, err, pipeline.ErrNotReady)

	_, err = d.Report(context.Background(), domain.AllSelection(domain.DefaultMetric, domain.DefaultYears))
	require.ErrorIs(t, err, pipeline.ErrNotReady)
}

func TestDashboard_Load(t *testing.T) {
	d, metrics := newLoadedDashboard(t)

	require.NoError(t, d.CheckReadiness(context.Background()))
	assert.InDelta(t, 5.0, testutil.ToFloat64(metrics.DatasetRecords), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(metrics.DatasetCountries), 0)

	ds, err := d.Dataset()
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
}

func TestDashboard_LoadError(t *testing.T) {
	src := &mockSource{err: errors.New("disk on fire")}
	d := pipeline.New(src, slog.Default(), newTestMetrics(), clockwork.NewFakeClock())

	err := d.Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load dataset")
	assert.Contains(t, err.Error(), "disk on fire")
	assert.ErrorIs(t, d.CheckReadiness(context.Background()), pipeline.ErrNotReady)
}

func TestDashboard_Options(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	opts, err := d.Options()
	require.NoError(t, err)

	want := pipeline.Options{
		Metrics: []pipeline.MetricOption{
			{Value: "water_pollution", Label: "Water Pollution"},
			{Value: "soil_contamination", Label: "Soil Contamination"},
			{Value: "deforestation", Label: "Deforestation"},
		},
		Countries: []string{"All", "Austria", "Belgium"},
		Years:     []int{2010, 2012, 2014, 2016, 2018, 2020},
		Defaults: pipeline.Defaults{
			Metric:    "water_pollution",
			Countries: []string{"All"},
			MinYear:   2010,
			MaxYear:   2020,
		},
		LoadedAt: loadTime,
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestDashboard_Report_All(t *testing.T) {
	d, metrics := newLoadedDashboard(t)

	rep, err := d.Report(context.Background(), domain.AllSelection(domain.MetricWaterPollution, domain.DefaultYears))
	require.NoError(t, err)

	assert.Equal(t, "Year with the Most Water Pollution", rep.Subheader)
	require.Len(t, rep.Result.Groups, 1)
	// Austria 2012 (row 2) and Belgium 2010 (row 3) tie at 1500; the earlier row wins.
	peak := rep.Result.Groups[0].Peak
	require.NotNil(t, peak)
	assert.Equal(t, "Austria", peak.Country)
	assert.Equal(t, 2012, peak.Year)

	require.Len(t, rep.Summaries, 1)
	assert.Equal(t, []string{
		"2012 with 1,500 tonnes",
		"Country with the most water pollution: Austria",
	}, rep.Summaries[0].Lines)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Aggregations.WithLabelValues("water_pollution", "all")), 0)
}

func TestDashboard_Report_Subset(t *testing.T) {
	d, metrics := newLoadedDashboard(t)

	sel := domain.SubsetSelection(domain.MetricSoilContamination, domain.YearRange{Min: 2010, Max: 2012}, "Belgium", "Austria")
	rep, err := d.Report(context.Background(), sel)
	require.NoError(t, err)

	require.Len(t, rep.Result.Groups, 2)
	assert.Equal(t, "Belgium", rep.Result.Groups[0].Key)
	assert.Equal(t, "Austria", rep.Result.Groups[1].Key)
	assert.True(t, rep.Result.HasDistribution())
	assert.Equal(t, "Year with the most soil contamination in Belgium:", rep.Summaries[0].Heading)
	assert.Equal(t, []string{"2012 with 60 tonnes"}, rep.Summaries[0].Lines)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.Aggregations.WithLabelValues("soil_contamination", "subset")), 0)
}

func TestDashboard_Report_ValidationErrorsCounted(t *testing.T) {
	d, metrics := newLoadedDashboard(t)
	ctx := context.Background()

	_, err := d.Report(ctx, domain.AllSelection(domain.MetricWaterPollution, domain.YearRange{Min: 2016, Max: 2012}))
	require.ErrorIs(t, err, domain.ErrInvalidRange)

	_, err = d.Report(ctx, domain.SubsetSelection(domain.MetricWaterPollution, domain.DefaultYears, "Atlantis"))
	require.ErrorIs(t, err, domain.ErrUnknownCountry)

	_, err = d.Report(ctx, domain.SubsetSelection(domain.MetricWaterPollution, domain.DefaultYears))
	require.ErrorIs(t, err, domain.ErrNoCountry)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ValidationErrors.WithLabelValues(domain.CodeInvalidRange)), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ValidationErrors.WithLabelValues(domain.CodeUnknownCountry)), 0)
	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ValidationErrors.WithLabelValues(domain.CodeNoCountry)), 0)
	assert.InDelta(t, 0.0, testutil.ToFloat64(metrics.Aggregations.WithLabelValues("water_pollution", "all")), 0)
}

func TestDashboard_Report_CancelledContext(t *testing.T) {
	d, _ := newLoadedDashboard(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Report(ctx, domain.AllSelection(domain.DefaultMetric, domain.DefaultYears))
	require.ErrorIs(t, err, context.Canceled)
}

func TestDashboard_RecordValidationError_IgnoresOtherErrors(t *testing.T) {
	d, metrics := newLoadedDashboard(t)

	d.RecordValidationError(errors.New("boom"))
	d.RecordValidationError(domain.ErrMixedSelection)

	assert.InDelta(t, 1.0, testutil.ToFloat64(metrics.ValidationErrors.WithLabelValues(domain.CodeMixedSelection)), 0)
}
