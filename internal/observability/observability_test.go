package observability

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "info", "json")

	logger.Debug("hidden")
	logger.Info("dataset loaded", "rows", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "dataset loaded", entry["msg"])
	assert.EqualValues(t, 3, entry["rows"])
}

func TestNewLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "debug", "text")
	logger.Debug("http request", "path", "/")
	assert.Contains(t, buf.String(), "msg=\"http request\"")
	assert.Contains(t, buf.String(), "path=/")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}

func TestNewMetricsForTesting(t *testing.T) {
	m := NewMetricsForTesting()
	m.Aggregations.WithLabelValues("water_pollution", "all").Inc()
	m.ValidationErrors.WithLabelValues("no_country").Add(2)
	m.DatasetRecords.Set(120)

	assert.InDelta(t, 1.0, testutil.ToFloat64(m.Aggregations.WithLabelValues("water_pollution", "all")), 0)
	assert.InDelta(t, 2.0, testutil.ToFloat64(m.ValidationErrors.WithLabelValues("no_country")), 0)
	assert.InDelta(t, 120.0, testutil.ToFloat64(m.DatasetRecords), 0)
}
