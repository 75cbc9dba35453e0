package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/env-damage-dashboard/internal/domain"
	"github.com/couchcryptid/env-damage-dashboard/internal/observability"
	"github.com/couchcryptid/env-damage-dashboard/internal/pipeline"
	"github.com/couchcryptid/env-damage-dashboard/internal/render"
	"github.com/couchcryptid/env-damage-dashboard/internal/report"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").
	Funcs(template.FuncMap{"contains": contains}).
	ParseFS(templateFS, "templates/index.html"))

// Dashboard answers the queries behind the page, the API and the charts.
type Dashboard interface {
	sharedobs.ReadinessChecker
	Options() (pipeline.Options, error)
	Report(ctx context.Context, sel domain.Selection) (pipeline.Report, error)
	RecordValidationError(err error)
}

// Server exposes the dashboard page, its JSON API and PNG charts, plus
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dashboard  Dashboard
	metrics    *observability.Metrics
	chartOpts  render.Options
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
// clock times chart rendering.
func NewServer(addr string, dash Dashboard, metrics *observability.Metrics, chartOpts render.Options, clock clockwork.Clock, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dashboard: dash,
		metrics:   metrics,
		chartOpts: chartOpts,
		clock:     clock,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.requireReady(s.handlePage))
	mux.HandleFunc("GET /api/options", s.requireReady(s.handleOptions))
	mux.HandleFunc("GET /api/aggregate", s.requireReady(s.handleAggregate))
	mux.HandleFunc("GET /charts/line.png", s.requireReady(s.handleChart(chartLine, render.LineChart)))
	mux.HandleFunc("GET /charts/box.png", s.requireReady(s.handleChart(chartBox, render.BoxPlot)))

	mux.HandleFunc("GET /healthz", sharedobs.LivenessHandler())
	mux.HandleFunc("GET /readyz", sharedobs.ReadinessHandler(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	s.httpServer.Handler = withRequestID(logger, mux)
	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) requireReady(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := s.dashboard.CheckReadiness(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		next(w, r)
	}
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.dashboard.Options()
	if err != nil {
		s.internalError(w, r, "options failed", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	rep, ok := s.runQuery(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report.NewDocument(rep.Result))
}

const (
	chartLine = "line"
	chartBox  = "box"
)

type renderFunc func(w io.Writer, res domain.AggregationResult, opts render.Options) error

func (s *Server) handleChart(name string, draw renderFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rep, ok := s.runQuery(w, r)
		if !ok {
			return
		}

		start := s.clock.Now()
		var buf bytes.Buffer
		err := draw(&buf, rep.Result, s.chartOpts)
		s.metrics.ChartRenderDuration.WithLabelValues(name).Observe(s.clock.Since(start).Seconds())

		switch {
		case errors.Is(err, render.ErrNoData), errors.Is(err, render.ErrNoDistribution):
			writeJSON(w, http.StatusNotFound, map[string]string{
				"status": "no chart",
				"error":  err.Error(),
			})
			return
		case err != nil:
			s.internalError(w, r, "chart render failed", err, "chart", name)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.WriteHeader(http.StatusOK)
		buf.WriteTo(w) //nolint:errcheck // client may have gone away
	}
}

// runQuery parses the query and aggregates it, writing the error response
// itself when it returns false.
func (s *Server) runQuery(w http.ResponseWriter, r *http.Request) (pipeline.Report, bool) {
	sel, err := parseSelection(r.URL.Query())
	if err == nil {
		var rep pipeline.Report
		rep, err = s.dashboard.Report(r.Context(), sel)
		if err == nil {
			return rep, true
		}
	} else {
		s.dashboard.RecordValidationError(err)
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{
			"status":  "invalid selection",
			"code":    verr.Code,
			"warning": verr.Warning,
		})
	case errors.Is(err, errBadQuery):
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status": "bad request",
			"error":  err.Error(),
		})
	default:
		s.internalError(w, r, "aggregation failed", err)
	}
	return pipeline.Report{}, false
}

func (s *Server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error, args ...any) {
	args = append([]any{"error", err, "request_id", requestIDFrom(r.Context())}, args...)
	s.logger.Error(msg, args...)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"status": "error",
		"error":  "internal server error",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
