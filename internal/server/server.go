// Package server exposes county dataset resolution over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kjet-platform/countydata/internal/cohort"
	"github.com/kjet-platform/countydata/internal/fetch"
	"github.com/kjet-platform/countydata/internal/pipeline"
	"github.com/kjet-platform/countydata/internal/variants"
)

// CohortHeader carries an explicit cohort that overrides the query parameter.
const CohortHeader = "X-Cohort"

// ResolvedURLHeader reports which candidate served the payload.
const ResolvedURLHeader = "X-Resolved-URL"

// Datasets resolves raw dataset payloads. *pipeline.Locator implements it.
type Datasets interface {
	RawEntity(ctx context.Context, entityName, pathTemplate string, c cohort.Cohort) (fetch.Result[json.RawMessage], error)
	RawPath(ctx context.Context, path string, c cohort.Cohort) (fetch.Result[json.RawMessage], error)
}

// Server exposes health, metrics, and dataset endpoints.
type Server struct {
	httpServer *http.Server
	data       Datasets
	logger     *slog.Logger
}

// NewServer creates the HTTP server. gatherer backs /metrics; nil uses the
// default registry.
func NewServer(addr string, data Datasets, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		data:   data,
		logger: logger,
	}

	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /api/v1/counties/{name}/evaluation", s.handleEvaluation)
	mux.HandleFunc("GET /api/v1/national-summary", s.handlePath(pipeline.NationalSummaryPath))
	mux.HandleFunc("GET /api/v1/inventory", s.handlePath(pipeline.FileInventoryPath))
	mux.HandleFunc("GET /api/v1/variants/{name}", s.handleVariants)

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

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func requestCohort(r *http.Request) cohort.Cohort {
	return cohort.Resolve(r.Header.Get(CohortHeader), r.URL.Query().Get(cohort.QueryParam))
}

func (s *Server) handleEvaluation(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c := requestCohort(r)

	res, err := s.data.RawEntity(r.Context(), name, pipeline.EvaluationResultsTemplate, c)
	if err != nil {
		s.writeError(w, err, "county", name, "cohort", c.String())
		return
	}
	writeRaw(w, c, res)
}

func (s *Server) handlePath(path string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := requestCohort(r)
		res, err := s.data.RawPath(r.Context(), path, c)
		if err != nil {
			s.writeError(w, err, "path", path, "cohort", c.String())
			return
		}
		writeRaw(w, c, res)
	}
}

type variantsResponse struct {
	Input     string   `json:"input"`
	Canonical string   `json:"canonical"`
	Variants  []string `json:"variants"`
}

func (s *Server) handleVariants(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	writeJSON(w, http.StatusOK, variantsResponse{
		Input:     name,
		Canonical: variants.Canonical(name),
		Variants:  variants.Generate(name),
	})
}

type errorResponse struct {
	Error    string   `json:"error"`
	Attempts []string `json:"attempts,omitempty"`
}

func (s *Server) writeError(w http.ResponseWriter, err error, attrs ...any) {
	var exhausted *fetch.ExhaustionError
	switch {
	case errors.As(err, &exhausted):
		s.logger.Warn("dataset not resolved", append(attrs, "error", err)...)
		attempts := make([]string, 0, len(exhausted.Attempts))
		for _, a := range exhausted.Attempts {
			attempts = append(attempts, a.Error())
		}
		writeJSON(w, http.StatusNotFound, errorResponse{Error: exhausted.Error(), Attempts: attempts})
	case errors.Is(err, context.DeadlineExceeded):
		writeJSON(w, http.StatusGatewayTimeout, errorResponse{Error: err.Error()})
	case errors.Is(err, context.Canceled):
		// client went away; never leave an implicit 200
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("dataset lookup failed", append(attrs, "error", err)...)
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	}
}

func writeRaw(w http.ResponseWriter, c cohort.Cohort, res fetch.Result[json.RawMessage]) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(ResolvedURLHeader, res.URL)
	w.Header().Set(CohortHeader, c.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Value)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
