// Package adminhttp exposes a tiny operational HTTP surface: liveness and
// per-source ingest counters. It is not the reporting/visualization layer
// spec.md excludes — it renders nothing and performs no historical
// analysis, only the numbers a process supervisor or on-call engineer
// needs to know the pipeline is alive and doing something.
package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Ap3pp3rs94/hostfusion/internal/dedup"
	"github.com/Ap3pp3rs94/hostfusion/internal/store"
	"github.com/Ap3pp3rs94/hostfusion/pkg/telemetry"
)

// StatsProvider supplies the last completed pipeline run's per-source
// counters. The pipeline driver's Result satisfies this once wrapped by
// the caller (see cmd/hostfusion).
type StatsProvider func() map[string]any

// Server wraps an http.Server exposing /healthz and /stats.
type Server struct {
	httpServer *http.Server
	logger     *telemetry.Logger
}

// New builds the admin HTTP surface bound to addr. store is probed for
// reachability on /healthz; ledger tail and runStats feed /stats.
func New(addr string, st store.Store, ledger *dedup.Ledger, runStats StatsProvider, logger *telemetry.Logger) *Server {
	if logger == nil {
		logger = telemetry.Nop
	}

	r := mux.NewRouter()
	h := &handlers{store: st, ledger: ledger, runStats: runStats}

	r.HandleFunc("/healthz", h.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/stats", h.handleStats).Methods(http.MethodGet)

	return &Server{
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           requestLoggingMiddleware(logger, r),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// ListenAndServe blocks serving the admin surface until the server is
// shut down or a terminal error occurs.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the admin surface.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

type handlers struct {
	store    store.Store
	ledger   *dedup.Ledger
	runStats StatsProvider
}

func (h *handlers) handleHealthz(w http.ResponseWriter, r *http.Request) {
	stats, err := h.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "unhealthy",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status":      "healthy",
		"total_hosts": stats.TotalHosts,
	})
}

func (h *handlers) handleStats(w http.ResponseWriter, r *http.Request) {
	total, err := h.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{"error": err.Error()})
		return
	}

	body := map[string]any{
		"total_hosts":     total.TotalHosts,
		"decisions_total": h.ledger.Len(),
		"recent_decisions": h.ledger.Recent(20),
	}
	if h.runStats != nil {
		body["last_run"] = h.runStats()
	}
	writeJSON(w, http.StatusOK, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLoggingMiddleware(logger *telemetry.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		logger.Info(r.Context(), "admin_request", map[string]any{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      rec.status,
			"duration_ms": time.Since(start).Milliseconds(),
		})
	})
}
