// Package http exposes the service's operational endpoints: health,
// readiness, metrics, and on-demand sync triggers.
package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hikoapp/doc-sync/internal/sync"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Syncer runs sync jobs on demand.
type Syncer interface {
	SyncAssets(ctx context.Context, opts sync.AssetOptions) (sync.AssetSummary, error)
	SyncAlerts(ctx context.Context) (sync.AlertSummary, error)
}

// Server exposes health, readiness, metrics, and sync-trigger HTTP endpoints.
type Server struct {
	httpServer *http.Server
	syncer     Syncer
	logger     *slog.Logger
}

// NewServer creates the admin HTTP server.
func NewServer(addr string, ready ReadinessChecker, syncer Syncer, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:        addr,
			Handler:     mux,
			ReadTimeout: 10 * time.Second,
			IdleTimeout: 60 * time.Second,
		},
		syncer: syncer,
		logger: logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /sync/assets", s.handleSyncAssets)
	mux.HandleFunc("POST /sync/alerts", s.handleSyncAlerts)

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

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleSyncAssets runs an asset sync. An optional trackLimit query parameter
// caps the track set, matching the demo-seed invocation.
func (s *Server) handleSyncAssets(w http.ResponseWriter, r *http.Request) {
	var opts sync.AssetOptions
	if v := r.URL.Query().Get("trackLimit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid trackLimit"})
			return
		}
		opts.TrackLimit = limit
	}

	summary, err := s.syncer.SyncAssets(r.Context(), opts)
	if err != nil {
		s.logger.Error("on-demand asset sync failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleSyncAlerts(w http.ResponseWriter, r *http.Request) {
	summary, err := s.syncer.SyncAlerts(r.Context())
	if err != nil {
		s.logger.Error("on-demand alert sync failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort admin response
}
