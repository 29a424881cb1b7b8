package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"council/internal/platform/metrics"
	"council/internal/platform/middleware"
	"council/pkg/platform/httputil"
)

// HealthCheck probes one dependency. A non-nil error marks the service
// unhealthy.
type HealthCheck func(ctx context.Context) error

// RouterConfig carries the router's cross-cutting dependencies.
type RouterConfig struct {
	Logger  *slog.Logger
	Metrics *metrics.Metrics
	// Checks run on /healthz, keyed by dependency name.
	Checks map[string]HealthCheck
}

// NewRouter assembles the middleware chain and mounts all endpoints.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Actor)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Latency(cfg.Metrics))

	r.Get("/healthz", healthHandler(cfg.Checks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	h.Register(r)
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		body := map[string]any{"status": "ok"}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		if len(deps) > 0 {
			body["dependencies"] = deps
		}
		httputil.WriteJSON(w, status, body)
	}
}
