package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samijoehayek/opus-oakadmin/pkg/health"
	"github.com/samijoehayek/opus-oakadmin/pkg/middleware"
)

// ServiceName labels metrics and spans emitted by the router.
const ServiceName = "oakadmin"

// RouterConfig carries the HTTP-level settings of the admin API.
type RouterConfig struct {
	AdminRoles     []string
	RateLimitRPS   float64
	RateLimitBurst int
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// NewRouter creates a chi router with all admin routes registered. ctx bounds
// the lifetime of background work owned by the middleware.
func NewRouter(
	ctx context.Context,
	sessions *SessionHandler,
	products *ProductHandler,
	healthHandler *health.Handler,
	metrics *middleware.HTTPMetrics,
	validate middleware.TokenValidator,
	cfg RouterConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	if cfg.RequestTimeout > 0 {
		r.Use(chimw.Timeout(cfg.RequestTimeout))
	}
	r.Use(middleware.RequestLogging(logger))
	r.Use(metrics.Middleware)
	r.Use(middleware.Tracing(ServiceName))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(middleware.Auth(validate, logger))
		r.Use(middleware.RequireRole(cfg.AdminRoles...))
		r.Use(middleware.RateLimit(ctx, cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
		r.Use(middleware.NoStore)

		products.Routes(r)
		r.Route("/sessions", sessions.Routes)
	})

	return r
}
