package handler

import (
	"net/http"

	"github.com/rentpulse/rentpulse-assistant-go/internal/engine"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/observability"
	"github.com/rentpulse/rentpulse-assistant-go/internal/infra/ratelimit"
	"github.com/rentpulse/rentpulse-assistant-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// jwtSecret empty means the API runs unauthenticated (local dev); set,
// every /v1 route requires a Bearer token.
func NewRouter(
	eng *engine.Engine,
	sessions *service.SessionManager,
	limiter *ratelimit.PerClient,
	jwtSecret string,
	maxQueryLen int,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Public chat contract (frontend compatibility) ---
	r.Group(func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter, logger))
		r.Post("/chat", chatHandler(eng, sessions, maxQueryLen, metrics, logger))
	})
	r.Get("/examples", examplesHandler())
	r.Get("/cities", citiesHandler(eng))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter, logger))
		if jwtSecret != "" {
			r.Use(JWTAuthMiddleware(jwtSecret, logger))
		}

		r.Post("/chat", chatHandler(eng, sessions, maxQueryLen, metrics, logger))
		r.Get("/intent", intentHandler(eng))
		r.Get("/entities", entitiesHandler(eng))
		r.Get("/metrics/engine", engineMetricsHandler(metrics))
	})

	return r
}
