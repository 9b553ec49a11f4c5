package api

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/eldtechnologies/journeyboard/internal/api/middleware"
	"github.com/eldtechnologies/journeyboard/internal/handlers"
)

// RouterConfig holds the router's tunables.
type RouterConfig struct {
	RateLimitWhitelist []string
	AutoBlock          bool
}

// NewRouter creates and configures the HTTP router. redisClient may be nil,
// which disables rate limiting.
func NewRouter(logger zerolog.Logger, h *handlers.Handler, redisClient *redis.Client, cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Metrics middleware (first to capture all requests)
	r.Use(middleware.Metrics)

	// Security middleware (order matters!)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.MaxBodySize(8 * 1024)) // 8KB max body
	r.Use(middleware.ValidateRequest)

	// Standard middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(logger))
	r.Use(chimw.Recoverer)

	// Rate limiting
	limiter := middleware.NewRateLimiter(redisClient, logger, middleware.RateLimiterConfig{
		Whitelist:        cfg.RateLimitWhitelist,
		AutoBlockEnabled: cfg.AutoBlock,
	})
	r.Use(limiter.Middleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Metrics endpoint (for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	r.Get("/", h.Dashboard)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", h.Root)
		r.Get("/journey", h.Journey)
		r.Get("/timeline", h.Timeline)
		r.Get("/chat", h.Chat)
		r.Get("/biomarkers", h.BiomarkerOptions)
		r.Get("/biomarkers/{key}", h.Biomarker)
		r.Get("/messages/{id}/drilldown", h.DrillDown)
		r.Get("/messages/{id}/trace", h.Trace)
		r.Get("/agents", h.Agents)
		r.Get("/search", h.Search)
		r.Get("/analytics", h.Analytics)
		r.Get("/members", h.Members)
		r.Post("/generate", h.Generate)
	})

	return r
}
