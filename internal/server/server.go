package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/freema/daysync/internal/cache"
	"github.com/freema/daysync/internal/config"
	"github.com/freema/daysync/internal/redisclient"
	"github.com/freema/daysync/internal/server/handlers"
	"github.com/freema/daysync/internal/server/middleware"
	"github.com/freema/daysync/internal/upstream"
	"github.com/freema/daysync/internal/viewer"
)

// Deps are the services the HTTP layer is built on. Redis is nil when the
// in-process cache is used.
type Deps struct {
	Redis    *redisclient.Client
	Cache    cache.Cache
	Calendar handlers.CalendarSource
	Storage  handlers.Pinger
	Provider upstream.Provider
	Spec     []byte
	Viewer   *viewer.Viewer
	Version  string
}

// Server is the HTTP server.
type Server struct {
	httpServer *http.Server
	health     *handlers.HealthHandler
}

// New creates and configures the HTTP server with all routes and middleware.
func New(cfg *config.Config, deps Deps) *Server {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(middleware.CORS(cfg.Server.CORSOrigin))
	r.Use(middleware.PrometheusMetrics)

	// A typed nil *redisclient.Client must not reach the health check as a
	// non-nil Pinger.
	var redisPinger handlers.Pinger
	if deps.Redis != nil {
		redisPinger = deps.Redis
	}

	healthHandler := handlers.NewHealthHandler(redisPinger, deps.Storage, deps.Version)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	docsHandler := handlers.NewDocsHandler(deps.Spec, deps.Viewer)
	r.Get("/docs", docsHandler.Redirect)
	r.Get("/docs/", docsHandler.Index)
	r.Get("/docs/"+viewer.ScriptPath, docsHandler.Initializer)
	r.Get("/docs/openapi.yaml", docsHandler.OpenAPISpec)
	r.Get("/docs/viewer.json", docsHandler.ViewerConfig)

	motogpHandler := handlers.NewMotoGPHandler(deps.Calendar, deps.Cache)
	feedHandler := handlers.NewFeedHandler(deps.Provider, deps.Cache)
	cacheHandler := handlers.NewCacheHandler(deps.Cache)

	if cfg.RateLimit.Enabled && deps.Redis == nil {
		slog.Warn("rate limiting is enabled but needs redis; requests will not be limited",
			"requests_per_minute", cfg.RateLimit.RequestsPerMinute)
	}

	r.Route("/api", func(r chi.Router) {
		if cfg.RateLimit.Enabled && deps.Redis != nil {
			limiter := middleware.NewRateLimiter(deps.Redis, cfg.RateLimit.RequestsPerMinute, time.Minute)
			r.Use(limiter.Middleware())
		}

		r.Get("/motogp", motogpHandler.Season)
		r.Get("/motogpnextrace", motogpHandler.NextRace)
		r.Get("/weather", feedHandler.Weather)
		r.Get("/crypto", feedHandler.Crypto)
		r.Get("/news", feedHandler.News)
		r.Get("/stock", feedHandler.Stock)

		if cfg.Server.AdminToken != "" {
			r.With(middleware.BearerAuth(cfg.Server.AdminToken)).Delete("/cache", cacheHandler.Clear)
		}
	})

	var handler http.Handler = r
	if cfg.Tracing.Enabled {
		handler = otelhttp.NewHandler(r, "daysync",
			otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		health:     healthHandler,
	}
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start begins listening for HTTP requests.
func (s *Server) Start() error {
	slog.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	return s.httpServer.Shutdown(ctx)
}
