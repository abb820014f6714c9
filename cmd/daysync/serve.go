package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freema/daysync/api"
	"github.com/freema/daysync/internal/cache"
	"github.com/freema/daysync/internal/calendar"
	"github.com/freema/daysync/internal/config"
	"github.com/freema/daysync/internal/logger"
	"github.com/freema/daysync/internal/metrics"
	"github.com/freema/daysync/internal/redisclient"
	"github.com/freema/daysync/internal/server"
	"github.com/freema/daysync/internal/tracing"
	"github.com/freema/daysync/internal/upstream"
	"github.com/freema/daysync/internal/viewer"
)

type serveOptions struct {
	configPath string
	testMode   bool
}

func serve(ctx context.Context, opts serveOptions) error {
	// Load config
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if opts.testMode {
		cfg.Upstream.TestMode = true
	}

	// Setup logger
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting daysync", "version", version, "test_mode", cfg.Upstream.TestMode)

	shutdownTracing, err := tracing.Setup(ctx, tracing.Config{
		Enabled:      cfg.Tracing.Enabled,
		Endpoint:     cfg.Tracing.Endpoint,
		SamplingRate: cfg.Tracing.SamplingRate,
		ServiceName:  "daysync",
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("setting up tracing: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(ctx); err != nil {
			slog.Error("tracing shutdown error", "error", err)
		}
	}()

	// Response cache: Redis when configured, otherwise in-process
	var (
		rdb       *redisclient.Client
		respCache cache.Cache
	)
	if cfg.Redis.URL != "" {
		rdb, err = redisclient.New(cfg.Redis.URL, cfg.Redis.Prefix)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = rdb.Ping(pingCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("redis ping failed: %w", err)
		}
		slog.Info("redis connected", "addr", rdb.Addr())
		respCache = cache.NewRedis(rdb, cfg.Cache.TTL)
	} else {
		respCache = cache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL)
		slog.Info("using in-process cache", "size", cfg.Cache.Size, "ttl", cfg.Cache.TTL)
	}

	store, err := calendar.Open(ctx, cfg.Storage.Path)
	if err != nil {
		return fmt.Errorf("opening calendar store: %w", err)
	}
	defer store.Close()
	if cal, err := store.Latest(ctx); err == nil {
		metrics.CalendarRaces.Set(float64(len(cal.Races)))
		slog.Info("calendar loaded", "year", cal.Year, "races", len(cal.Races))
	} else {
		slog.Warn("no calendar available, run daysync import", "error", err)
	}

	provider, err := newProvider(cfg)
	if err != nil {
		return err
	}

	// The viewer is only bootstrapped once the document it points at is
	// known to be valid.
	if _, err := api.Load(ctx); err != nil {
		return err
	}
	docs, err := viewer.NewBootstrapper(cfg.Docs.Viewer(), viewer.Render(cfg.Docs.Title)).Load()
	if err != nil {
		metrics.ViewerBootstraps.WithLabelValues("failed").Inc()
		return fmt.Errorf("initializing docs viewer: %w", err)
	}
	metrics.ViewerBootstraps.WithLabelValues("success").Inc()

	srv := server.New(cfg, server.Deps{
		Redis:    rdb,
		Cache:    respCache,
		Calendar: store,
		Storage:  store,
		Provider: provider,
		Spec:     api.OpenAPISpec,
		Viewer:   docs,
		Version:  version,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig.String())
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	// Graceful shutdown
	slog.Info("shutting down...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

func newProvider(cfg *config.Config) (upstream.Provider, error) {
	if cfg.Upstream.TestMode {
		fixtures, err := upstream.NewFixtures()
		if err != nil {
			return nil, fmt.Errorf("loading fixtures: %w", err)
		}
		slog.Info("test mode: answering from fixtures")
		return fixtures, nil
	}

	return upstream.NewClient(upstream.Keys{
		Weather:   cfg.Upstream.WeatherAPIKey,
		APINinjas: cfg.Upstream.APINinjasKey,
		GNews:     cfg.Upstream.GNewsAPIKey,
	}, upstream.DefaultEndpoints, cfg.Upstream.Timeout), nil
}
