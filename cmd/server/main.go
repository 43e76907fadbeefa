// server is the timeline synchronization and progress analytics service for
// live-event production workspaces.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver

	"showrunner/internal/api"
	"showrunner/internal/config"
	"showrunner/internal/coordination"
	"showrunner/internal/logging"
	"showrunner/internal/milestones"
	"showrunner/internal/notify"
	"showrunner/internal/ratelimit"
	"showrunner/internal/storage"
)

func main() {
	addr := flag.String("addr", "", "listen address, overrides the configured host:port")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.NewLoggerWithFormat(logging.ParseLogLevel(cfg.Logging.Level), cfg.Logging.Format)
	logging.SetDefaultLogger(logger)

	if err := run(cfg, *addr, logger); err != nil {
		logger.Fatal("server exited", "error", err.Error())
	}
}

func run(cfg *config.Config, addrOverride string, logger logging.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	store, err := storage.Open(ctx, &cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("error closing store", "error", err.Error())
		}
	}()
	logger.Info("storage ready", "provider", cfg.Storage.Provider)

	hub := notify.NewHub()
	go hub.Run(ctx)
	sink := notify.MultiSink{notify.NewLogSink(logger), hub}

	generator := milestones.NewGeneratorWithConfig(milestones.GeneratorConfig{
		MarketingLeadDays: cfg.Timeline.MarketingLeadDays,
		VenueLeadDays:     cfg.Timeline.VenueLeadDays,
		FinalPrepLeadDays: cfg.Timeline.FinalPrepLeadDays,
		CleanupLagDays:    cfg.Timeline.CleanupLagDays,
	})
	service := coordination.NewService(store, coordination.AllowAllOracle{}, generator, sink, logger)

	limiter := buildLimiter(cfg, logger)
	router := api.NewRouter(cfg, service, hub, limiter, logger)

	addr := addrOverride
	if addr == "" {
		addr = fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	}
	server := &http.Server{
		Addr:         addr,
		Handler:      router.Handler(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return server.Shutdown(shutdownCtx)
}

// buildLimiter returns the configured rate limiter, falling back to the
// in-memory window when Redis cannot be reached
func buildLimiter(cfg *config.Config, logger logging.Logger) ratelimit.Limiter {
	if !cfg.RateLimit.Enabled {
		return nil
	}
	limiter, err := ratelimit.NewRedisLimiter(&cfg.RateLimit)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory rate limiting", "error", err.Error())
		return ratelimit.NewSlidingWindow(cfg.RateLimit.RequestsPerMinute)
	}
	return limiter
}
