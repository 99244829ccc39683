package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/garnizeh/reelwork/api"
	dbfs "github.com/garnizeh/reelwork/db"
	"github.com/garnizeh/reelwork/internal/config"
	"github.com/garnizeh/reelwork/internal/metrics"
	"github.com/garnizeh/reelwork/internal/seed"
	"github.com/garnizeh/reelwork/internal/session"
	"github.com/garnizeh/reelwork/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	var configPath = flag.String("config", "", "Path to config YAML file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		log.Fatalf("Invalid log level: %v", err)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	api.SetLogger(logger)

	logger.Info("starting reelwork", "version", version, "build_time", buildTime, "env", cfg.Env)

	ctx := context.Background()

	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", "err", err)
		os.Exit(1)
	}

	if cfg.Seed {
		if _, err := seed.Apply(ctx, backend.Store, dbfs.SeedFiles, logger); err != nil {
			logger.Error("failed to seed storage", "err", err)
			os.Exit(1)
		}
	}

	sessions := session.NewManager(backend.Sessions, session.Options{
		Secret:     cfg.Session.Secret,
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     !cfg.IsDevelopment(),
	})
	janitor := session.NewJanitor(backend.Sessions, cfg.Session.CleanupInterval, logger)
	janitor.Start(ctx)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New("reelwork", reg)

	handler := api.SetupRoutes(cfg, version, buildTime, backend.Store, sessions, m)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("server listening", "addr", cfg.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Give outstanding requests 30 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "err", err)
	}

	janitor.Stop()
	if err := backend.Close(); err != nil {
		logger.Error("error closing storage", "err", err)
	}

	logger.Info("server exited")
}
