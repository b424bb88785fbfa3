package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bountyai/internal/api"
	"bountyai/internal/assigner"
	"bountyai/internal/config"
	"bountyai/internal/events"
	"bountyai/internal/store"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel(cfg.Logging.Level)}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	db, err := store.NewPostgresStore(ctx, cfg.Database.URL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("connected to database")

	// Event bus (optional)
	var eventsClient events.Client
	if cfg.NATS.URL != "" {
		ec, err := events.NewNATSClient(ctx, cfg.NATS.URL, logger)
		if err != nil {
			logger.Warn("failed to connect to event bus, running without events", "error", err)
		} else {
			eventsClient = ec
			defer ec.Close()
			logger.Info("connected to event bus")
		}
	}

	// Assigner
	a := assigner.New(db, eventsClient, cfg, logger)
	a.Start(ctx)
	defer a.Stop()
	logger.Info("assigner started", "stats_interval", cfg.StatsInterval())

	// Accept bounty requests over the bus
	a.SetupSubscriptions()

	// API server
	router := api.NewRouter(db, eventsClient, a, cfg.Server.AdminToken, logger)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Metrics server
	metricsRouter := api.NewMetricsRouter()
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.MetricsPort),
		Handler: metricsRouter,
	}

	go func() {
		logger.Info("API server starting", "port", cfg.Server.Port)
		if err := apiServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("API server error", "error", err)
		}
	}()

	go func() {
		logger.Info("metrics server starting", "port", cfg.Server.MetricsPort)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	logger.Info("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("shutdown complete")
}

func logLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
