package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/config"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/jobs"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.IsDevelopment(), cfg.LogFile)

	if !cfg.JobsEnabled() {
		logging.Logger().Fatal().Msg("REDIS_URL is required to run the worker")
	}

	serviceName := cfg.OTelServiceName + "-worker"
	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Endpoint:    cfg.OTelEndpoint,
		SampleRatio: cfg.OTelSampleRatio,
	})
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			logging.Logger().Error().Err(err).Msg("failed to shutdown telemetry")
		}
	}()

	server := jobs.NewServer(cfg.RedisAddr(), 10)

	go func() {
		if err := server.Start(); err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to start worker")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger().Info().Msg("shutting down worker")
	server.Shutdown()
}
