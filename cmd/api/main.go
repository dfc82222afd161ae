package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Praneeth1326/Inventory-Sales-Tracker/config"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/database"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/handlers"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/images"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/jobs"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/logging"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/middleware"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/services"
	"github.com/Praneeth1326/Inventory-Sales-Tracker/internal/telemetry"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logging.Init(cfg.IsDevelopment(), cfg.LogFile)

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Options{
		ServiceName: cfg.OTelServiceName,
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

	if err := middleware.InitMetrics(); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize metrics")
	}

	db, err := database.Connect(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to initialize database")
	}
	defer database.Close(db)

	if err := database.Migrate(db); err != nil {
		logging.Logger().Fatal().Err(err).Msg("failed to run database migrations")
	}

	if cfg.SeedDemoData {
		if err := database.Seed(ctx, db); err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to seed demo data")
		}
	}

	var notifier services.LowStockNotifier
	var redisAddr string
	if cfg.JobsEnabled() {
		redisAddr = cfg.RedisAddr()
		jobClient, err := jobs.NewClient(redisAddr)
		if err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to create job client")
		}
		defer jobClient.Close()
		notifier = jobClient
	} else {
		logging.Logger().Warn().Msg("REDIS_URL not set, low stock alerts disabled")
	}

	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.JWTExpiresIn)
	productService := services.NewProductService(db)
	saleService := services.NewSaleService(db, notifier)
	watchlistService := services.NewWatchlistService(db)
	metricsService := services.NewMetricsService(db)

	if cfg.AdminPassword != "" {
		if err := authService.EnsureOperator(ctx, cfg.AdminUsername, cfg.AdminPassword); err != nil {
			logging.Logger().Fatal().Err(err).Msg("failed to create bootstrap operator")
		}
	}

	imageStore := images.NewStore(cfg.UploadDir, cfg.MaxUploadBytes)

	e := echo.New()
	e.HideBanner = true

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxUploadBytes+1<<20)))
	e.Use(otelecho.Middleware(cfg.OTelServiceName, otelecho.WithSkipper(func(c echo.Context) bool {
		return c.Path() == "/api/health"
	})))
	e.Use(middleware.Metrics())
	e.HTTPErrorHandler = middleware.ErrorHandler

	if cfg.IsDevelopment() {
		e.Use(echomiddleware.Logger())
	}

	handlers.RegisterRoutes(e, handlers.Handlers{
		Health:   handlers.NewHealthHandler(db, redisAddr),
		Auth:     handlers.NewAuthHandler(authService),
		Products: handlers.NewProductHandler(productService, watchlistService, imageStore),
		Sales:    handlers.NewSaleHandler(saleService),
		Metrics:  handlers.NewMetricsHandler(metricsService),
		Export:   handlers.NewExportHandler(productService, saleService),
	}, cfg.JWTSecret, cfg.UploadDir)

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Port)
		logging.Logger().Info().Str("port", cfg.Port).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logging.Logger().Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Logger().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logging.Logger().Error().Err(err).Msg("failed to shutdown server")
	}
}
