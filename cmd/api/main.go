package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/swagger"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clientportal/docs"
	"clientportal/internal/config"
	"clientportal/internal/database"
	"clientportal/internal/database/migration"
	"clientportal/internal/database/seed"
	handlers "clientportal/internal/http/handler"
	"clientportal/internal/http/middleware"
	"clientportal/internal/logging"
	"clientportal/internal/otel"
	"clientportal/internal/repository/postgres"
	"clientportal/internal/service"
	"clientportal/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Client Portal API
// @version 1.0
// @description Client records with CV and photo uploads and CSV export.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	logger := logging.New(cfg.Logging)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, logger *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, logger)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			logger.Warn("tracing_shutdown_failed", slog.String("error", err.Error()))
		}
	}()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	dsn, err := database.BuildPostgresDSN(cfg.Database)
	if err != nil {
		return err
	}
	if err := migration.Up(dsn, logger); err != nil {
		return err
	}

	store, err := storage.New(ctx, cfg, logger)
	if err != nil {
		return err
	}

	clientRepo := postgres.NewClientPostgres(db)
	if cfg.SeedDemoData {
		if _, err := seed.Demo(ctx, clientRepo, time.Now(), logger); err != nil {
			return err
		}
	}

	clientSvc := service.NewClientService(store, clientRepo, service.Config{
		MaxFileSize: cfg.Storage.MaxFileSizeBytes(),
		Logger:      logger,
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewPrometheusMiddleware(reg)
	if err != nil {
		return err
	}

	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(),
		BodyLimit:             cfg.BodyLimitBytes(),
		DisableStartupMessage: true,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Recover(logger))
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(logger))
	app.Use(metrics.Handler())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Join(cfg.AllowedOrigins(), ","),
		AllowHeaders:     "Origin, Content-Type, Accept, " + middleware.RequestIDHeader,
		ExposeHeaders:    "Content-Disposition, Location, " + middleware.RequestIDHeader,
		AllowCredentials: true,
	}))

	handlers.RegisterRoutes(app, db, clientSvc)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	// Swagger UI with dynamic host and scheme
	app.Get("/swagger/*", func(c *fiber.Ctx) error {
		scheme := c.Protocol()
		if proto := c.Get("X-Forwarded-Proto"); proto != "" {
			scheme = strings.Split(proto, ",")[0]
		}

		docs.SwaggerInfo.Host = c.Get("Host")
		docs.SwaggerInfo.Schemes = []string{scheme}

		return swagger.HandlerDefault(c)
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server_start",
			slog.String("addr", ":"+cfg.Port),
			slog.String("storage_driver", cfg.Storage.Driver),
		)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("server_shutdown")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
