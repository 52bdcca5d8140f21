package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/otelfiber"
	"github.com/gofiber/fiber/v2"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"questionnaire/docs"
	"questionnaire/internal/config"
	"questionnaire/internal/database"
	"questionnaire/internal/database/migration"
	handlers "questionnaire/internal/http/handler"
	"questionnaire/internal/http/middleware"
	"questionnaire/internal/logger"
	"questionnaire/internal/metrics"
	"questionnaire/internal/otel"
	"questionnaire/internal/parser"
	"questionnaire/internal/repository/postgres"
	"questionnaire/internal/service"
	"questionnaire/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// @title Questionnaire API
// @version 1.0
// @description Parses survey questionnaires (pdf, docx, txt, csv, xls, xlsx) into sections and questions.
// @BasePath /
func main() {
	// Load configuration from environment variables (.env auto-loaded if present)
	cfg := config.Load()
	log := logger.FromConfig(cfg.Log)
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := otel.Init(ctx, log)
	if err != nil {
		log.Fatal("failed to initialize tracing", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
		log.Fatal("failed to migrate database", zap.Error(err))
	}

	// Reusable S3-compatible object storage client (MinIO-supported)
	objStore, err := storage.NewMinIO(ctx, cfg.MinIO)
	if err != nil {
		log.Fatal("failed to initialize object storage", zap.Error(err))
	}

	rules := parser.DefaultRules()
	if cfg.Parser.RulesFile != "" {
		rules, err = parser.LoadRules(cfg.Parser.RulesFile)
		if err != nil {
			log.Fatal("failed to load parser rules", zap.String("path", cfg.Parser.RulesFile), zap.Error(err))
		}
	}
	p, err := parser.New(rules, parser.WithLogger(log.With(zap.String("component", "parser"))))
	if err != nil {
		log.Fatal("failed to build parser", zap.Error(err))
	}

	parseMetrics, err := metrics.NewParseMetrics(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register parse metrics", zap.Error(err))
	}
	promMiddleware, err := middleware.NewPrometheusMiddleware(prometheus.DefaultRegisterer)
	if err != nil {
		log.Fatal("failed to register http metrics", zap.Error(err))
	}

	repo := postgres.NewQuestionnairePostgres(db)
	svc := service.NewQuestionnaireService(objStore, repo, p, service.Options{
		MaxFileSize: cfg.Parser.MaxFileSize,
		Timeout:     cfg.Parser.Timeout(),
		TempDir:     cfg.Parser.TempDir,
		Logger:      log,
		Metrics:     parseMetrics,
	})

	fiberCfg := fiber.Config{
		ErrorHandler: handlers.ErrorHandler(),
	}
	if cfg.Parser.MaxFileSize > 0 {
		// room for the multipart envelope around the file
		fiberCfg.BodyLimit = int(cfg.Parser.MaxFileSize) + 1<<20
	}
	app := fiber.New(fiberCfg)

	// RequestID first so every later middleware and handler can read it
	app.Use(middleware.RequestID())
	app.Use(otelfiber.Middleware())
	app.Use(middleware.Logger(log))
	app.Use(promMiddleware.Handler())

	// replaced per request by the swagger handler; used by the OpenAPI document before the first hit
	docs.SwaggerInfo.Host = cfg.AppHost
	handlers.RegisterRoutes(app, db, svc, prometheus.DefaultGatherer)

	addr := ":" + cfg.Port
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := app.Listen(addr); err != nil {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracing shutdown failed", zap.Error(err))
	}
}
