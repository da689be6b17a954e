package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/database"
	"github.com/fadilmartias/presentation-evaluator/internal/domain/fiber/handler"
	"github.com/fadilmartias/presentation-evaluator/internal/metrics"
	"github.com/fadilmartias/presentation-evaluator/internal/middleware"
	"github.com/fadilmartias/presentation-evaluator/internal/report"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/fadilmartias/presentation-evaluator/internal/service"
	"github.com/fadilmartias/presentation-evaluator/internal/usecase"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		clog.FromContext(ctx).Errorf("server stopped: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	envErr := godotenv.Load()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	logger := clog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.App.SlogLevel()}))
	ctx = clog.WithLogger(ctx, logger)
	log := clog.FromContext(ctx)
	if envErr != nil {
		log.Debugf("no .env file loaded: %v", envErr)
	}

	db, err := database.Connect(ctx, cfg.DB, cfg.App.IsProduction())
	if err != nil {
		return err
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}
	if err := database.Migrate(db); err != nil {
		return err
	}

	rubricRepo := repository.NewRubricRepository(db)
	defaults, err := cfg.Rubric.Defaults()
	if err != nil {
		return err
	}
	if err := rubricRepo.Seed(ctx, defaults); err != nil {
		return err
	}

	judge, err := service.NewJudge(ctx, cfg.LLM)
	if err != nil {
		return err
	}
	if cfg.LLM.APIKey() == "" {
		log.Warnf("no API key for llm provider %s, evaluations will use fallback scores", cfg.LLM.Provider)
	}
	evaluator := service.NewEvaluator(judge, service.EvaluatorConfigFrom(cfg.LLM))

	registry := metrics.NewRegistry()
	m := metrics.New(registry)

	evaluationUC := usecase.NewEvaluationUsecase(
		repository.NewEvaluationRepository(db),
		rubricRepo,
		evaluator,
		report.Renderer{},
		m,
		usecase.EvaluationUsecaseConfig{
			UploadDir:   cfg.Storage.UploadDir,
			OCRFallback: cfg.Storage.OCRFallback,
			Provider:    cfg.LLM.Provider,
		},
	)
	rubricUC := usecase.NewRubricUsecase(rubricRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.App.BodyLimit(),
		ErrorHandler: util.FiberErrorHandler,
	})
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(middleware.RequestLogger(ctx, m))
	app.Use(recover.New(recover.Config{
		EnableStackTrace: !cfg.App.IsProduction(),
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	app.Use(helmet.New(helmet.Config{
		CrossOriginResourcePolicy: "cross-origin",
		ContentSecurityPolicy:     "default-src 'self'; script-src 'self' 'unsafe-inline'; style-src 'self' 'unsafe-inline'",
	}))
	app.Use(healthcheck.New())
	app.Use(middleware.RateLimiter(cfg.App.RateLimit, 1*time.Minute))
	if !cfg.App.IsProduction() {
		app.Use(pprof.New())
	}

	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler(registry)))
	handler.DashboardHandler{}.RegisterRoutes(app)
	handler.NewEvaluateHandler(evaluationUC, cfg.App.EvaluateRateLimit).RegisterRoutes(app)
	handler.NewRubricHandler(rubricUC).RegisterRoutes(app)

	errCh := make(chan error, 1)
	go func() {
		log.Infof("server running on %s", cfg.App.ListenAddr())
		errCh <- app.Listen(cfg.App.ListenAddr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return nil
}
