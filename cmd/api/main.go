package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/genre-sales-api/internal/api/http"
	"github.com/spec-kit/genre-sales-api/internal/api/http/handlers"
	"github.com/spec-kit/genre-sales-api/internal/auth"
	"github.com/spec-kit/genre-sales-api/internal/config"
	"github.com/spec-kit/genre-sales-api/internal/events"
	"github.com/spec-kit/genre-sales-api/internal/observability"
	"github.com/spec-kit/genre-sales-api/internal/persistence"
	"github.com/spec-kit/genre-sales-api/internal/repository"
	"github.com/spec-kit/genre-sales-api/internal/service"
	"github.com/spec-kit/genre-sales-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	employeeRepo := repository.NewEmployeeRepository(pool)
	salesRepo := repository.NewSalesRepository(pool)

	tokens, err := auth.NewTokenManager([]byte(cfg.Auth.JWTSecret), cfg.Auth.JWTAlgorithm, cfg.Auth.AccessTokenTTL())
	if err != nil {
		logger.Fatal("failed to init token manager", zap.Error(err))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger))

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		EmployeeRepo: employeeRepo,
		Tokens:       tokens,
		Dispatcher:   dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})

	analyticsDeps := service.AnalyticsDependencies{
		SalesRepo: salesRepo,
		CacheTTL:  cfg.Cache.AnalyticsTTL(),
		Metrics:   metrics,
		Logger:    logger,
	}
	dependencies := map[string]handlers.Pinger{"postgres": pg}
	if redis != nil {
		analyticsDeps.Cache = redis
		dependencies["redis"] = redis
	}
	analyticsService := service.NewAnalyticsService(analyticsDeps)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), employeeRepo, metrics, logger)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:         logger,
		Metrics:        metrics,
		Timeout:        cfg.App.RequestTimeout(),
		AllowedOrigins: cfg.App.AllowedOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, dependencies),
		Auth:           handlers.NewAuthHandler(authService),
		Genres:         handlers.NewGenreHandler(analyticsService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
