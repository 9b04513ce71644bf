package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/ubox-pos/cloud-dashboard/internal/api/http"
	"github.com/ubox-pos/cloud-dashboard/internal/api/http/handlers"
	"github.com/ubox-pos/cloud-dashboard/internal/auth"
	"github.com/ubox-pos/cloud-dashboard/internal/catalog"
	"github.com/ubox-pos/cloud-dashboard/internal/config"
	"github.com/ubox-pos/cloud-dashboard/internal/events"
	"github.com/ubox-pos/cloud-dashboard/internal/observability"
	"github.com/ubox-pos/cloud-dashboard/internal/persistence"
	"github.com/ubox-pos/cloud-dashboard/internal/posapi"
	"github.com/ubox-pos/cloud-dashboard/internal/repository"
	"github.com/ubox-pos/cloud-dashboard/internal/service"
	"github.com/ubox-pos/cloud-dashboard/internal/session"
	"github.com/ubox-pos/cloud-dashboard/internal/worker"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var attempts repository.PinAttemptRepository
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		attempts = repository.NewPinAttemptRepository(pg.PoolHandle())
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var store session.Store = session.NewMemoryStore()
	if redis.Enabled() {
		store = session.NewRedisStore(redis.Client, cfg.Redis.KeyPrefix)
	}
	sessions := session.NewManager(store, cfg.Auth.SessionTTL(), logger)
	tokens := auth.NewTokenManager(cfg.Auth.SessionSecret, cfg.Auth.SessionTTL())
	dispatcher := events.NewInMemoryDispatcher(logger)

	plans, err := catalog.Default()
	if err != nil {
		logger.Fatal("failed to load plan catalog", zap.Error(err))
	}

	pos := posapi.NewClient(cfg.PosAPI, logger)

	auditService := service.NewAuditService(dispatcher, attempts, logger)
	worker.StartAuditWorker(auditService)

	limiter := service.NewAttemptLimiter(redis.Client, cfg.Redis.KeyPrefix, cfg.Panel.MaxAttempts, cfg.Panel.LockoutWindow())
	directory := service.NewDirectoryService(pos, logger)
	roleRouter := service.NewRoleRouter(directory, sessions, limiter, dispatcher, cfg.Auth.PinHashCost, logger)
	authService := service.NewAuthService(pos, sessions, tokens, dispatcher, logger)
	viewsService := service.NewViewsService(pos, plans, cfg.App.Location(), logger)

	sessionMiddleware := auth.NewSessionMiddleware(tokens, sessions, cfg.Auth.CookieName)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth: handlers.NewAuthHandler(authService, sessionMiddleware, handlers.CookieConfig{
			Name:   cfg.Auth.CookieName,
			Secure: cfg.Auth.CookieSecure,
		}),
		Views:    handlers.NewViewsHandler(viewsService, sessions, worker.NewPoller(cfg.Cashier.PollInterval(), logger), logger),
		Panel:    handlers.NewPanelHandler(roleRouter, auditService),
		Sessions: sessionMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Error("fiber listen", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}
