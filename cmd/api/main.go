package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/crm-service/internal/api/http"
	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/persistence"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	"github.com/spec-kit/crm-service/internal/service"
)

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

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	dependencies := map[string]handlers.Pinger{}
	var publisher service.Publisher
	if redis.Client != nil {
		dependencies["redis"] = redis
		publisher = redis
	}

	var repos repository.Repositories
	if pool := pg.PoolHandle(); pool != nil {
		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pool, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewRepositories(pool)
		dependencies["postgres"] = pg
	} else {
		logger.Warn("POSTGRES_DSN not set, using in-memory store")
		repos = memory.NewStore().Repositories()
	}

	server := httptransport.NewServer(httptransport.ServerDeps{
		Config:       *cfg,
		Logger:       logger,
		Metrics:      observability.NewMetrics(),
		Repos:        repos,
		Publisher:    publisher,
		Dependencies: dependencies,
	})

	// the in-memory store starts empty, so it is always seeded
	if cfg.Bootstrap.SeedOnStart || pg.PoolHandle() == nil {
		if _, created, err := server.Workers.SeedAdmin(ctx, cfg.Bootstrap); err != nil {
			logger.Error("failed to seed admin", zap.Error(err))
		} else if created {
			logger.Warn("seeded bootstrap admin, change its password", zap.String("username", cfg.Bootstrap.AdminUsername))
		}
	}

	go func() {
		if err := server.App.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := server.App.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
