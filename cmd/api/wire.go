package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appai "github.com/bryanwahyu/verdict-gate/internal/application/ai"
	"github.com/bryanwahyu/verdict-gate/internal/config"
	domai "github.com/bryanwahyu/verdict-gate/internal/domain/ai"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/gemini"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/manager"
	"github.com/bryanwahyu/verdict-gate/internal/infra/ai/openai"
	mysqlp "github.com/bryanwahyu/verdict-gate/internal/infra/db/mysql"
	"github.com/bryanwahyu/verdict-gate/internal/infra/db/postgres"
	"github.com/bryanwahyu/verdict-gate/internal/infra/httpserver"
	minioStore "github.com/bryanwahyu/verdict-gate/internal/infra/storage"
	"github.com/bryanwahyu/verdict-gate/internal/middleware"
)

// newGenerator returns nil (not an error) when no credential is configured.
func newGenerator(ctx context.Context, provider, apiKey, model, baseURL string) (domai.Generator, error) {
	if apiKey == "" {
		return nil, nil
	}
	switch provider {
	case "openai":
		return openai.NewClientWithBaseURL(apiKey, model, baseURL), nil
	case "gemini", "":
		return gemini.NewClient(ctx, apiKey, model, baseURL)
	default:
		return nil, fmt.Errorf("unknown ai provider %q", provider)
	}
}

// buildGenerator wires primary + optional fallback. Construction errors
// degrade to "not configured" instead of stopping the process.
func buildGenerator(ctx context.Context, cfg *config.Config, logger *zap.Logger) domai.Generator {
	primary, err := newGenerator(ctx, cfg.AI.Provider, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL)
	if err != nil {
		logger.Error("primary generator init failed", zap.String("provider", cfg.AI.Provider), zap.Error(err))
		primary = nil
	}
	fallback, err := newGenerator(ctx, cfg.AI.FallbackProvider, cfg.AI.FallbackAPIKey, cfg.AI.FallbackModel, "")
	if err != nil {
		logger.Error("fallback generator init failed", zap.String("provider", cfg.AI.FallbackProvider), zap.Error(err))
		fallback = nil
	}

	switch {
	case primary == nil && fallback == nil:
		logger.Warn("no AI credential configured; /analyze will answer with the configuration fallback")
		return nil
	case primary == nil:
		return fallback
	case fallback == nil:
		return primary
	default:
		return manager.New(primary, fallback, logger)
	}
}

// app holds everything main needs to run and close.
type app struct {
	svc      *appai.Service
	db       *sql.DB
	checkers map[string]middleware.HealthChecker
}

func (a *app) Close() {
	if a.db != nil {
		a.db.Close()
	}
}

// buildApp wires the service and its optional journal/archive.
// Journal or archive failures at startup are fatal: they were asked for explicitly.
func buildApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	svc := appai.NewService(buildGenerator(ctx, cfg, logger), logger)
	svc.Timeout = cfg.AI.Timeout
	a := &app{svc: svc, checkers: map[string]middleware.HealthChecker{}}

	if cfg.JournalEnabled() {
		var err error
		switch cfg.Database.Driver {
		case "mysql":
			a.db, err = mysqlp.Connect(ctx, cfg.DSN())
			if err == nil {
				err = mysqlp.Migrate(ctx, a.db)
				svc.Journal = mysqlp.NewAnalystRepository(a.db)
			}
		case "postgres":
			a.db, err = postgres.Connect(ctx, cfg.DSN())
			if err == nil {
				err = postgres.Migrate(ctx, a.db)
				svc.Journal = postgres.NewAnalystRepository(a.db)
			}
		}
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("%s journal: %w", cfg.Database.Driver, err)
		}
		a.checkers["database"] = &middleware.DatabaseHealthChecker{DB: a.db}
		logger.Info("analysis journal enabled", zap.String("driver", cfg.Database.Driver))
	}

	if cfg.ArchiveEnabled() {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		svc.Archive = store
		logger.Info("raw output archive enabled", zap.String("bucket", cfg.Minio.BucketName))
	}

	return a, nil
}

func routerOptions(cfg *config.Config, limiter *middleware.RateLimiter, checkers map[string]middleware.HealthChecker) httpserver.Options {
	return httpserver.Options{
		MaxContentBytes: cfg.Limits.MaxContentBytes,
		StaticDir:       cfg.Server.StaticDir,
		CORS: cors.Options{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			ExposedHeaders: []string{"X-Analysis-ID", "X-Verdict-Source"},
			MaxAge:         cfg.CORS.MaxAge,
		},
		AuthKeys:       cfg.Auth.Keys,
		Limiter:        limiter,
		HealthCheckers: checkers,
	}
}
