// Package bootstrap wires configuration into a runnable application: store
// backend, LLM backends, resilience policy, metrics, pipeline, and router.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"docanalyzer-backend/internal/analyses"
	"docanalyzer-backend/internal/llm"
	"docanalyzer-backend/internal/llm/openai"
	"docanalyzer-backend/internal/llm/rule"
	"docanalyzer-backend/internal/resilience"
	"docanalyzer-backend/internal/shared/config"
	"docanalyzer-backend/internal/shared/metrics"
	"docanalyzer-backend/internal/shared/server"
	"docanalyzer-backend/internal/shared/storage/db"
	"docanalyzer-backend/internal/shared/telemetry"
)

// App bundles the wired components. Close releases held resources.
type App struct {
	Router   *gin.Engine
	Config   config.Config
	Metrics  *metrics.Metrics
	Store    analyses.Store
	Pipeline *analyses.Pipeline

	sqlDB *sql.DB
}

// Build assembles the application from config. When DATABASE_URL is set the
// store runs on Postgres; outside production a connection failure falls back
// to the filesystem store instead of aborting startup.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	app := &App{Config: cfg}

	store, sqlDB, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Store = store
	app.sqlDB = sqlDB

	classifier, extractor := buildLLM(cfg)

	app.Metrics = metrics.New("docanalyzer")
	exec := resilience.NewExecutor(resilience.Config{
		RetryMaxAttempts: cfg.LLMMaxAttempts,
		BreakerEnabled:   true,
	})

	app.Pipeline = analyses.NewPipeline(
		classifier, extractor, store, exec, app.Metrics, cfg.PipelineMaxConcurrency,
	)

	handler := analyses.NewHandler(app.Pipeline, store, cfg.MaxUploadMB)
	app.Router = server.NewRouter(cfg, app.Metrics, handler)
	return app, nil
}

func (a *App) Close() error {
	if a.sqlDB != nil {
		return a.sqlDB.Close()
	}
	return nil
}

func buildStore(ctx context.Context, cfg config.Config) (analyses.Store, *sql.DB, error) {
	if cfg.DatabaseURL != "" {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
		if err == nil {
			telemetry.Info("bootstrap.store", map[string]any{"backend": "postgres"})
			return analyses.NewPGStore(sqlDB), sqlDB, nil
		}
		if cfg.Env == "production" {
			return nil, nil, fmt.Errorf("connect database: %w", err)
		}
		telemetry.Warn("bootstrap.store.fallback", map[string]any{
			"backend": "fs",
			"error":   err.Error(),
		})
	}

	store, err := analyses.NewFSStore(cfg.StoreDir)
	if err != nil {
		return nil, nil, fmt.Errorf("init filesystem store: %w", err)
	}
	if cfg.DatabaseURL == "" {
		telemetry.Info("bootstrap.store", map[string]any{"backend": "fs", "dir": cfg.StoreDir})
	}
	return store, nil, nil
}

// buildLLM picks the classification and extraction backends. Without an
// OpenAI key the rule-based backends keep the service usable offline.
func buildLLM(cfg config.Config) (llm.Classifier, llm.Extractor) {
	if cfg.LLMProvider == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey != "" {
			client, err := openai.NewClient(apiKey, cfg.LLMModel, cfg.LLMRequestsPerSec)
			if err == nil {
				telemetry.Info("bootstrap.llm", map[string]any{"provider": "openai", "model": cfg.LLMModel})
				return client, client
			}
			telemetry.Warn("bootstrap.llm.fallback", map[string]any{"error": err.Error()})
		} else {
			telemetry.Warn("bootstrap.llm.fallback", map[string]any{"error": "OPENAI_API_KEY not set"})
		}
	}
	telemetry.Info("bootstrap.llm", map[string]any{"provider": "rule"})
	return rule.Classifier{}, rule.Extractor{}
}
