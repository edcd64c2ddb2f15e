package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/analyses"
	"resume-ats/internal/exports"
	"resume-ats/internal/llm"
	"resume-ats/internal/llm/gemini"
	"resume-ats/internal/llm/openrouter"
	"resume-ats/internal/rewrites"
	"resume-ats/internal/services/health"
	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/server"
	"resume-ats/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Provider        *llm.Provider
	AnalysesService *analyses.Service
	RewritesService *rewrites.Service
	ExportsService  *exports.Service
	AnalysisHandler *analyses.Handler
	RewriteHandler  *rewrites.Handler
	ExportHandler   *exports.Handler
	Health          *health.Service
}

// Build prepares shared dependencies and wires routes. Missing LLM keys are
// not fatal: the server still starts and LLM routes report the missing
// configuration per request.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}

	provider, err := BuildProvider(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:          cfg,
		Provider:        provider,
		AnalysesService: analyses.NewService(provider),
		RewritesService: rewrites.NewService(provider),
		ExportsService:  exports.NewService(),
		Health:          health.NewService(provider),
	}
	app.AnalysisHandler = analyses.NewHandler(app.AnalysesService)
	app.RewriteHandler = rewrites.NewHandler(app.RewritesService)
	app.ExportHandler = exports.NewHandler(app.ExportsService)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		AnalysisHandler: app.AnalysisHandler,
		RewriteHandler:  app.RewriteHandler,
		ExportHandler:   app.ExportHandler,
		Health:          app.Health,
	})

	return app, nil
}

// BuildProvider creates a backend client for every configured key and wraps
// them in a Provider.
func BuildProvider(ctx context.Context, cfg config.LLM) (*llm.Provider, error) {
	var primary, secondary llm.Backend

	if cfg.OpenRouterAPIKey != "" {
		client, err := openrouter.NewClient(openrouter.Config{
			APIKey:  cfg.OpenRouterAPIKey,
			BaseURL: cfg.OpenRouterBaseURL,
			Model:   cfg.OpenRouterModel,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("openrouter client: %w", err)
		}
		primary = client
	}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.GeminiModel,
			BaseURL: cfg.GeminiBaseURL,
			Timeout: cfg.Timeout,
		})
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		secondary = client
	}
	if primary == nil && secondary == nil {
		telemetry.Warn("llm.unconfigured", map[string]any{
			"hint": "set OPENROUTER_API_KEY or GEMINI_API_KEY",
		})
	}

	return llm.NewProvider(llm.Options{
		Primary:         primary,
		Secondary:       secondary,
		PreferSecondary: cfg.GeminiOnly,
		MaxRetries:      cfg.MaxRetries,
		Breaker: llm.BreakerSettings{
			Enabled:  cfg.Breaker.Enabled,
			Failures: cfg.Breaker.Failures,
			Timeout:  cfg.Breaker.Timeout,
		},
	}), nil
}
