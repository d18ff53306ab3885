package bootstrap

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"resume-matcher/internal/analyses"
	"resume-matcher/internal/llm"
	"resume-matcher/internal/llm/anthropic"
	"resume-matcher/internal/llm/gemini"
	"resume-matcher/internal/llm/openai"
	"resume-matcher/internal/services/health"
	"resume-matcher/internal/shared/config"
	"resume-matcher/internal/shared/server"
	"resume-matcher/internal/shared/server/middleware"
	"resume-matcher/internal/shared/telemetry"
)

const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

const limiterSweepInterval = 5 * time.Minute

// App holds shared dependencies.
type App struct {
	Config          config.Config
	Router          *gin.Engine
	Chain           *analyses.Chain
	Cache           analyses.Cache
	AnalysisService *analyses.Service
	AnalysisHandler *analyses.Handler
	Health          *health.Service
	RateLimiter     *middleware.RateLimiter
}

// Build wires providers, cache, service and router from cfg. Background
// work (cache expiry, rate-limit bucket sweeping) stops when ctx is done.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	chain := analyses.NewChain(buildProviders(ctx, cfg)...)
	cache := buildCache(ctx, cfg)

	svc := analyses.NewService(chain, cache, cfg.CacheTTL, cfg.SingleFlight)
	healthSvc := health.NewService(chain.Available(), cfg.CacheEnabled)
	handler := analyses.NewHandler(svc, cfg.MaxBodyBytes)
	limiter := middleware.NewRateLimiter(nil)
	limiter.StartJanitor(ctx, limiterSweepInterval)

	app := &App{
		Config:          cfg,
		Chain:           chain,
		Cache:           cache,
		AnalysisService: svc,
		AnalysisHandler: handler,
		Health:          healthSvc,
		RateLimiter:     limiter,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:          cfg,
		AnalysisHandler: handler,
		Health:          healthSvc,
		RateLimiter:     limiter,
	})

	telemetry.Info("bootstrap.ready", map[string]any{
		"providers":     chain.Available(),
		"cache_enabled": cfg.CacheEnabled,
		"cache_ttl_s":   int(cfg.CacheTTL / time.Second),
		"singleflight":  cfg.SingleFlight,
		"env":           cfg.Env,
	})
	return app, nil
}

// buildProviders returns the chain in fixed priority order. Providers
// without credentials, or whose client cannot be built, stay unavailable.
func buildProviders(ctx context.Context, cfg config.Config) []analyses.Provider {
	opts := llm.GenerateOptions{
		MaxOutputTokens: cfg.MaxOutputTokens,
		Temperature:     llm.Temperature(cfg.Temperature),
	}
	// The Messages API call never set a temperature; keep the provider default.
	claudeOpts := llm.GenerateOptions{MaxOutputTokens: cfg.MaxOutputTokens}

	providers := []analyses.Provider{
		{Name: ProviderOpenAI, Options: opts},
		{Name: ProviderGemini, Options: opts},
		{Name: ProviderAnthropic, Options: claudeOpts},
	}

	if cfg.OpenAIAPIKey != "" {
		client, err := openai.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
		providers[0].Generator = generatorOrNil(ProviderOpenAI, client, err)
	}
	if cfg.GeminiAPIKey != "" {
		client, err := gemini.NewClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.LLMTimeout)
		providers[1].Generator = generatorOrNil(ProviderGemini, client, err)
	}
	if cfg.ClaudeAPIKey != "" {
		client, err := anthropic.NewClient(cfg.ClaudeAPIKey, cfg.ClaudeModel, cfg.LLMTimeout)
		providers[2].Generator = generatorOrNil(ProviderAnthropic, client, err)
	}
	return providers
}

func generatorOrNil[T llm.Generator](name string, client T, err error) llm.Generator {
	if err != nil {
		telemetry.Error("bootstrap.provider_unavailable", map[string]any{
			"provider": name,
			"error":    err.Error(),
		})
		return nil
	}
	return client
}

func buildCache(ctx context.Context, cfg config.Config) analyses.Cache {
	if !cfg.CacheEnabled {
		return analyses.NoopCache{}
	}
	cache := analyses.NewMemoryCache(nil)
	cache.StartJanitor(ctx)
	return cache
}
