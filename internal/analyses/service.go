package analyses

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"golang.org/x/sync/singleflight"

	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/telemetry"
)

// Service orchestrates a match analysis: cache lookup, prompt build, chain
// execution, cache store, with the fallback result as the last resort.
type Service struct {
	Chain    *Chain
	Cache    Cache
	CacheTTL time.Duration
	// Dedupe shares one chain execution between concurrent identical requests.
	Dedupe bool

	flight singleflight.Group
}

// NewService constructs a Service. A nil cache disables caching.
func NewService(chain *Chain, cache Cache, ttl time.Duration, dedupe bool) *Service {
	if cache == nil {
		cache = NoopCache{}
	}
	if chain == nil {
		chain = NewChain()
	}
	return &Service{Chain: chain, Cache: cache, CacheTTL: ttl, Dedupe: dedupe}
}

// Validate rejects requests missing either input.
func (r Request) Validate() error {
	if r.Resume == "" || r.JobDescription == "" {
		return ErrInvalidRequest
	}
	return nil
}

// Analyze returns a Result for req. The only error it returns is
// ErrInvalidRequest; every analysis failure resolves to the fallback result.
func (s *Service) Analyze(ctx context.Context, req Request) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	start := time.Now()
	out := s.resolve(ctx, req)
	metrics.ObserveAnalysis(string(out.Source), time.Since(start))
	return out, nil
}

// resolve runs CacheChecked -> CacheHit | compute.
func (s *Service) resolve(ctx context.Context, req Request) (out Outcome) {
	defer recoverToFallback(&out)

	key := CacheKey(req.Resume, req.JobDescription)
	if cached, ok := s.lookup(key); ok {
		return Outcome{Result: cached, Source: SourceCache}
	}

	if !s.Dedupe {
		return s.compute(ctx, key, req)
	}
	v, _, _ := s.flight.Do(key, func() (any, error) {
		return s.compute(ctx, key, req), nil
	})
	out = v.(Outcome)
	out.Result = out.Result.clone()
	return out
}

func (s *Service) lookup(key string) (Result, bool) {
	cache := s.cache()
	cached, ok := cache.Get(key)
	if _, disabled := cache.(NoopCache); !disabled {
		metrics.IncCacheLookup(ok)
	}
	return cached, ok
}

// compute runs PromptBuilt -> ChainExecuted -> CacheStored | FallbackSupplied.
// Provider calls run detached from the caller's cancellation: a client that
// goes away must not turn a result in progress into the fallback.
func (s *Service) compute(ctx context.Context, key string, req Request) (out Outcome) {
	defer recoverToFallback(&out)

	prompt := BuildPrompt(req.Resume, req.JobDescription)

	chainResult, err := s.Chain.Execute(context.WithoutCancel(ctx), prompt)
	if err != nil {
		fields := map[string]any{
			"error":    err.Error(),
			"attempts": len(chainResult.Attempts),
		}
		if errors.Is(err, ErrNoProviders) {
			fields["reason"] = "no_providers"
		}
		telemetry.Error("analysis.fallback", fields)
		return Outcome{Result: FallbackResult(), Source: SourceFallback}
	}

	s.cache().Put(key, chainResult.Result, s.CacheTTL)
	return Outcome{Result: chainResult.Result, Source: SourceProvider, Provider: chainResult.Provider}
}

func recoverToFallback(out *Outcome) {
	if rec := recover(); rec != nil {
		telemetry.Error("analysis.panic", map[string]any{
			"error": fmt.Sprint(rec),
			"stack": string(debug.Stack()),
		})
		*out = Outcome{Result: FallbackResult(), Source: SourceFallback}
	}
}

func (s *Service) cache() Cache {
	if s.Cache == nil {
		return NoopCache{}
	}
	return s.Cache
}
