package analyses

import (
	"context"
	"fmt"
	"time"

	"resume-matcher/internal/llm"
	"resume-matcher/internal/shared/metrics"
	"resume-matcher/internal/shared/telemetry"
)

// Provider describes one entry of the fallback chain. A provider is
// available only when Generator is non-nil.
type Provider struct {
	Name      string
	Generator llm.Generator
	Options   llm.GenerateOptions
}

// Available reports whether the provider was configured with credentials.
func (p Provider) Available() bool {
	return p.Generator != nil
}

// Attempt is the transient record of one provider call.
type Attempt struct {
	Provider string
	Prompt   string
	Raw      string
	Err      error
	Duration time.Duration
}

// ChainResult is the outcome of a successful chain execution.
type ChainResult struct {
	Result   Result
	Provider string
	Attempts []Attempt
}

// Chain tries providers in a fixed priority order.
type Chain struct {
	providers []Provider
}

// NewChain builds a chain from providers in priority order.
func NewChain(providers ...Provider) *Chain {
	return &Chain{providers: append([]Provider(nil), providers...)}
}

// Providers returns the chain entries in priority order.
func (c *Chain) Providers() []Provider {
	return append([]Provider(nil), c.providers...)
}

// Available returns the names of providers that will be attempted.
func (c *Chain) Available() []string {
	var names []string
	for _, p := range c.providers {
		if p.Available() {
			names = append(names, p.Name)
		}
	}
	return names
}

// RunAttempt invokes one provider and parses its output. Generation and
// parse failures are reported the same way.
func RunAttempt(ctx context.Context, p Provider, prompt string) (Result, Attempt) {
	start := time.Now()
	attempt := Attempt{Provider: p.Name, Prompt: prompt}

	raw, err := p.Generator.Generate(ctx, prompt, p.Options)
	attempt.Raw = raw
	if err != nil {
		attempt.Err = fmt.Errorf("%w: %s: %w", ErrAttemptFailed, p.Name, err)
		attempt.Duration = time.Since(start)
		return Result{}, attempt
	}

	result, err := ParseResult(raw)
	attempt.Duration = time.Since(start)
	if err != nil {
		attempt.Err = fmt.Errorf("%w: %s: %w", ErrAttemptFailed, p.Name, err)
		return Result{}, attempt
	}
	return result, attempt
}

// Execute walks the chain and returns the first successful result.
// Unavailable providers are skipped and never retried. When nothing
// succeeds the error wraps ErrChainExhausted.
func (c *Chain) Execute(ctx context.Context, prompt string) (ChainResult, error) {
	var attempts []Attempt
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		result, attempt := RunAttempt(ctx, p, prompt)
		attempts = append(attempts, attempt)
		if attempt.Err == nil {
			metrics.IncProviderAttempt(p.Name, "success")
			telemetry.Info("analysis.attempt", map[string]any{
				"provider":    p.Name,
				"outcome":     "success",
				"duration_ms": attempt.Duration.Milliseconds(),
			})
			return ChainResult{Result: result, Provider: p.Name, Attempts: attempts}, nil
		}
		metrics.IncProviderAttempt(p.Name, "failure")
		telemetry.Warn("analysis.attempt", map[string]any{
			"provider":    p.Name,
			"outcome":     "failure",
			"duration_ms": attempt.Duration.Milliseconds(),
			"error":       attempt.Err.Error(),
		})
	}

	if len(attempts) == 0 {
		return ChainResult{}, fmt.Errorf("%w: %w", ErrChainExhausted, ErrNoProviders)
	}
	return ChainResult{Attempts: attempts}, fmt.Errorf("%w after %d attempts", ErrChainExhausted, len(attempts))
}
