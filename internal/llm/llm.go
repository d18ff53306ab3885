package llm

import (
	"context"
	"errors"
)

// Generator is the uniform prompt-in/text-out capability every provider exposes.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions carries provider-neutral sampling parameters.
// A nil Temperature leaves the provider default in place.
type GenerateOptions struct {
	MaxOutputTokens int
	Temperature     *float32
}

// Temperature returns a pointer to t, for building GenerateOptions literals.
func Temperature(t float32) *float32 {
	return &t
}

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("llm response empty")

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	return f(ctx, prompt, opts)
}
