package anthropic

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"resume-matcher/internal/llm"
)

// baseURL overrides the Anthropic API endpoint when non-empty.
var baseURL = ""

const (
	defaultMaxTokens = 2000
	defaultTimeout   = 120 * time.Second
)

// Client implements llm.Generator using the Anthropic Messages API.
type Client struct {
	model  string
	client anthropic.Client
}

// NewClient constructs a new Anthropic client. A zero timeout uses the default.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("CLAUDE_MODEL is required for Anthropic")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("CLAUDE_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: timeout}),
		// The chain moves on to the next provider instead of retrying.
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{model: model, client: anthropic.NewClient(opts...)}, nil
}

// Generate sends the prompt as a single user message and returns the first text block.
// The Messages API requires max_tokens, so a zero MaxOutputTokens falls back to a default.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	maxTokens := opts.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if opts.Temperature != nil {
		params.Temperature = anthropic.Float(float64(*opts.Temperature))
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("anthropic http status %d: %w", apiErr.StatusCode, err)
		}
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("anthropic request timeout: %w", err)
		}
		return "", fmt.Errorf("anthropic request: %w", err)
	}

	for _, block := range msg.Content {
		if block.Type != "text" {
			continue
		}
		if text := strings.TrimSpace(block.Text); text != "" {
			return text, nil
		}
	}
	return "", fmt.Errorf("anthropic: %w", llm.ErrEmptyResponse)
}

var _ llm.Generator = (*Client)(nil)
