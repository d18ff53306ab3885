package gemini

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"resume-matcher/internal/llm"
)

// baseURL overrides the Gemini API endpoint when non-empty.
var baseURL = ""

const defaultTimeout = 120 * time.Second

// Client implements llm.Generator using the Gemini API.
type Client struct {
	model  string
	models *genai.Models
}

// NewClient constructs a Gemini client. A zero timeout uses the default.
func NewClient(ctx context.Context, apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("GEMINI_MODEL is required for Gemini")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GOOGLE_AI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: timeout},
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Client{model: model, models: client.Models}, nil
}

// Generate runs a single-turn generateContent call and returns the concatenated text.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:      opts.Temperature,
		ResponseMIMEType: "application/json",
	}
	if opts.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(opts.MaxOutputTokens)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(prompt), cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", llm.ErrEmptyResponse)
	}
	return text, nil
}

var _ llm.Generator = (*Client)(nil)
