package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-matcher/internal/llm"
)

var apiURL = "https://api.openai.com/v1/chat/completions"

const defaultTimeout = 120 * time.Second

// Client implements llm.Generator using OpenAI Chat Completions.
type Client struct {
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewClient constructs a new OpenAI client. A zero timeout uses the default.
func NewClient(apiKey, model string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("OPENAI_MODEL is required for OpenAI")
	}
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    *float32        `json:"temperature,omitempty"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage,omitempty"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Generate sends the prompt as a single user message and returns the raw content.
func (c *Client) Generate(ctx context.Context, prompt string, opts llm.GenerateOptions) (string, error) {
	reqBody := chatRequest{
		Model:     c.model,
		Messages:  []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens: opts.MaxOutputTokens,
		ResponseFormat: &responseFormat{
			Type: "json_object",
		},
	}
	if !isGPT5(c.model) {
		reqBody.Temperature = opts.Temperature
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return "", fmt.Errorf("openai request timeout: %w", err)
		}
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		if resp.StatusCode >= 400 {
			return "", fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return "", fmt.Errorf("openai response parse: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("openai http status %d: %s (%s)", resp.StatusCode, parsed.Error.Message, parsed.Error.Type)
	}
	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("openai http status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai response missing choices")
	}

	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("openai: %w", llm.ErrEmptyResponse)
	}
	return content, nil
}

func isGPT5(model string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(model)), "gpt-5")
}

var _ llm.Generator = (*Client)(nil)
