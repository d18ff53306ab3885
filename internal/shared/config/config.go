package config

import (
	"log"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration. It is loaded once at start and
// passed explicitly to everything that needs it.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string

	OpenAIAPIKey string
	OpenAIModel  string
	GeminiAPIKey string
	GeminiModel  string
	ClaudeAPIKey string
	ClaudeModel  string

	MaxOutputTokens int
	Temperature     float32
	LLMTimeout      time.Duration

	CacheEnabled bool
	CacheTTL     time.Duration
	SingleFlight bool

	RateLimitPerHour int
	MaxBodyBytes     int64
}

// Load reads configuration from environment variables with sensible defaults.
// Extra env files are loaded before the defaults ".env" and "cmd/.env".
func Load(envFiles ...string) Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(slices.Concat(envFiles, []string{".env", "cmd/.env"})...)

	return Config{
		Port:            getEnv("PORT", "3001"),
		Env:             normalizeEnv(getEnv("ENV", "dev")),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),

		OpenAIAPIKey: strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:  getEnv("OPENAI_MODEL", "gpt-4-turbo-preview"),
		GeminiAPIKey: strings.TrimSpace(os.Getenv("GOOGLE_AI_API_KEY")),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-pro"),
		ClaudeAPIKey: strings.TrimSpace(os.Getenv("CLAUDE_API_KEY")),
		ClaudeModel:  getEnv("CLAUDE_MODEL", "claude-3-opus-20240229"),

		MaxOutputTokens: getEnvInt("LLM_MAX_OUTPUT_TOKENS", 2000),
		Temperature:     getEnvFloat32("LLM_TEMPERATURE", 0.7),
		LLMTimeout:      time.Duration(getEnvInt("LLM_TIMEOUT_SECONDS", 120)) * time.Second,

		CacheEnabled: os.Getenv("ENABLE_CACHING") == "true",
		CacheTTL:     time.Duration(getEnvInt("CACHE_DURATION", 3600)) * time.Second,
		SingleFlight: os.Getenv("ANALYZE_SINGLEFLIGHT") == "true",

		RateLimitPerHour: getEnvInt("RATE_LIMIT", 100),
		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 10<<20)),
	}
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 0 {
		log.Printf("config: invalid %s=%q, using %d", key, raw, def)
		return def
	}
	return parsed
}

func getEnvFloat32(key string, def float32) float32 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	parsed, err := strconv.ParseFloat(raw, 32)
	if err != nil || parsed < 0 {
		log.Printf("config: invalid %s=%q, using %g", key, raw, def)
		return def
	}
	return float32(parsed)
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}
