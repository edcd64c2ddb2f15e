package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	TracesExporter  string
	LLM             LLM
	RateLimit       RateLimit
}

// LLM configures the primary (OpenRouter-compatible) and secondary (Gemini) backends.
type LLM struct {
	OpenRouterAPIKey  string
	OpenRouterBaseURL string
	OpenRouterModel   string
	GeminiAPIKey      string
	GeminiModel       string
	GeminiBaseURL     string
	GeminiOnly        bool
	MaxRetries        int
	Timeout           time.Duration
	Breaker           Breaker
}

// Breaker configures the per-backend circuit breaker.
type Breaker struct {
	Enabled  bool
	Failures uint32
	Timeout  time.Duration
}

// RateLimit configures the per-client limiter on the API routes.
type RateLimit struct {
	RequestsPerMinute int
	Burst             int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:3000")
	v.SetDefault("OTEL_TRACES_EXPORTER", "none")
	v.SetDefault("OPENROUTER_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("MODEL_DEFAULT", "meta-llama/llama-3.1-70b-instruct")
	v.SetDefault("GEMINI_MODEL", "gemini-1.5-flash")
	v.SetDefault("GEMINI_ONLY", false)
	v.SetDefault("LLM_MAX_RETRIES", 2)
	v.SetDefault("LLM_TIMEOUT_SECONDS", 120)
	v.SetDefault("LLM_BREAKER_ENABLED", true)
	v.SetDefault("LLM_BREAKER_FAILURES", 5)
	v.SetDefault("LLM_BREAKER_TIMEOUT_SECONDS", 30)
	v.SetDefault("RATE_LIMIT_RPM", 30)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	maxRetries := v.GetInt("LLM_MAX_RETRIES")
	if maxRetries < 0 {
		maxRetries = 0
	}
	timeout := time.Duration(v.GetInt("LLM_TIMEOUT_SECONDS")) * time.Second
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	failures := v.GetInt("LLM_BREAKER_FAILURES")
	if failures <= 0 {
		failures = 5
	}

	return Config{
		Port:            strings.TrimSpace(v.GetString("PORT")),
		Env:             normalizeEnv(v.GetString("ENV")),
		LogLevel:        strings.ToLower(strings.TrimSpace(v.GetString("LOG_LEVEL"))),
		CORSAllowOrigin: splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		TracesExporter:  strings.TrimSpace(v.GetString("OTEL_TRACES_EXPORTER")),
		LLM: LLM{
			OpenRouterAPIKey:  strings.TrimSpace(v.GetString("OPENROUTER_API_KEY")),
			OpenRouterBaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("OPENROUTER_BASE_URL")), "/"),
			OpenRouterModel:   strings.TrimSpace(v.GetString("MODEL_DEFAULT")),
			GeminiAPIKey:      strings.TrimSpace(v.GetString("GEMINI_API_KEY")),
			GeminiModel:       strings.TrimSpace(v.GetString("GEMINI_MODEL")),
			GeminiBaseURL:     strings.TrimSpace(v.GetString("GEMINI_BASE_URL")),
			GeminiOnly:        v.GetBool("GEMINI_ONLY"),
			MaxRetries:        maxRetries,
			Timeout:           timeout,
			Breaker: Breaker{
				Enabled:  v.GetBool("LLM_BREAKER_ENABLED"),
				Failures: uint32(failures),
				Timeout:  time.Duration(v.GetInt("LLM_BREAKER_TIMEOUT_SECONDS")) * time.Second,
			},
		},
		RateLimit: RateLimit{
			RequestsPerMinute: v.GetInt("RATE_LIMIT_RPM"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}
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
