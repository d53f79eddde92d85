package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by Config.Provider.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// defaultModels are friendly names resolved by each adapter's alias table.
var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-haiku",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderGemini:     "gemini-flash",
	ProviderOpenRouter: "google/gemini-2.0-flash-001",
}

// Config selects and configures one LLM provider.
type Config struct {
	Provider string
	APIKey   string
	Model    string

	// BaseURL overrides the API endpoint for OpenAI-compatible providers.
	BaseURL string

	Retry RetryConfig

	// Timeout bounds a single Generate call including retries. Zero means
	// no timeout beyond the caller's context.
	Timeout time.Duration
}

// RetryConfig configures retry behavior for transient failures.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetry is used when a Config carries no retry settings.
func DefaultRetry() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 1 * time.Second,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
	}
}

// DefaultConfig returns a Config for provider with default model, retry
// and timeout settings and no API key.
func DefaultConfig(provider string) Config {
	return Config{
		Provider: provider,
		Model:    defaultModels[provider],
		Retry:    DefaultRetry(),
		Timeout:  60 * time.Second,
	}
}

// envPrefix names the provider-specific variables, e.g. DIAGZ_GEMINI_API_KEY.
func envPrefix(provider string) string {
	return "DIAGZ_" + strings.ToUpper(provider) + "_"
}

// ConfigFromEnv resolves the LLM configuration from the environment.
//
// DIAGZ_LLM_PROVIDER selects a provider explicitly; its key and model come
// from DIAGZ_<PROVIDER>_API_KEY and DIAGZ_<PROVIDER>_MODEL, and
// DIAGZ_OPENAI_BASE_URL points the openai provider at a compatible API.
// Without an explicit provider the standard vendor variables are probed via
// DiscoverConfig. ok is false when no provider is configured at all.
func ConfigFromEnv() (cfg Config, ok bool) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("DIAGZ_LLM_PROVIDER")))
	if provider == "" {
		return DiscoverConfig()
	}

	cfg = DefaultConfig(provider)
	prefix := envPrefix(provider)
	if k := os.Getenv(prefix + "API_KEY"); k != "" {
		cfg.APIKey = k
	}
	if m := os.Getenv(prefix + "MODEL"); m != "" {
		cfg.Model = m
	}
	if u := os.Getenv(prefix + "BASE_URL"); u != "" {
		cfg.BaseURL = u
	}
	return cfg, true
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini, OpenAI, Anthropic, OpenRouter) and returns a Config for the
// first provider whose key is found.
func DiscoverConfig() (Config, bool) {
	probes := []struct {
		env      string
		provider string
	}{
		{"GEMINI_API_KEY", ProviderGemini},
		{"OPENAI_API_KEY", ProviderOpenAI},
		{"ANTHROPIC_API_KEY", ProviderAnthropic},
		{"OPENROUTER_API_KEY", ProviderOpenRouter},
	}
	for _, p := range probes {
		if k := os.Getenv(p.env); k != "" {
			cfg := DefaultConfig(p.provider)
			cfg.APIKey = k
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider is known and has its API key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.APIKey == "" {
			return fmt.Errorf("%sAPI_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
		}
		return nil
	}
	return fmt.Errorf("unknown LLM provider: %q", c.Provider)
}
