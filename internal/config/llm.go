package config

import "time"

const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderOpenRouter = "openrouter"
	ProviderGemini     = "gemini"
)

var defaultModels = map[string]string{
	ProviderAnthropic:  "claude-sonnet-4-20250514",
	ProviderOpenAI:     "gpt-4o-mini",
	ProviderOpenRouter: "openai/gpt-4o-mini",
	ProviderGemini:     "gemini-2.5-flash",
}

type LLMConfig struct {
	Provider  string `env:"LLM_PROVIDER, default=anthropic"`
	Model     string `env:"LLM_MODEL"`
	MaxTokens int64  `env:"LLM_MAX_TOKENS, default=2000"`

	Timeout        time.Duration `env:"LLM_TIMEOUT, default=90s"`
	MaxRetries     int           `env:"LLM_MAX_RETRIES, default=2"`
	RetryBaseDelay time.Duration `env:"LLM_RETRY_BASE_DELAY, default=1s"`
	RetryMaxDelay  time.Duration `env:"LLM_RETRY_MAX_DELAY, default=30s"`

	// USD per 1000 tokens.
	PriceInputPer1K  float64 `env:"LLM_PRICE_INPUT_PER_1K, default=0.003"`
	PriceOutputPer1K float64 `env:"LLM_PRICE_OUTPUT_PER_1K, default=0.015"`

	// Prompt budget, in characters, for the structured input and the extracted text.
	JSONTruncateChars int `env:"LLM_JSON_TRUNCATE_CHARS, default=3000"`
	TextTruncateChars int `env:"LLM_TEXT_TRUNCATE_CHARS, default=2000"`

	AnthropicAPIKey   string `env:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey      string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey  string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL, default=https://openrouter.ai/api/v1"`
	GeminiAPIKey      string `env:"GEMINI_API_KEY"`
}

// ModelName returns LLM_MODEL or the provider's default model.
func (c LLMConfig) ModelName() string {
	if c.Model != "" {
		return c.Model
	}
	return defaultModels[c.Provider]
}

// APIKey returns the key of the selected provider.
func (c LLMConfig) APIKey() string {
	switch c.Provider {
	case ProviderOpenAI:
		return c.OpenAIAPIKey
	case ProviderOpenRouter:
		return c.OpenRouterAPIKey
	case ProviderGemini:
		return c.GeminiAPIKey
	default:
		return c.AnthropicAPIKey
	}
}
