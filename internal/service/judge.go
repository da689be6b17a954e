package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
)

// Judge sends one prompt to a language model and returns its text reply.
type Judge interface {
	Name() string
	Complete(ctx context.Context, prompt string) (Completion, error)
	// IsRetryable reports whether a Complete error is worth another attempt.
	IsRetryable(err error) bool
}

type Completion struct {
	Text         string
	InputTokens  int64
	OutputTokens int64
}

var ErrMissingAPIKey = errors.New("api key not set")

// NewJudge builds the judge for the configured provider. A provider without
// an API key still gets a judge; every call fails and the evaluator falls back.
func NewJudge(ctx context.Context, cfg config.LLMConfig) (Judge, error) {
	if cfg.APIKey() == "" {
		return &unavailableJudge{provider: cfg.Provider}, nil
	}

	switch cfg.Provider {
	case config.ProviderAnthropic:
		return NewAnthropicJudge(cfg), nil
	case config.ProviderOpenAI:
		return NewOpenAIJudge(cfg), nil
	case config.ProviderOpenRouter:
		return NewOpenRouterJudge(cfg), nil
	case config.ProviderGemini:
		return NewGeminiJudge(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

type unavailableJudge struct {
	provider string
}

func (j *unavailableJudge) Name() string { return j.provider }

func (j *unavailableJudge) Complete(context.Context, string) (Completion, error) {
	return Completion{}, fmt.Errorf("%s: %w", j.provider, ErrMissingAPIKey)
}

func (j *unavailableJudge) IsRetryable(error) bool { return false }

// isTransientNetworkError matches connection level failures that are worth
// retrying regardless of provider.
func isTransientNetworkError(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	errMsg := err.Error()
	if strings.Contains(errMsg, "context canceled") ||
		strings.Contains(errMsg, "context deadline exceeded") {
		return false
	}

	return strings.Contains(errMsg, "connection refused") ||
		strings.Contains(errMsg, "connection reset") ||
		strings.Contains(errMsg, "timeout") ||
		strings.Contains(errMsg, "temporary failure") ||
		strings.Contains(errMsg, "EOF")
}

func isRetryableStatus(code int) bool {
	switch code {
	case 429, 500, 502, 503, 504, 529:
		return true
	}
	return false
}
