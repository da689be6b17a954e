package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// StatusError is a non-2xx reply from an HTTP judge.
type StatusError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s returned status %d: %s", e.Provider, e.StatusCode, e.Body)
}

// OpenRouterJudge talks to the OpenRouter chat completions endpoint.
type OpenRouterJudge struct {
	client    *resty.Client
	apiKey    string
	model     string
	maxTokens int64
}

func NewOpenRouterJudge(cfg config.LLMConfig) *OpenRouterJudge {
	return &OpenRouterJudge{
		client:    resty.New().SetBaseURL(cfg.OpenRouterBaseURL),
		apiKey:    cfg.OpenRouterAPIKey,
		model:     cfg.ModelName(),
		maxTokens: cfg.MaxTokens,
	}
}

func (j *OpenRouterJudge) Name() string { return config.ProviderOpenRouter }

func (j *OpenRouterJudge) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := j.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+j.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]any{
			"model":      j.model,
			"max_tokens": j.maxTokens,
			"messages": []map[string]string{
				{"role": "system", "content": "You are an expert presentation evaluator."},
				{"role": "user", "content": prompt},
			},
		}).
		Post("/chat/completions")
	if err != nil {
		return Completion{}, fmt.Errorf("openrouter request: %w", err)
	}
	if resp.IsError() {
		return Completion{}, &StatusError{
			Provider:   config.ProviderOpenRouter,
			StatusCode: resp.StatusCode(),
			Body:       resp.String(),
		}
	}

	body := resp.String()
	text := gjson.Get(body, "choices.0.message.content").String()
	if text == "" {
		return Completion{}, fmt.Errorf("no response from LLM")
	}

	return Completion{
		Text:         text,
		InputTokens:  gjson.Get(body, "usage.prompt_tokens").Int(),
		OutputTokens: gjson.Get(body, "usage.completion_tokens").Int(),
	}, nil
}

func (j *OpenRouterJudge) IsRetryable(err error) bool {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return isRetryableStatus(statusErr.StatusCode)
	}
	return isTransientNetworkError(err)
}
