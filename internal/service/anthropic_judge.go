package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/fadilmartias/presentation-evaluator/internal/config"
)

type AnthropicJudge struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

func NewAnthropicJudge(cfg config.LLMConfig, opts ...option.RequestOption) *AnthropicJudge {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.AnthropicAPIKey),
		// retries are handled by the evaluator
		option.WithMaxRetries(0),
	}, opts...)
	return &AnthropicJudge{
		client:    anthropic.NewClient(opts...),
		model:     cfg.ModelName(),
		maxTokens: cfg.MaxTokens,
	}
}

func (j *AnthropicJudge) Name() string { return config.ProviderAnthropic }

func (j *AnthropicJudge) Complete(ctx context.Context, prompt string) (Completion, error) {
	msg, err := j.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(j.model),
		MaxTokens: j.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return Completion{}, fmt.Errorf("anthropic messages: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return Completion{}, fmt.Errorf("anthropic messages: no text content in response")
	}

	return Completion{
		Text:         text.String(),
		InputTokens:  msg.Usage.InputTokens,
		OutputTokens: msg.Usage.OutputTokens,
	}, nil
}

func (j *AnthropicJudge) IsRetryable(err error) bool {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.StatusCode)
	}
	return isTransientNetworkError(err)
}
