package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type OpenAIJudge struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func NewOpenAIJudge(cfg config.LLMConfig, opts ...option.RequestOption) *OpenAIJudge {
	opts = append([]option.RequestOption{
		option.WithAPIKey(cfg.OpenAIAPIKey),
		option.WithMaxRetries(0),
	}, opts...)
	return &OpenAIJudge{
		client:    openai.NewClient(opts...),
		model:     cfg.ModelName(),
		maxTokens: cfg.MaxTokens,
	}
}

func (j *OpenAIJudge) Name() string { return config.ProviderOpenAI }

func (j *OpenAIJudge) Complete(ctx context.Context, prompt string) (Completion, error) {
	resp, err := j.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(j.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxCompletionTokens: openai.Int(j.maxTokens),
	})
	if err != nil {
		return Completion{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return Completion{}, fmt.Errorf("openai chat completion: no content in response")
	}

	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}

func (j *OpenAIJudge) IsRetryable(err error) bool {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.StatusCode)
	}
	return isTransientNetworkError(err)
}
