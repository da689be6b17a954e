package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"google.golang.org/genai"
)

type GeminiJudge struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

func NewGeminiJudge(ctx context.Context, cfg config.LLMConfig) (*GeminiJudge, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiJudge{
		client:    client,
		model:     cfg.ModelName(),
		maxTokens: int32(cfg.MaxTokens),
	}, nil
}

func (j *GeminiJudge) Name() string { return config.ProviderGemini }

func (j *GeminiJudge) Complete(ctx context.Context, prompt string) (Completion, error) {
	if strings.TrimSpace(prompt) == "" {
		return Completion{}, fmt.Errorf("prompt cannot be empty")
	}

	result, err := j.client.Models.GenerateContent(ctx, j.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		MaxOutputTokens:  j.maxTokens,
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return Completion{}, fmt.Errorf("generate content failed: %w", err)
	}
	if err := validateGenerateResponse(result); err != nil {
		return Completion{}, fmt.Errorf("invalid response: %w", err)
	}

	c := Completion{Text: result.Text()}
	if u := result.UsageMetadata; u != nil {
		c.InputTokens = int64(u.PromptTokenCount)
		c.OutputTokens = int64(u.CandidatesTokenCount)
	}
	return c, nil
}

func (j *GeminiJudge) IsRetryable(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return isRetryableStatus(apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return isRetryableStatus(apiErrPtr.Code)
	}
	return isTransientNetworkError(err)
}

func validateGenerateResponse(resp *genai.GenerateContentResponse) error {
	if resp == nil {
		return fmt.Errorf("response is nil")
	}

	if len(resp.Candidates) == 0 {
		return fmt.Errorf("no candidates in response")
	}

	if resp.Candidates[0].Content == nil {
		return fmt.Errorf("candidate content is nil")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return fmt.Errorf("no parts in content")
	}

	return nil
}
