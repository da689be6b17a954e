package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
)

const (
	fallbackScore         = 75
	fallbackJustification = "Evaluation pending"
	fallbackListItem      = "Evaluation in progress"
)

type EvaluationRequest struct {
	Structured   json.RawMessage
	DocumentText string
	Rubric       model.Rubric
}

type Usage struct {
	InputTokens  int64
	OutputTokens int64
	CostUSD      float64
}

// Outcome is what an evaluation produced. Err is set when Result is the
// fallback judgment rather than the model's.
type Outcome struct {
	Result model.EvaluationResult
	Usage  Usage
	Err    *EvaluationError
}

func (o Outcome) IsFallback() bool {
	return o.Err != nil
}

// EvaluationError is a failed judge call or an unusable reply.
type EvaluationError struct {
	Op  string
	Err error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Pricing is USD per 1000 tokens.
type Pricing struct {
	InputPer1K  float64
	OutputPer1K float64
}

func (p Pricing) Cost(inputTokens, outputTokens int64) float64 {
	return float64(inputTokens)*p.InputPer1K/1000 + float64(outputTokens)*p.OutputPer1K/1000
}

type EvaluatorConfig struct {
	Timeout           time.Duration
	Retry             RetryConfig
	Pricing           Pricing
	JSONTruncateChars int
	TextTruncateChars int
}

func EvaluatorConfigFrom(cfg config.LLMConfig) EvaluatorConfig {
	return EvaluatorConfig{
		Timeout: cfg.Timeout,
		Retry: RetryConfig{
			MaxRetries: cfg.MaxRetries,
			BaseDelay:  cfg.RetryBaseDelay,
			MaxDelay:   cfg.RetryMaxDelay,
		},
		Pricing: Pricing{
			InputPer1K:  cfg.PriceInputPer1K,
			OutputPer1K: cfg.PriceOutputPer1K,
		},
		JSONTruncateChars: cfg.JSONTruncateChars,
		TextTruncateChars: cfg.TextTruncateChars,
	}
}

// Evaluator asks a Judge to score a presentation against the rubric.
type Evaluator struct {
	judge Judge
	cfg   EvaluatorConfig
}

func NewEvaluator(judge Judge, cfg EvaluatorConfig) *Evaluator {
	return &Evaluator{judge: judge, cfg: cfg}
}

// Evaluate always returns a usable Outcome. Judge failures, timeouts and
// malformed replies turn into the fallback judgment with Outcome.Err set.
func (e *Evaluator) Evaluate(ctx context.Context, req EvaluationRequest) Outcome {
	log := clog.FromContext(ctx).With("provider", e.judge.Name())

	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	prompt, err := BuildPrompt(req, e.cfg.JSONTruncateChars, e.cfg.TextTruncateChars)
	if err != nil {
		return e.fallback(log, req.Rubric, &EvaluationError{Op: "build prompt", Err: err})
	}

	completion, err := retryWithBackoff(ctx, e.cfg.Retry, e.judge.IsRetryable, func(ctx context.Context) (Completion, error) {
		return e.judge.Complete(ctx, prompt)
	})
	if err != nil {
		return e.fallback(log, req.Rubric, &EvaluationError{Op: e.judge.Name(), Err: err})
	}

	result, err := ParseEvaluation(completion.Text, req.Rubric)
	if err != nil {
		return e.fallback(log, req.Rubric, &EvaluationError{Op: "parse response", Err: err})
	}

	usage := Usage{
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
		CostUSD:      e.cfg.Pricing.Cost(completion.InputTokens, completion.OutputTokens),
	}
	log.Infof("evaluation complete: %d input tokens, %d output tokens, $%.4f", usage.InputTokens, usage.OutputTokens, usage.CostUSD)
	return Outcome{Result: result, Usage: usage}
}

func (e *Evaluator) fallback(log *clog.Logger, rubric model.Rubric, err *EvaluationError) Outcome {
	log.Warnf("evaluation failed, using fallback scores: %v", err)
	return FallbackOutcome(rubric, err)
}

// FallbackOutcome scores every rubric dimension 75 and records err in the
// assessment. It carries no token usage.
func FallbackOutcome(rubric model.Rubric, err *EvaluationError) Outcome {
	result := model.EvaluationResult{
		DimensionScores:   make(model.DimensionScores, 0, len(rubric)),
		Justifications:    make(map[string]string, len(rubric)),
		Strengths:         []string{fallbackListItem},
		Improvements:      []string{fallbackListItem},
		OverallAssessment: fmt.Sprintf("Error during evaluation: %v", err),
	}
	for _, entry := range rubric {
		result.DimensionScores.Set(entry.Dimension, fallbackScore)
		result.Justifications[entry.Dimension] = fallbackJustification
	}
	return Outcome{Result: result, Err: err}
}
