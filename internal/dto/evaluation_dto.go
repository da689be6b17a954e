package dto

import (
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
)

// EvaluationSummary is an evaluations row without the stored JSON blobs.
type EvaluationSummary struct {
	ID               uint      `gorm:"column:id" json:"id"`
	UserOutline      string    `gorm:"column:user_outline" json:"user_outline"`
	UserPreferences  string    `gorm:"column:user_preferences" json:"user_preferences"`
	PresentationLink string    `gorm:"column:presentation_link" json:"presentation_link"`
	OverallScore     float64   `gorm:"column:overall_score" json:"overall_score"`
	ScoreCategory    string    `gorm:"column:score_category" json:"score_category"`
	DocType          string    `gorm:"column:doc_type" json:"doc_type"`
	ReportPath       string    `gorm:"column:report_path" json:"report_path"`
	CostUSD          float64   `gorm:"column:cost_usd" json:"cost_usd"`
	InputTokens      int64     `gorm:"column:input_tokens" json:"input_tokens"`
	OutputTokens     int64     `gorm:"column:output_tokens" json:"output_tokens"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"created_at"`
}

type Stats struct {
	TotalEvaluations     int64            `json:"total_evaluations"`
	TotalCostUSD         float64          `json:"total_cost_usd"`
	AverageScore         float64          `json:"average_score"`
	CategoryDistribution map[string]int64 `json:"category_distribution"`
}

type EvaluateResponse struct {
	Status          string                `json:"status"`
	EvaluationID    uint                  `json:"evaluation_id"`
	OverallScore    float64               `json:"overall_score"`
	ScoreCategory   string                `json:"score_category"`
	CostUSD         float64               `json:"cost_usd"`
	DimensionScores model.DimensionScores `json:"dimension_scores"`
}

// RubricUpdate is one entry of a POST /api/rubric body. Both fields are required.
type RubricUpdate struct {
	Weight      *int    `json:"weight"`
	Description *string `json:"description"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
