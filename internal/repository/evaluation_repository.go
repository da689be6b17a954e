package repository

import (
	"context"
	"errors"

	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/scoring"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

// Create inserts the evaluation and fills in its id and created_at.
func (r *EvaluationRepository) Create(ctx context.Context, e *model.Evaluation) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// List returns every evaluation, newest first.
func (r *EvaluationRepository) List(ctx context.Context) ([]dto.EvaluationSummary, error) {
	summaries := []dto.EvaluationSummary{}
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Order("created_at DESC").
		Order("id DESC").
		Find(&summaries).Error
	return summaries, err
}

func (r *EvaluationRepository) FindByID(ctx context.Context, id uint) (*model.Evaluation, error) {
	var e model.Evaluation
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EvaluationRepository) FindReportPath(ctx context.Context, id uint) (string, error) {
	var paths []string
	err := r.db.WithContext(ctx).
		Model(&model.Evaluation{}).
		Where("id = ?", id).
		Limit(1).
		Pluck("report_path", &paths).Error
	if err != nil {
		return "", err
	}
	if len(paths) == 0 {
		return "", ErrNotFound
	}
	return paths[0], nil
}

type categoryCount struct {
	ScoreCategory string
	Count         int64
}

func (r *EvaluationRepository) Stats(ctx context.Context) (dto.Stats, error) {
	var totals struct {
		Total     int64
		TotalCost float64
		AvgScore  float64
	}
	db := r.db.WithContext(ctx)
	err := db.Model(&model.Evaluation{}).
		Select("COUNT(*) AS total, COALESCE(SUM(cost_usd), 0) AS total_cost, COALESCE(AVG(overall_score), 0) AS avg_score").
		Scan(&totals).Error
	if err != nil {
		return dto.Stats{}, err
	}

	var counts []categoryCount
	err = db.Model(&model.Evaluation{}).
		Select("score_category, COUNT(*) AS count").
		Group("score_category").
		Scan(&counts).Error
	if err != nil {
		return dto.Stats{}, err
	}

	stats := dto.Stats{
		TotalEvaluations:     totals.Total,
		TotalCostUSD:         scoring.Round(totals.TotalCost, 2),
		AverageScore:         scoring.Round(totals.AvgScore, 1),
		CategoryDistribution: make(map[string]int64, len(counts)),
	}
	for _, c := range counts {
		stats.CategoryDistribution[c.ScoreCategory] = c.Count
	}
	return stats, nil
}
