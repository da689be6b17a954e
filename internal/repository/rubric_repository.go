package repository

import (
	"context"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RubricRepository struct {
	db *gorm.DB
}

func NewRubricRepository(db *gorm.DB) *RubricRepository {
	return &RubricRepository{db}
}

// Get returns the rubric by descending weight, ties in insertion order.
func (r *RubricRepository) Get(ctx context.Context) (model.Rubric, error) {
	rubric := model.Rubric{}
	err := r.db.WithContext(ctx).
		Order("weight DESC").
		Order("id ASC").
		Find(&rubric).Error
	return rubric, err
}

// Update overwrites weight and description of dimensions that already exist.
// Unknown dimensions are ignored. It reports how many rows changed.
func (r *RubricRepository) Update(ctx context.Context, patches map[string]model.RubricPatch) (int, error) {
	updated := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for dimension, p := range patches {
			res := tx.Model(&model.RubricEntry{}).
				Where("dimension = ?", dimension).
				Updates(map[string]any{
					"weight":      p.Weight,
					"description": p.Description,
				})
			if res.Error != nil {
				return res.Error
			}
			updated += int(res.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return updated, nil
}

// Seed inserts the entries whose dimension is not stored yet. Existing rows
// keep their weight and description.
func (r *RubricRepository) Seed(ctx context.Context, entries []model.RubricEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]model.RubricEntry, len(entries))
	for i, e := range entries {
		rows[i] = model.RubricEntry{Dimension: e.Dimension, Weight: e.Weight, Description: e.Description}
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dimension"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}
