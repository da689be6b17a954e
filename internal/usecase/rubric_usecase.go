package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
)

var ErrInvalidRubric = errors.New("invalid rubric update")

type RubricUsecase struct {
	rubricRepo *repository.RubricRepository
}

func NewRubricUsecase(rubricRepo *repository.RubricRepository) *RubricUsecase {
	return &RubricUsecase{rubricRepo: rubricRepo}
}

func (uc *RubricUsecase) Get(ctx context.Context) (model.Rubric, error) {
	return uc.rubricRepo.Get(ctx)
}

// Update applies weight and description changes to existing dimensions.
// Every entry needs both fields and a non-negative weight, otherwise nothing
// is written. Unknown dimensions are skipped.
func (uc *RubricUsecase) Update(ctx context.Context, updates map[string]dto.RubricUpdate) error {
	patches := make(map[string]model.RubricPatch, len(updates))
	for dimension, u := range updates {
		switch {
		case u.Weight == nil:
			return fmt.Errorf("%w: %s: weight is required", ErrInvalidRubric, dimension)
		case u.Description == nil:
			return fmt.Errorf("%w: %s: description is required", ErrInvalidRubric, dimension)
		case *u.Weight < 0:
			return fmt.Errorf("%w: %s: weight must be >= 0", ErrInvalidRubric, dimension)
		}
		patches[dimension] = model.RubricPatch{Weight: *u.Weight, Description: *u.Description}
	}

	n, err := uc.rubricRepo.Update(ctx, patches)
	if err != nil {
		return fmt.Errorf("updating rubric: %w", err)
	}
	clog.FromContext(ctx).Infof("rubric updated: %d of %d dimensions changed", n, len(patches))
	return nil
}
