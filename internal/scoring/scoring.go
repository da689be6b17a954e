// Package scoring turns per-dimension scores into the weighted overall score
// and its category label.
package scoring

import (
	"math"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
)

const (
	CategoryExcellent        = "Excellent"
	CategoryGood             = "Good"
	CategorySatisfactory     = "Satisfactory"
	CategoryNeedsImprovement = "Needs Improvement"
	CategoryPoor             = "Poor"
)

// Categories lists every label from best to worst.
var Categories = []string{
	CategoryExcellent,
	CategoryGood,
	CategorySatisfactory,
	CategoryNeedsImprovement,
	CategoryPoor,
}

// OverallScore is the weighted mean of the scores over the whole rubric. A
// dimension missing from scores contributes zero but its weight still counts,
// and scores for dimensions outside the rubric are ignored. Rounded to one
// decimal; 0 when the rubric carries no weight.
func OverallScore(scores model.DimensionScores, rubric model.Rubric) float64 {
	total := rubric.TotalWeight()
	if total == 0 {
		return 0
	}

	weighted := 0.0
	for _, entry := range rubric {
		if s, ok := scores.Get(entry.Dimension); ok {
			weighted += s * float64(entry.Weight)
		}
	}
	return Round(weighted/float64(total), 1)
}

// Category maps an overall score to its label.
func Category(score float64) string {
	switch {
	case score >= 90:
		return CategoryExcellent
	case score >= 80:
		return CategoryGood
	case score >= 70:
		return CategorySatisfactory
	case score >= 60:
		return CategoryNeedsImprovement
	default:
		return CategoryPoor
	}
}

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
