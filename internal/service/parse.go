package service

import (
	"fmt"
	"strings"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/tidwall/gjson"
)

const maxListItems = 3

// InvalidEvaluationResponseError is a judge reply that does not have the
// expected shape.
type InvalidEvaluationResponseError struct {
	Field  string
	Reason string
}

func (e *InvalidEvaluationResponseError) Error() string {
	if e.Field == "" {
		return "invalid evaluation response: " + e.Reason
	}
	return fmt.Sprintf("invalid evaluation response: %s %s", e.Field, e.Reason)
}

func invalid(field, reason string) error {
	return &InvalidEvaluationResponseError{Field: field, Reason: reason}
}

// ParseEvaluation validates a judge reply and converts it to a result.
// Markdown fences and text around the JSON object are tolerated. Scores are
// clamped to 0-100, dimensions outside the rubric are dropped and lists are
// cut to three items. Missing dimensions stay missing.
func ParseEvaluation(text string, rubric model.Rubric) (model.EvaluationResult, error) {
	body := extractJSONObject(text)
	if body == "" || !gjson.Valid(body) {
		return model.EvaluationResult{}, invalid("", "is not a JSON object")
	}
	doc := gjson.Parse(body)
	if !doc.IsObject() {
		return model.EvaluationResult{}, invalid("", "is not a JSON object")
	}

	known := func(dimension string) bool {
		_, ok := rubric.Lookup(dimension)
		return ok
	}

	var result model.EvaluationResult

	scores, err := requireObject(doc, "dimension_scores")
	if err != nil {
		return result, err
	}
	result.DimensionScores = model.DimensionScores{}
	scores.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = invalid("dimension_scores."+key.String(), "must be a number")
			return false
		}
		if known(key.String()) {
			result.DimensionScores.Set(key.String(), clamp(value.Float(), 0, 100))
		}
		return true
	})
	if err != nil {
		return result, err
	}

	justifications, err := requireObject(doc, "justifications")
	if err != nil {
		return result, err
	}
	result.Justifications = map[string]string{}
	justifications.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = invalid("justifications."+key.String(), "must be a string")
			return false
		}
		if known(key.String()) {
			result.Justifications[key.String()] = value.String()
		}
		return true
	})
	if err != nil {
		return result, err
	}

	if result.Strengths, err = requireStrings(doc, "strengths"); err != nil {
		return result, err
	}
	if result.Improvements, err = requireStrings(doc, "improvements"); err != nil {
		return result, err
	}

	assessment := doc.Get("overall_assessment")
	if !assessment.Exists() {
		return result, invalid("overall_assessment", "is missing")
	}
	if assessment.Type != gjson.String {
		return result, invalid("overall_assessment", "must be a string")
	}
	result.OverallAssessment = assessment.String()

	return result, nil
}

func requireObject(doc gjson.Result, field string) (gjson.Result, error) {
	v := doc.Get(field)
	if !v.Exists() {
		return v, invalid(field, "is missing")
	}
	if !v.IsObject() {
		return v, invalid(field, "must be an object")
	}
	return v, nil
}

func requireStrings(doc gjson.Result, field string) ([]string, error) {
	v := doc.Get(field)
	if !v.Exists() {
		return nil, invalid(field, "is missing")
	}
	if !v.IsArray() {
		return nil, invalid(field, "must be an array")
	}

	items := []string{}
	for i, item := range v.Array() {
		if item.Type != gjson.String {
			return nil, invalid(fmt.Sprintf("%s[%d]", field, i), "must be a string")
		}
		if len(items) < maxListItems {
			items = append(items, item.String())
		}
	}
	return items, nil
}

// extractJSONObject strips markdown fences and any prose around the outermost
// JSON object.
func extractJSONObject(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
		text = strings.TrimSpace(text)
	}
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
