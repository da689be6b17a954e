package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"
)

// EvaluationResult is the judgment for one presentation. It is folded into the
// stored Evaluation and the PDF report and is not persisted on its own.
type EvaluationResult struct {
	DimensionScores   DimensionScores   `json:"dimension_scores"`
	Justifications    map[string]string `json:"justifications"`
	Strengths         []string          `json:"strengths"`
	Improvements      []string          `json:"improvements"`
	OverallAssessment string            `json:"overall_assessment"`
}

type DimensionScore struct {
	Dimension string
	Score     float64
}

// DimensionScores maps dimension to score and remembers the order the
// dimensions were produced in. It encodes as a JSON object.
type DimensionScores []DimensionScore

func (s DimensionScores) Get(dimension string) (float64, bool) {
	for _, d := range s {
		if d.Dimension == dimension {
			return d.Score, true
		}
	}
	return 0, false
}

// Set replaces an existing score or appends a new one.
func (s *DimensionScores) Set(dimension string, score float64) {
	for i := range *s {
		if (*s)[i].Dimension == dimension {
			(*s)[i].Score = score
			return
		}
	}
	*s = append(*s, DimensionScore{Dimension: dimension, Score: score})
}

func (s DimensionScores) Map() map[string]float64 {
	m := make(map[string]float64, len(s))
	for _, d := range s {
		m[d.Dimension] = d.Score
	}
	return m
}

func (s DimensionScores) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(d.Dimension)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(d.Score, 'f', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (s *DimensionScores) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("dimension scores: invalid JSON")
	}
	doc := gjson.ParseBytes(data)
	if doc.Type == gjson.Null {
		*s = nil
		return nil
	}
	if !doc.IsObject() {
		return fmt.Errorf("dimension scores: expected an object")
	}

	scores := DimensionScores{}
	var err error
	doc.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.Number {
			err = fmt.Errorf("dimension scores: %q is not a number", key.String())
			return false
		}
		scores.Set(key.String(), value.Float())
		return true
	})
	if err != nil {
		return err
	}
	*s = scores
	return nil
}
