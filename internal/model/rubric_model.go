package model

import (
	"bytes"
	"encoding/json"
)

type RubricEntry struct {
	ID          uint   `gorm:"primaryKey" json:"-" yaml:"-"`
	Dimension   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"dimension" yaml:"dimension"`
	Weight      int    `gorm:"not null;default:0" json:"weight" yaml:"weight"`
	Description string `gorm:"type:text" json:"description" yaml:"description"`
}

func (RubricEntry) TableName() string {
	return "rubric"
}

// RubricPatch is the new weight and description for an existing dimension.
type RubricPatch struct {
	Weight      int
	Description string
}

// Rubric is the full set of dimensions, ordered by descending weight.
type Rubric []RubricEntry

func (r Rubric) TotalWeight() int {
	total := 0
	for _, e := range r {
		total += e.Weight
	}
	return total
}

func (r Rubric) Lookup(dimension string) (RubricEntry, bool) {
	for _, e := range r {
		if e.Dimension == dimension {
			return e, true
		}
	}
	return RubricEntry{}, false
}

func (r Rubric) Dimensions() []string {
	dims := make([]string, 0, len(r))
	for _, e := range r {
		dims = append(dims, e.Dimension)
	}
	return dims
}

type rubricValue struct {
	Weight      int    `json:"weight"`
	Description string `json:"description"`
}

// MarshalJSON encodes the rubric as {dimension: {weight, description}} keeping
// the descending weight order.
func (r Rubric) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Dimension)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(rubricValue{Weight: e.Weight, Description: e.Description})
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
