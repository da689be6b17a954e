package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed default_rubric.yaml
var defaultRubric []byte

type RubricConfig struct {
	// Path to a YAML file replacing the embedded default rubric seed.
	Path string `env:"RUBRIC_PATH"`
}

type rubricFile struct {
	Dimensions []model.RubricEntry `yaml:"dimensions"`
}

// Defaults returns the rubric dimensions seeded on startup.
func (c RubricConfig) Defaults() ([]model.RubricEntry, error) {
	data := defaultRubric
	if c.Path != "" {
		b, err := os.ReadFile(c.Path)
		if err != nil {
			return nil, fmt.Errorf("reading rubric file: %w", err)
		}
		data = b
	}
	return ParseRubric(data)
}

// ParseRubric decodes and validates a rubric seed document.
func ParseRubric(data []byte) ([]model.RubricEntry, error) {
	var f rubricFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing rubric: %w", err)
	}
	if len(f.Dimensions) == 0 {
		return nil, fmt.Errorf("rubric has no dimensions")
	}

	seen := make(map[string]bool, len(f.Dimensions))
	for i := range f.Dimensions {
		d := &f.Dimensions[i]
		d.Dimension = strings.TrimSpace(d.Dimension)
		if d.Dimension == "" {
			return nil, fmt.Errorf("rubric entry %d: dimension is required", i)
		}
		if seen[d.Dimension] {
			return nil, fmt.Errorf("rubric entry %d: duplicate dimension %q", i, d.Dimension)
		}
		if d.Weight < 0 {
			return nil, fmt.Errorf("rubric entry %q: weight must be >= 0", d.Dimension)
		}
		seen[d.Dimension] = true
	}
	return f.Dimensions, nil
}
