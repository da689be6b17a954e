package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.App.ListenAddr())
	assert.Equal(t, 50*1024*1024, cfg.App.BodyLimit())
	assert.False(t, cfg.App.IsProduction())
	assert.Equal(t, DriverSQLite, cfg.DB.Driver)
	assert.Equal(t, "evaluations.db", cfg.DB.Path)
	assert.Equal(t, ProviderAnthropic, cfg.LLM.Provider)
	assert.Equal(t, "claude-sonnet-4-20250514", cfg.LLM.ModelName())
	assert.Equal(t, 0.003, cfg.LLM.PriceInputPer1K)
	assert.Equal(t, 0.015, cfg.LLM.PriceOutputPer1K)
	assert.Equal(t, 3000, cfg.LLM.JSONTruncateChars)
	assert.Equal(t, 2000, cfg.LLM.TextTruncateChars)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "uploads", cfg.Storage.UploadDir)
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"APP_ENV":                 "production",
		"APP_PORT":                "0.0.0.0:8080",
		"LOG_LEVEL":               "debug",
		"LLM_PROVIDER":            "openrouter",
		"OPENROUTER_API_KEY":      "or-key",
		"LLM_PRICE_INPUT_PER_1K":  "0.001",
		"LLM_PRICE_OUTPUT_PER_1K": "0.002",
		"LLM_JSON_TRUNCATE_CHARS": "100",
		"LLM_TIMEOUT":             "5s",
	}))
	require.NoError(t, err)

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "0.0.0.0:8080", cfg.App.ListenAddr())
	assert.Equal(t, slog.LevelDebug, cfg.App.SlogLevel())
	assert.Equal(t, "openai/gpt-4o-mini", cfg.LLM.ModelName())
	assert.Equal(t, "or-key", cfg.LLM.APIKey())
	assert.Equal(t, 0.001, cfg.LLM.PriceInputPer1K)
	assert.Equal(t, 0.002, cfg.LLM.PriceOutputPer1K)
	assert.Equal(t, 100, cfg.LLM.JSONTruncateChars)
	assert.Equal(t, 5*time.Second, cfg.LLM.Timeout)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown provider", env: map[string]string{"LLM_PROVIDER": "mystery"}},
		{name: "unknown driver", env: map[string]string{"DB_DRIVER": "mysql"}},
		{name: "negative price", env: map[string]string{"LLM_PRICE_INPUT_PER_1K": "-1"}},
		{name: "zero truncation", env: map[string]string{"LLM_TEXT_TRUNCATE_CHARS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWith(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestDefaultRubric(t *testing.T) {
	entries, err := RubricConfig{}.Defaults()
	require.NoError(t, err)
	require.Len(t, entries, 6)

	total := 0
	for _, e := range entries {
		total += e.Weight
		assert.NotEmpty(t, e.Description)
	}
	assert.Equal(t, 100, total)
	assert.Equal(t, "user_input_quality", entries[0].Dimension)
}

func TestRubricFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rubric.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
dimensions:
  - dimension: clarity
    weight: 60
    description: Clear message
  - dimension: visuals
    weight: 40
    description: Slide design
`), 0o644))

	entries, err := RubricConfig{Path: path}.Defaults()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "clarity", entries[0].Dimension)
	assert.Equal(t, 40, entries[1].Weight)
}

func TestParseRubricValidation(t *testing.T) {
	_, err := ParseRubric([]byte("dimensions: []"))
	assert.Error(t, err)

	_, err = ParseRubric([]byte(`
dimensions:
  - dimension: a
    weight: 1
  - dimension: a
    weight: 2
`))
	assert.ErrorContains(t, err, "duplicate")

	_, err = ParseRubric([]byte(`
dimensions:
  - dimension: a
    weight: -1
`))
	assert.ErrorContains(t, err, "weight")
}
