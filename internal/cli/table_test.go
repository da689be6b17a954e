package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/database"
	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	entries, err := config.RubricConfig{}.Defaults()
	require.NoError(t, err)
	require.NoError(t, repository.NewRubricRepository(db).Seed(context.Background(), entries))
	return db
}

func TestRunList(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, repository.NewEvaluationRepository(db).Create(context.Background(), &model.Evaluation{
		OverallScore:  84.5,
		ScoreCategory: "Good",
		DocType:       "pitch",
		CostUSD:       0.0096,
		InputTokens:   1200,
		OutputTokens:  400,
		CreatedAt:     time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC),
	}))

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), db, "list", &out))

	s := out.String()
	for _, want := range []string{"Category", "pitch", "84.5", "Good", "$0.0096", "1200/400"} {
		assert.Contains(t, s, want)
	}
}

func TestRunRubric(t *testing.T) {
	db := openTestDB(t)

	var out bytes.Buffer
	require.NoError(t, Run(context.Background(), db, "rubric", &out))

	s := out.String()
	assert.Contains(t, s, "Dimension")
	assert.Contains(t, s, "Data extraction and representation accuracy")
	assert.Contains(t, s, "100")
	assert.Less(t, strings.Index(s, "content_accuracy"), strings.Index(s, "instruction_adherence"))
}

func TestRunUnknownCommand(t *testing.T) {
	db := openTestDB(t)
	assert.ErrorContains(t, Run(context.Background(), db, "purge", &bytes.Buffer{}), `unknown command "purge"`)
}

func TestWriteStatsOrdersCategories(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteStats(&out, dto.Stats{
		TotalEvaluations: 3,
		TotalCostUSD:     0.02,
		AverageScore:     71.7,
		CategoryDistribution: map[string]int64{
			"Poor":   1,
			"Good":   2,
			"Legacy": 4,
		},
	}))

	s := out.String()
	assert.Contains(t, s, "Total evaluations")
	assert.Contains(t, s, "$0.02")
	assert.Contains(t, s, "71.7")
	good := strings.Index(s, "Good")
	poor := strings.Index(s, "Poor")
	legacy := strings.Index(s, "Legacy")
	require.NotEqual(t, -1, good)
	assert.Less(t, good, poor)
	assert.Less(t, poor, legacy)
}
