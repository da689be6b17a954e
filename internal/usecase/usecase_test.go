package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/config"
	"github.com/fadilmartias/presentation-evaluator/internal/database"
	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/report"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/fadilmartias/presentation-evaluator/internal/service"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubEvaluator struct {
	outcome service.Outcome
	got     service.EvaluationRequest
}

func (s *stubEvaluator) Evaluate(_ context.Context, req service.EvaluationRequest) service.Outcome {
	s.got = req
	if s.outcome.Result.DimensionScores == nil {
		return service.FallbackOutcome(req.Rubric, &service.EvaluationError{Op: "stub", Err: errors.New("no reply")})
	}
	return s.outcome
}

type failingRenderer struct{}

func (failingRenderer) Render(string, report.Input) error { return errors.New("disk full") }

type recordingRenderer struct {
	got report.Input
}

func (r *recordingRenderer) Render(path string, in report.Input) error {
	r.got = in
	return report.Renderer{}.Render(path, in)
}

type fixture struct {
	db        *gorm.DB
	uc        *EvaluationUsecase
	evaluator *stubEvaluator
	dir       string
}

func newFixture(t *testing.T, renderer ReportRendererInterface) *fixture {
	t.Helper()
	dir := t.TempDir()
	db, err := database.Connect(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(dir, "test.db"),
	}, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	rubricRepo := repository.NewRubricRepository(db)
	entries, err := config.RubricConfig{}.Defaults()
	require.NoError(t, err)
	require.NoError(t, rubricRepo.Seed(context.Background(), entries))

	if renderer == nil {
		renderer = report.Renderer{}
	}
	evaluator := &stubEvaluator{}
	uc := NewEvaluationUsecase(
		repository.NewEvaluationRepository(db),
		rubricRepo,
		evaluator,
		renderer,
		nil,
		EvaluationUsecaseConfig{UploadDir: filepath.Join(dir, "uploads"), Provider: "stub"},
	)
	uc.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 123456000, time.UTC) }
	return &fixture{db: db, uc: uc, evaluator: evaluator, dir: dir}
}

func input(jsonBody string) EvaluateInput {
	return EvaluateInput{
		Structured:   &Upload{Filename: "brief.json", Content: strings.NewReader(jsonBody)},
		Presentation: &Upload{Filename: "my deck.pdf", Content: strings.NewReader("not really a pdf")},
	}
}

func countRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Evaluation{}).Count(&n).Error)
	return n
}

func TestEvaluateStoresEvaluation(t *testing.T) {
	f := newFixture(t, nil)
	f.evaluator.outcome = service.Outcome{
		Result: model.EvaluationResult{
			DimensionScores: model.DimensionScores{
				{Dimension: "content_accuracy", Score: 90},
				{Dimension: "system_understanding", Score: 80},
				{Dimension: "user_input_quality", Score: 70},
				{Dimension: "content_structure", Score: 80},
				{Dimension: "design_quality", Score: 90},
				{Dimension: "instruction_adherence", Score: 100},
			},
			Strengths:         []string{"Clear"},
			Improvements:      []string{"Shorter"},
			OverallAssessment: "Nice.",
		},
		Usage: service.Usage{InputTokens: 1200, OutputTokens: 400, CostUSD: 0.0096},
	}

	out, err := f.uc.Evaluate(context.Background(), input(`{"user_attachment":"Q3 plan","type":"pitch","language":"English"}`))
	require.NoError(t, err)

	e := out.Evaluation
	require.NotZero(t, e.ID)
	assert.False(t, out.Fallback)
	// (2250 + 1600 + 1050 + 1200 + 1350 + 1000) / 100
	assert.Equal(t, 84.5, e.OverallScore)
	assert.Equal(t, "Good", e.ScoreCategory)
	assert.Equal(t, "Q3 plan", e.UserOutline)
	assert.Equal(t, "Type: pitch, Language: English", e.UserPreferences)
	assert.Equal(t, "pitch", e.DocType)
	assert.Equal(t, int64(1200), e.InputTokens)
	assert.Equal(t, 0.0096, e.CostUSD)
	assert.JSONEq(t, `{"user_attachment":"Q3 plan","type":"pitch","language":"English"}`, string(e.JSONData))
	assert.True(t, strings.HasPrefix(string(e.ScoresJSON), `{"content_accuracy":90,"system_understanding":80`))

	uploads := filepath.Join(f.dir, "uploads")
	assert.Equal(t, filepath.Join(uploads, "20260506_070809_123456_my_deck.pdf"), e.PresentationLink)
	assert.FileExists(t, filepath.Join(uploads, "20260506_070809_123456_brief.json"))
	assert.Equal(t, filepath.Join(uploads, "report_20260506_070809_123456.pdf"), e.ReportPath)
	assert.FileExists(t, e.ReportPath)

	assert.True(t, strings.HasPrefix(f.evaluator.got.DocumentText, "Error extracting PDF text: "))
	assert.Len(t, f.evaluator.got.Rubric, 6)

	path, err := f.uc.ReportPath(context.Background(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.ReportPath, path)

	stored, err := repository.NewEvaluationRepository(f.db).FindByID(context.Background(), e.ID)
	require.NoError(t, err)
	var scores model.DimensionScores
	require.NoError(t, json.Unmarshal(stored.ScoresJSON, &scores))
	assert.Equal(t, out.Result.DimensionScores, scores)
	assert.Equal(t, 84.5, stored.OverallScore)
}

func TestEvaluateReportShowsUploadedName(t *testing.T) {
	renderer := &recordingRenderer{}
	f := newFixture(t, renderer)

	_, err := f.uc.Evaluate(context.Background(), input(`{}`))
	require.NoError(t, err)
	assert.Equal(t, "my deck.pdf", renderer.got.SourceFilename)
}

func TestEvaluateSameUploadNames(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.uc.Evaluate(context.Background(), EvaluateInput{
		Structured:   &Upload{Filename: "deck", Content: strings.NewReader(`{"type":"x"}`)},
		Presentation: &Upload{Filename: "deck", Content: strings.NewReader("%PDF-garbage")},
	})
	require.NoError(t, err)

	uploads := filepath.Join(f.dir, "uploads")
	assert.Equal(t, filepath.Join(uploads, "20260506_070809_123456_deck_1"), out.Evaluation.PresentationLink)
	b, err := os.ReadFile(filepath.Join(uploads, "20260506_070809_123456_deck"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"x"}`, string(b))
	b, err = os.ReadFile(out.Evaluation.PresentationLink)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-garbage", string(b))
	assert.Equal(t, "x", out.Evaluation.DocType)
}

func TestEvaluateFallback(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.uc.Evaluate(context.Background(), input(`[{"type":"deck"}]`))
	require.NoError(t, err)

	assert.True(t, out.Fallback)
	assert.Equal(t, 75.0, out.Evaluation.OverallScore)
	assert.Equal(t, "Satisfactory", out.Evaluation.ScoreCategory)
	assert.Zero(t, out.Evaluation.CostUSD)
	assert.Zero(t, out.Evaluation.InputTokens)
	assert.Equal(t, "deck", out.Evaluation.DocType)
}

func TestEvaluateMissingInput(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Evaluate(context.Background(), EvaluateInput{
		Structured: &Upload{Filename: "a.json", Content: strings.NewReader("{}")},
	})
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Zero(t, countRows(t, f.db))
}

func TestEvaluateMalformedJSON(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.uc.Evaluate(context.Background(), input(`{"type":`))
	var perr *util.ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "brief.json", perr.Path)
	assert.NotContains(t, err.Error(), f.dir)
	assert.Zero(t, countRows(t, f.db))
}

func TestEvaluateReportFailureStoresNothing(t *testing.T) {
	f := newFixture(t, failingRenderer{})

	_, err := f.uc.Evaluate(context.Background(), input(`{}`))
	assert.ErrorContains(t, err, "disk full")
	assert.Zero(t, countRows(t, f.db))
}

func TestEvaluateInsertFailureRemovesReport(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.db.Migrator().DropTable(&model.Evaluation{}))

	_, err := f.uc.Evaluate(context.Background(), input(`{}`))
	require.Error(t, err)
	assert.NoFileExists(t, filepath.Join(f.dir, "uploads", "report_20260506_070809_123456.pdf"))
}

func TestReportPathMissingFile(t *testing.T) {
	f := newFixture(t, nil)
	out, err := f.uc.Evaluate(context.Background(), input(`{}`))
	require.NoError(t, err)
	require.NoError(t, os.Remove(out.Evaluation.ReportPath))

	_, err = f.uc.ReportPath(context.Background(), out.Evaluation.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	_, err = f.uc.ReportPath(context.Background(), 999)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 7000, time.UTC)
	assert.Equal(t, "20260102_030405_000007", timestamp(ts))
}

func intPtr(v int) *int { return &v }
func strPtr(v string) *string { return &v }

func TestRubricUpdate(t *testing.T) {
	f := newFixture(t, nil)
	uc := NewRubricUsecase(repository.NewRubricRepository(f.db))
	ctx := context.Background()

	err := uc.Update(ctx, map[string]dto.RubricUpdate{
		"design_quality": {Weight: intPtr(30), Description: strPtr("Visual polish")},
		"unknown":        {Weight: intPtr(5), Description: strPtr("ignored")},
	})
	require.NoError(t, err)

	rubric, err := uc.Get(ctx)
	require.NoError(t, err)
	require.Len(t, rubric, 6)
	assert.Equal(t, "design_quality", rubric[0].Dimension)
	assert.Equal(t, "Visual polish", rubric[0].Description)
	_, ok := rubric.Lookup("unknown")
	assert.False(t, ok)
}

func TestRubricUpdateValidation(t *testing.T) {
	f := newFixture(t, nil)
	uc := NewRubricUsecase(repository.NewRubricRepository(f.db))
	ctx := context.Background()

	tests := map[string]dto.RubricUpdate{
		"missing weight":      {Description: strPtr("x")},
		"missing description": {Weight: intPtr(1)},
		"negative weight":     {Weight: intPtr(-1), Description: strPtr("x")},
	}
	for name, u := range tests {
		t.Run(name, func(t *testing.T) {
			err := uc.Update(ctx, map[string]dto.RubricUpdate{"design_quality": u})
			assert.ErrorIs(t, err, ErrInvalidRubric)
		})
	}

	rubric, err := uc.Get(ctx)
	require.NoError(t, err)
	entry, _ := rubric.Lookup("design_quality")
	assert.Equal(t, 15, entry.Weight)
}
