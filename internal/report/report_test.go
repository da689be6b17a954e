package report

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/gen2brain/go-fitz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullInput() Input {
	return Input{
		SourceFilename: "20260102_030405_000001_deck.pdf",
		GeneratedAt:    time.Date(2026, 3, 7, 12, 0, 0, 0, time.UTC),
		OverallScore:   82.5,
		Category:       "Good",
		CostUSD:        0.01234,
		Result: model.EvaluationResult{
			DimensionScores: model.DimensionScores{
				{Dimension: "design_quality", Score: 70},
				{Dimension: "content_accuracy", Score: 90},
			},
			Justifications: map[string]string{
				"content_accuracy": "Facts check out.",
			},
			Strengths:         []string{"Clear narrative"},
			Improvements:      []string{"Add sources"},
			OverallAssessment: "A solid deck overall.",
		},
	}
}

func readPDF(t *testing.T, path string) (pages int, text string) {
	t.Helper()
	doc, err := fitz.New(path)
	require.NoError(t, err)
	defer doc.Close()

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		s, err := doc.Text(n)
		require.NoError(t, err)
		sb.WriteString(s)
	}
	return doc.NumPage(), sb.String()
}

func TestRenderFullReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, Renderer{}.Render(path, fullInput()))

	pages, text := readPDF(t, path)
	assert.Equal(t, 4, pages)
	for _, want := range []string{
		"Presentation Evaluation Report",
		"20260102_030405_000001_deck.pdf",
		"March 07, 2026",
		"82.5/100",
		"Good",
		"$0.0123",
		"Evaluation Scores by Dimension",
		"Design Quality",
		"70/100",
		"Content Accuracy",
		"Facts check out.",
		"Key Strengths",
		"Clear narrative",
		"Areas for Improvement",
		"Add sources",
		"Overall Assessment",
		"A solid deck overall.",
	} {
		assert.Contains(t, text, want)
	}
	assert.Less(t, strings.Index(text, "Design Quality"), strings.Index(text, "Content Accuracy"))
}

func TestRenderToleratesMissingSections(t *testing.T) {
	in := fullInput()
	in.Result = model.EvaluationResult{
		DimensionScores: model.DimensionScores{{Dimension: "design_quality", Score: 60}},
	}

	path := filepath.Join(t.TempDir(), "report.pdf")
	require.NoError(t, Renderer{}.Render(path, in))

	pages, text := readPDF(t, path)
	assert.Equal(t, 2, pages)
	assert.Contains(t, text, "Design Quality")
	assert.NotContains(t, text, "Key Strengths")
	assert.NotContains(t, text, "Overall Assessment")
}

func TestRenderBadPath(t *testing.T) {
	err := Renderer{}.Render(filepath.Join(t.TempDir(), "missing", "report.pdf"), fullInput())
	assert.Error(t, err)
}

func TestDimensionLabel(t *testing.T) {
	assert.Equal(t, "Content Accuracy", DimensionLabel("content_accuracy"))
	assert.Equal(t, "Instruction Adherence", DimensionLabel("instruction_adherence"))
	assert.Equal(t, "Clarity", DimensionLabel("clarity"))
}
