package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/metrics"
	"github.com/fadilmartias/presentation-evaluator/internal/model"
	"github.com/fadilmartias/presentation-evaluator/internal/report"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/fadilmartias/presentation-evaluator/internal/scoring"
	"github.com/fadilmartias/presentation-evaluator/internal/service"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
)

var ErrMissingInput = errors.New("json and pdf files are required")

type EvaluatorInterface interface {
	Evaluate(ctx context.Context, req service.EvaluationRequest) service.Outcome
}

type ReportRendererInterface interface {
	Render(path string, in report.Input) error
}

type Upload struct {
	Filename string
	Content  io.Reader
}

type EvaluateInput struct {
	Structured   *Upload
	Presentation *Upload
}

type EvaluateOutput struct {
	Evaluation *model.Evaluation
	Result     model.EvaluationResult
	Fallback   bool
}

type EvaluationUsecase struct {
	evaluationRepo *repository.EvaluationRepository
	rubricRepo     *repository.RubricRepository
	evaluator      EvaluatorInterface
	renderer       ReportRendererInterface
	pdf            util.PDFExtractor
	metrics        *metrics.Metrics
	provider       string
	uploadDir      string
	now            func() time.Time
}

type EvaluationUsecaseConfig struct {
	UploadDir   string
	OCRFallback bool
	Provider    string
}

func NewEvaluationUsecase(
	evaluationRepo *repository.EvaluationRepository,
	rubricRepo *repository.RubricRepository,
	evaluator EvaluatorInterface,
	renderer ReportRendererInterface,
	m *metrics.Metrics,
	cfg EvaluationUsecaseConfig,
) *EvaluationUsecase {
	return &EvaluationUsecase{
		evaluationRepo: evaluationRepo,
		rubricRepo:     rubricRepo,
		evaluator:      evaluator,
		renderer:       renderer,
		pdf:            util.PDFExtractor{OCRFallback: cfg.OCRFallback},
		metrics:        m,
		provider:       cfg.Provider,
		uploadDir:      cfg.UploadDir,
		now:            time.Now,
	}
}

// Evaluate runs the whole pipeline for one submission: store the uploads,
// extract, judge, score, render the report and insert the row. The report
// file is removed again when the insert fails.
func (uc *EvaluationUsecase) Evaluate(ctx context.Context, in EvaluateInput) (*EvaluateOutput, error) {
	if in.Structured == nil || in.Presentation == nil {
		return nil, ErrMissingInput
	}
	started := uc.now()
	log := clog.FromContext(ctx)

	if err := os.MkdirAll(uc.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}

	stamp := timestamp(started)
	jsonPath, pdfPath := uc.uploadPaths(stamp, in.Structured.Filename, in.Presentation.Filename)
	if err := save(jsonPath, in.Structured); err != nil {
		return nil, err
	}
	if err := save(pdfPath, in.Presentation); err != nil {
		return nil, err
	}

	structured, err := util.ExtractStructured(jsonPath)
	if err != nil {
		var perr *util.ParseError
		if errors.As(err, &perr) {
			log.Warnf("%v", err)
			// the stored path stays in the log, callers see the uploaded name
			perr.Path = in.Structured.Filename
		}
		return nil, err
	}
	text := uc.pdf.Text(ctx, pdfPath)

	rubric, err := uc.rubricRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading rubric: %w", err)
	}

	outcome := uc.evaluator.Evaluate(ctx, service.EvaluationRequest{
		Structured:   structured,
		DocumentText: text,
		Rubric:       rubric,
	})

	overall := scoring.OverallScore(outcome.Result.DimensionScores, rubric)
	category := scoring.Category(overall)
	summary := util.Summarize(structured)

	reportPath := filepath.Join(uc.uploadDir, "report_"+stamp+".pdf")
	err = uc.renderer.Render(reportPath, report.Input{
		SourceFilename: in.Presentation.Filename,
		GeneratedAt:    uc.now(),
		OverallScore:   overall,
		Category:       category,
		CostUSD:        outcome.Usage.CostUSD,
		Result:         outcome.Result,
	})
	if err != nil {
		return nil, fmt.Errorf("generating report: %w", err)
	}

	scores, err := json.Marshal(outcome.Result.DimensionScores)
	if err != nil {
		os.Remove(reportPath)
		return nil, fmt.Errorf("encoding scores: %w", err)
	}

	evaluation := &model.Evaluation{
		UserOutline:      summary.Outline,
		UserPreferences:  summary.Preferences,
		PresentationLink: pdfPath,
		OverallScore:     overall,
		ScoreCategory:    category,
		DocType:          summary.DocType,
		ReportPath:       reportPath,
		JSONData:         []byte(structured),
		CostUSD:          outcome.Usage.CostUSD,
		InputTokens:      outcome.Usage.InputTokens,
		OutputTokens:     outcome.Usage.OutputTokens,
		ScoresJSON:       scores,
	}
	if err := uc.evaluationRepo.Create(ctx, evaluation); err != nil {
		if rmErr := os.Remove(reportPath); rmErr != nil {
			log.Warnf("removing orphaned report %s: %v", reportPath, rmErr)
		}
		return nil, fmt.Errorf("saving evaluation: %w", err)
	}

	if uc.metrics != nil {
		uc.metrics.ObserveEvaluation(category, uc.provider, outcome.IsFallback(),
			outcome.Usage.InputTokens, outcome.Usage.OutputTokens, outcome.Usage.CostUSD, uc.now().Sub(started))
	}
	log.With("evaluation_id", evaluation.ID).
		Infof("evaluation stored: %.1f (%s), fallback=%t", overall, category, outcome.IsFallback())

	return &EvaluateOutput{
		Evaluation: evaluation,
		Result:     outcome.Result,
		Fallback:   outcome.IsFallback(),
	}, nil
}

func (uc *EvaluationUsecase) List(ctx context.Context) ([]dto.EvaluationSummary, error) {
	return uc.evaluationRepo.List(ctx)
}

// ReportPath returns the report file of an evaluation. A missing row and a
// missing file are both repository.ErrNotFound.
func (uc *EvaluationUsecase) ReportPath(ctx context.Context, id uint) (string, error) {
	path, err := uc.evaluationRepo.FindReportPath(ctx, id)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", repository.ErrNotFound
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return path, nil
}

func (uc *EvaluationUsecase) Stats(ctx context.Context) (dto.Stats, error) {
	return uc.evaluationRepo.Stats(ctx)
}

// uploadPaths names both stored uploads of one submission. When the two
// names sanitize to the same file the presentation gets a "_1" suffix.
func (uc *EvaluationUsecase) uploadPaths(stamp, jsonName, pdfName string) (string, string) {
	jsonFile := stamp + "_" + util.SecureFilename(jsonName)
	pdfFile := stamp + "_" + util.SecureFilename(pdfName)
	if pdfFile == jsonFile {
		ext := filepath.Ext(pdfFile)
		pdfFile = strings.TrimSuffix(pdfFile, ext) + "_1" + ext
	}
	return filepath.Join(uc.uploadDir, jsonFile), filepath.Join(uc.uploadDir, pdfFile)
}

func save(path string, u *Upload) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot save %s: %w", u.Filename, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, u.Content); err != nil {
		return fmt.Errorf("cannot save %s: %w", u.Filename, err)
	}
	return f.Close()
}

// timestamp is the shared prefix of the uploads and the report of one
// submission. Microseconds keep concurrent submissions apart.
func timestamp(t time.Time) string {
	return fmt.Sprintf("%s_%06d", t.Format("20060102_150405"), t.Nanosecond()/1000)
}
