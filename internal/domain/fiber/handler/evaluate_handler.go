package handler

import (
	"errors"
	"mime/multipart"
	"time"

	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/middleware"
	"github.com/fadilmartias/presentation-evaluator/internal/repository"
	"github.com/fadilmartias/presentation-evaluator/internal/usecase"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
	"github.com/gofiber/fiber/v2"
)

const missingFilesMessage = "Both JSON and PDF files required"

type EvaluateHandler struct {
	uc            *usecase.EvaluationUsecase
	evaluateLimit int
}

func NewEvaluateHandler(uc *usecase.EvaluationUsecase, evaluateLimit int) *EvaluateHandler {
	return &EvaluateHandler{uc: uc, evaluateLimit: evaluateLimit}
}

func (h *EvaluateHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/evaluations", h.List)
	api.Post("/evaluate", middleware.RateLimiter(h.evaluateLimit, 1*time.Minute), h.Evaluate)
	api.Get("/report/:id", h.Report)
	api.Get("/stats", h.Stats)
}

func (h *EvaluateHandler) List(c *fiber.Ctx) error {
	evaluations, err := h.uc.List(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.JSON(evaluations)
}

func (h *EvaluateHandler) Evaluate(c *fiber.Ctx) error {
	jsonFile, jsonErr := c.FormFile("json_file")
	pdfFile, pdfErr := c.FormFile("pdf_file")
	if jsonErr != nil || pdfErr != nil || jsonFile.Filename == "" || pdfFile.Filename == "" {
		return util.ErrorResponse(c, fiber.StatusBadRequest, missingFilesMessage)
	}

	structured, err := openUpload(jsonFile)
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	defer structured.Content.(multipart.File).Close()

	presentation, err := openUpload(pdfFile)
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	defer presentation.Content.(multipart.File).Close()

	out, err := h.uc.Evaluate(c.UserContext(), usecase.EvaluateInput{
		Structured:   structured,
		Presentation: presentation,
	})
	if errors.Is(err, usecase.ErrMissingInput) {
		return util.ErrorResponse(c, fiber.StatusBadRequest, missingFilesMessage)
	}
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}

	return c.JSON(dto.EvaluateResponse{
		Status:          "success",
		EvaluationID:    out.Evaluation.ID,
		OverallScore:    out.Evaluation.OverallScore,
		ScoreCategory:   out.Evaluation.ScoreCategory,
		CostUSD:         out.Evaluation.CostUSD,
		DimensionScores: out.Result.DimensionScores,
	})
}

func (h *EvaluateHandler) Report(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return util.ErrorResponse(c, fiber.StatusNotFound, "Report not found")
	}

	path, err := h.uc.ReportPath(c.UserContext(), uint(id))
	if errors.Is(err, repository.ErrNotFound) {
		return util.ErrorResponse(c, fiber.StatusNotFound, "Report not found")
	}
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.Download(path)
}

func (h *EvaluateHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.JSON(stats)
}

func openUpload(fh *multipart.FileHeader) (*usecase.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &usecase.Upload{Filename: fh.Filename, Content: f}, nil
}
