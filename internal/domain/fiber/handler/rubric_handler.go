package handler

import (
	"encoding/json"
	"errors"

	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/fadilmartias/presentation-evaluator/internal/usecase"
	"github.com/fadilmartias/presentation-evaluator/internal/util"
	"github.com/gofiber/fiber/v2"
)

type RubricHandler struct {
	uc *usecase.RubricUsecase
}

func NewRubricHandler(uc *usecase.RubricUsecase) *RubricHandler {
	return &RubricHandler{uc: uc}
}

func (h *RubricHandler) RegisterRoutes(app *fiber.App) {
	api := app.Group("/api")
	api.Get("/rubric", h.Get)
	api.Post("/rubric", h.Update)
}

func (h *RubricHandler) Get(c *fiber.Ctx) error {
	rubric, err := h.uc.Get(c.UserContext())
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.JSON(rubric)
}

// Update expects {"dimension": {"weight": n, "description": "..."}, ...}.
func (h *RubricHandler) Update(c *fiber.Ctx) error {
	var updates map[string]dto.RubricUpdate
	if err := json.Unmarshal(c.Body(), &updates); err != nil || updates == nil {
		return util.ErrorResponse(c, fiber.StatusBadRequest, "Invalid rubric payload", err)
	}

	err := h.uc.Update(c.UserContext(), updates)
	if errors.Is(err, usecase.ErrInvalidRubric) {
		return util.ErrorResponse(c, fiber.StatusBadRequest, err.Error())
	}
	if err != nil {
		return util.ErrorResponse(c, fiber.StatusInternalServerError, err.Error(), err)
	}
	return c.JSON(dto.StatusResponse{Status: "success"})
}
