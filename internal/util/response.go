package util

import (
	"errors"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/dto"
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse writes {"error": message} with the given status. The first
// non-nil error, if any, is logged with the request's logger.
func ErrorResponse(c *fiber.Ctx, code int, message string, errs ...error) error {
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	for _, err := range errs {
		if err == nil {
			continue
		}
		log := clog.FromContext(c.UserContext()).With("status", code)
		if code >= fiber.StatusInternalServerError {
			log.Errorf("%s: %v", message, err)
		} else {
			log.Infof("%s: %v", message, err)
		}
		break
	}
	return c.Status(code).JSON(dto.ErrorResponse{Error: message})
}

// FiberErrorHandler renders errors that escape the handlers, fiber's own
// 404/405/413 included.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	message := err.Error()
	if message == "" {
		message = "Internal Server Error"
	}
	if code >= fiber.StatusInternalServerError {
		return ErrorResponse(c, code, message, err)
	}
	return ErrorResponse(c, code, message)
}
