package middleware

import (
	"context"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/fadilmartias/presentation-evaluator/internal/metrics"
	"github.com/gofiber/fiber/v2"
)

// RequestLogger puts a request scoped logger into the user context and logs
// one line per request once the handler chain returns. It expects the
// requestid middleware to run first.
func RequestLogger(base context.Context, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		log := clog.FromContext(base).With(
			"request_id", c.GetRespHeader(fiber.HeaderXRequestID),
			"method", c.Method(),
			"path", c.Path(),
		)
		c.SetUserContext(clog.WithLogger(c.UserContext(), log))

		chainErr := c.Next()
		if chainErr != nil {
			// let the app error handler write the response so the status is final
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		log.With("status", status, "duration_ms", elapsed.Milliseconds()).
			Infof("%s %s", c.Method(), c.Path())

		if m != nil {
			route := c.Route().Path
			m.ObserveRequest(c.Method(), route, status, elapsed)
		}
		return nil
	}
}
