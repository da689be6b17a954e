package handler

import (
	"github.com/fadilmartias/presentation-evaluator/web"
	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct{}

func (DashboardHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(web.IndexHTML)
	})
}
