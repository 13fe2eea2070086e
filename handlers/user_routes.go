// handlers/user_routes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fitness-tracker-system/middleware"
	"fitness-tracker-system/models"
	"fitness-tracker-system/services"
)

func SetupUserRoutes(app *fiber.App, board *services.ScoreboardService, sse *services.SSENotifier) {
	api := app.Group("/api", middleware.UserContextMiddleware())

	api.Get("/roster", func(c *fiber.Ctx) error {
		return c.JSON(board.Roster())
	})

	api.Get("/progress", func(c *fiber.Ctx) error {
		card, err := board.Progress(middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(card)
	})

	api.Get("/scoreboard", func(c *fiber.Ctx) error {
		return c.JSON(board.Weekly(c.Context()))
	})

	api.Post("/snoop/:username", func(c *fiber.Ctx) error {
		view, err := board.Snoop(c.Context(), middleware.Username(c), c.Params("username"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(view)
	})

	api.Get("/achievements", func(c *fiber.Ctx) error {
		type row struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			Description string `json:"description"`
		}
		rows := make([]row, len(models.AchievementList))
		for i, a := range models.AchievementList {
			rows[i] = row{ID: a.ID, Name: a.Name, Description: a.Description}
		}
		return c.JSON(rows)
	})

	// Event stream sits outside /api: EventSource cannot set headers.
	if sse != nil {
		app.Get("/events", sse.StreamSSE)
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
