// handlers/data_routes.go
package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"fitness-tracker-system/middleware"
	"fitness-tracker-system/services"
)

func SetupDataRoutes(app *fiber.App, export *services.ExportService) {
	api := app.Group("/api", middleware.UserContextMiddleware())

	api.Get("/data/export", func(c *fiber.Ctx) error {
		data, unlocked, err := export.Export(c.Context(), middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		if len(unlocked) > 0 {
			c.Set("X-Unlocked-Achievements", fmt.Sprint(len(unlocked)))
		}
		c.Set("Content-Type", "application/json")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.ExportFilename()))
		return c.Send(data)
	})

	// Import wipes everything it does not contain; admin only and must be
	// explicitly confirmed.
	api.Post("/data/import", middleware.AdminOnly(), func(c *fiber.Ctx) error {
		if c.Query("confirm") != "true" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "import replaces all existing data; retry with ?confirm=true",
			})
		}
		unlocked, err := export.Import(c.Context(), c.Body(), middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"ok": true, "unlocked": unlocked})
	})
}
