// handlers/admin_routes.go
package handlers

import (
	"github.com/gofiber/fiber/v2"

	"fitness-tracker-system/middleware"
	"fitness-tracker-system/services"
)

func SetupAdminRoutes(app *fiber.App, admin *services.UserAdminService) {
	group := app.Group("/api/admin", middleware.UserContextMiddleware(), middleware.AdminOnly())

	group.Post("/users", func(c *fiber.Ctx) error {
		var body struct {
			Name string `json:"name"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		user, err := admin.AddUser(c.Context(), body.Name)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	group.Delete("/users/:username", func(c *fiber.Ctx) error {
		if err := admin.RemoveUser(c.Context(), c.Params("username")); err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"ok": true})
	})

	group.Post("/users/:username/reset", func(c *fiber.Ctx) error {
		user, err := admin.ResetUser(c.Context(), c.Params("username"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})

	group.Post("/users/:username/xp", func(c *fiber.Ctx) error {
		var body struct {
			Delta int64 `json:"delta"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		user, unlocked, err := admin.AdjustXP(c.Context(), c.Params("username"), body.Delta)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"user": user, "unlocked": unlocked})
	})

	group.Put("/users/:username/achievements", func(c *fiber.Ctx) error {
		var body struct {
			IDs []string `json:"ids"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		user, err := admin.SetAchievements(c.Context(), c.Params("username"), body.IDs)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})
}
