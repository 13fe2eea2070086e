// handlers/session_routes.go
package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"fitness-tracker-system/middleware"
	"fitness-tracker-system/models"
	"fitness-tracker-system/services"
)

func SetupSessionRoutes(app *fiber.App, sessions *services.SessionService) {
	api := app.Group("/api", middleware.UserContextMiddleware())

	api.Post("/session/login", func(c *fiber.Ctx) error {
		result, err := sessions.Login(c.Context(), middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})

	api.Post("/session/logout", func(c *fiber.Ctx) error {
		sessions.Logout(middleware.Username(c))
		return c.JSON(fiber.Map{"ok": true})
	})

	api.Post("/session/activity", func(c *fiber.Ctx) error {
		var activity models.Activity
		if err := c.BodyParser(&activity); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid activity payload"})
		}
		scored, err := sessions.AddActivity(c.Context(), middleware.Username(c), activity)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(scored)
	})

	api.Get("/session/pending", func(c *fiber.Ctx) error {
		return c.JSON(sessions.PendingActivities(middleware.Username(c)))
	})

	api.Post("/session/complete", func(c *fiber.Ctx) error {
		result, err := sessions.CompleteSession(c.Context(), middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(result)
	})

	api.Get("/log", func(c *fiber.Ctx) error {
		entries, err := sessions.WorkoutLog(middleware.Username(c))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(entries)
	})

	api.Delete("/log/:entryId", func(c *fiber.Ctx) error {
		entryID, err := strconv.ParseInt(c.Params("entryId"), 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid entry id"})
		}
		user, err := sessions.DeleteLogEntry(c.Context(), middleware.Username(c), entryID)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(user)
	})

	api.Put("/theme", func(c *fiber.Ctx) error {
		var body struct {
			Theme string `json:"theme"`
		}
		if err := c.BodyParser(&body); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
		}
		user, unlocked, err := sessions.SetTheme(c.Context(), middleware.Username(c), body.Theme)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(fiber.Map{"user": user, "unlocked": unlocked})
	})
}
