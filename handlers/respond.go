// handlers/respond.go
package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"fitness-tracker-system/models"
)

// fail maps service errors to HTTP status codes with a uniform error body.
func fail(c *fiber.Ctx, err error) error {
	var validation *models.ValidationError
	var notFound *models.NotFoundError
	var permission *models.PermissionError
	var syncErr *models.SyncError

	switch {
	case errors.As(err, &validation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": validation.Msg})
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": notFound.Error()})
	case errors.As(err, &permission):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": permission.Msg})
	case errors.As(err, &syncErr):
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "remote store unavailable, please retry",
			"cause": syncErr.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}
