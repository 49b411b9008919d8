// handlers/theme_routes.go
package handlers

import (
	"errors"

	"mood-journal-system/middleware"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupThemeRoutes(app *fiber.App, themeService *services.ThemeService) {
	securedGroup := app.Group("/themes", middleware.UserContextMiddleware())

	securedGroup.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		palettes, err := themeService.Palettes(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch themes",
				"cause": err.Error(),
			})
		}
		return c.JSON(palettes)
	})

	securedGroup.Post("/select", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Theme string `json:"theme"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		selection, err := themeService.Select(userID, req.Theme)
		if err != nil {
			if errors.Is(err, services.ErrThemeLocked) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "theme locked",
					"cause": err.Error(),
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to select theme",
				"cause": err.Error(),
			})
		}
		return c.JSON(selection)
	})
}
