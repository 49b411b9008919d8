// handlers/user_routes.go
package handlers

import (
	"mood-journal-system/middleware"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App, userService *services.UserService) {
	// Registration happens before a user id exists, so it sits outside
	// the user-context group (still behind the gateway token).
	app.Post("/users", func(c *fiber.Ctx) error {
		type Req struct {
			Nickname string `json:"nickname"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		user, err := userService.CreateUser(req.Nickname)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to create user",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	})

	securedGroup := app.Group("/user", middleware.UserContextMiddleware())

	securedGroup.Get("/me", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		user, err := userService.GetByID(userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "user not found",
				"cause": err.Error(),
			})
		}
		_ = userService.TouchLastLogin(userID)
		return c.JSON(user)
	})
}
