// handlers/chatbot_routes.go
package handlers

import (
	"mood-journal-system/middleware"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupChatbotRoutes(app *fiber.App, chatbotService *services.ChatbotService) {
	securedGroup := app.Group("/chat", middleware.UserContextMiddleware())

	securedGroup.Post("/sessions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := chatbotService.StartSession(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to start chat session",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(session)
	})

	securedGroup.Get("/sessions", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		sessions, err := chatbotService.Sessions(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch chat sessions",
				"cause": err.Error(),
			})
		}
		return c.JSON(sessions)
	})

	securedGroup.Post("/sessions/:id/end", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		session, err := chatbotService.EndSession(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to end chat session",
				"cause": err.Error(),
			})
		}
		return c.JSON(session)
	})

	securedGroup.Post("/sessions/:id/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Message string `json:"message"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		messages, err := chatbotService.AddMessage(userID, c.Params("id"), req.Message)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to send message",
				"cause": err.Error(),
			})
		}
		return c.Status(fiber.StatusCreated).JSON(messages)
	})

	securedGroup.Get("/sessions/:id/messages", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		messages, err := chatbotService.Messages(userID, c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to fetch messages",
				"cause": err.Error(),
			})
		}
		return c.JSON(messages)
	})

	// Rating ends the loop: store the stars, then attempt the day's
	// chatbot_rating claim (+20 XP, streak untouched).
	securedGroup.Post("/sessions/:id/rating", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Rating   int    `json:"rating"`
			Feedback string `json:"feedback_text"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		rating, claim, err := chatbotService.RateSession(userID, c.Params("id"), req.Rating, req.Feedback)
		if err != nil {
			if rating != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error":  "rating saved but XP claim failed",
					"cause":  err.Error(),
					"rating": rating,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "failed to save rating",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"rating": rating,
			"claim":  claim,
		})
	})
}
