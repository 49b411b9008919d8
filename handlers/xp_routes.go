// handlers/xp_routes.go
package handlers

import (
	"errors"
	"time"

	"mood-journal-system/middleware"
	"mood-journal-system/models"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupXPRoutes(app *fiber.App, ledgerService *services.LedgerService, claimService *services.ClaimService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	// Current ledger plus the theme names it unlocks
	securedGroup.Get("/user/xp", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		ledger, err := ledgerService.GetLedger(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch XP ledger",
				"cause": err.Error(),
			})
		}

		return c.JSON(fiber.Map{
			"user_id":         userID,
			"current_xp":      ledger.CurrentXP,
			"streak":          ledger.Streak,
			"last_updated":    ledger.LastUpdated,
			"unlocked_themes": services.UnlockedTiers(ledger.CurrentXP, models.DefaultRewardTiers),
		})
	})

	// The daily claim. accepted:false is the normal "already claimed
	// today" outcome and comes back as 200; the client shows nothing.
	securedGroup.Post("/xp/claim", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Source string `json:"source"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		source := models.ClaimSource(req.Source)
		if !source.Valid() {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "source must be 'mood_entry' or 'chatbot_rating'",
			})
		}

		result, err := claimService.ClaimAndAward(userID, source, time.Now())
		if err != nil {
			if errors.Is(err, services.ErrInvalidUser) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "no user identity",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "XP claim failed",
				"cause": err.Error(),
			})
		}

		return c.JSON(result)
	})
}
