// handlers/mood_routes.go
package handlers

import (
	"strconv"
	"time"

	"mood-journal-system/middleware"
	"mood-journal-system/models"
	"mood-journal-system/services"

	"github.com/gofiber/fiber/v2"
)

func SetupMoodRoutes(app *fiber.App, moodService *services.MoodService) {
	securedGroup := app.Group("/", middleware.UserContextMiddleware())

	securedGroup.Post("/moods", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Mood       string   `json:"mood"`
			Emotions   []string `json:"emotions"`
			Journal    string   `json:"journal"`
			LoggedDate string   `json:"logged_date"` // RFC3339, optional
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
				"cause": err.Error(),
			})
		}

		loggedDate := time.Now()
		if req.LoggedDate != "" {
			parsed, err := time.Parse(time.RFC3339, req.LoggedDate)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "logged_date must be RFC3339",
					"cause": err.Error(),
				})
			}
			loggedDate = parsed
		}

		entry, claim, err := moodService.AddEntry(userID, models.Mood(req.Mood), req.Emotions, req.Journal, loggedDate)
		if err != nil {
			if entry != nil {
				// Entry saved but the XP claim hit a storage error. The
				// client can retry the claim; re-running it is safe.
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "entry saved but XP claim failed",
					"cause": err.Error(),
					"entry": entry,
				})
			}
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not save mood entry",
				"cause": err.Error(),
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"entry": entry,
			"claim": claim,
		})
	})

	securedGroup.Get("/moods", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		entries, err := moodService.Entries(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch mood entries",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	// Calendar view: /moods/range?start=2024-05-01&end=2024-05-31
	securedGroup.Get("/moods/range", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		start, err := time.Parse("2006-01-02", c.Query("start"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "start must be YYYY-MM-DD",
			})
		}
		end, err := time.Parse("2006-01-02", c.Query("end"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "end must be YYYY-MM-DD",
			})
		}
		// Make the end date inclusive
		end = end.AddDate(0, 0, 1).Add(-time.Nanosecond)

		entries, err := moodService.EntriesInRange(userID, start, end)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to fetch mood entries",
				"cause": err.Error(),
			})
		}
		return c.JSON(entries)
	})

	securedGroup.Get("/user/stats", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		days, _ := strconv.Atoi(c.Query("days", "0")) // 0 = all time

		stats, err := moodService.Stats(userID, days)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to compute stats",
				"cause": err.Error(),
			})
		}
		return c.JSON(stats)
	})
}
