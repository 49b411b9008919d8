// middleware/gateway.go
package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// GatewayAuthMiddleware rejects any request that does not carry the shared
// gateway token. The service is never exposed directly; only the API
// gateway holds MOOD_SERVICE_TOKEN.
func GatewayAuthMiddleware() fiber.Handler {
	expected := os.Getenv("MOOD_SERVICE_TOKEN")
	if expected == "" {
		log.Fatal("❌ MOOD_SERVICE_TOKEN is not set, refusing to start unauthenticated")
	}

	return func(c *fiber.Ctx) error {
		// Accept "Bearer <token>" or the raw token value.
		presented := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if presented == "" {
			log.Printf("🚫 [GATEWAY] No token on %s %s", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "gateway token required",
			})
		}
		if presented != expected {
			log.Printf("🚫 [GATEWAY] Bad token on %s %s", c.Method(), c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid gateway token",
			})
		}
		return c.Next()
	}
}
