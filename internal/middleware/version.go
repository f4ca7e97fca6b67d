package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const currentAPIVersion = "1.0.0"

// VersionMiddleware negotiates the X-Api-Version header. Short forms like
// "1.0" expand to the full semver, and the negotiated version is echoed back
// so clients can detect server-side coercion.
func VersionMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := c.Get("X-Api-Version", currentAPIVersion)
		if strings.Count(version, ".") == 1 {
			version += ".0"
		}

		c.Locals("apiVersion", version)
		c.Set("X-Api-Version", version)

		return c.Next()
	}
}
