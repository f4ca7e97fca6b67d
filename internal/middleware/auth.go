package middleware

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/services"
)

// AuthAdmin validates that the request carries a platform admin session.
func AuthAdmin(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"admin"})
	}
}

// AuthOperator validates that the request carries a store operator session.
// Admins pass too.
func AuthOperator(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return authorize(c, cfg, []string{"operator", "admin"})
	}
}

// authorize performs the session check, initializing the Authorizer client on
// the first authenticated request.
func authorize(c *fiber.Ctx, cfg *config.Config, roles []string) error {
	if !services.IsAuthorizerInitialized() {
		if err := services.InitAuthorizer(cfg, c.Protocol(), c.Hostname()); err != nil {
			return fiber.NewError(fiber.StatusServiceUnavailable,
				fmt.Sprintf("Authorization service unavailable: %v", err))
		}
	}

	session := c.Cookies("cookie_session")
	if session == "" {
		return fiber.NewError(fiber.StatusForbidden,
			"Authorizer cookie \"cookie_session\" not found")
	}

	data, err := services.ValidateSession(session, roles)
	if err != nil {
		return fiber.NewError(fiber.StatusForbidden,
			fmt.Sprintf("Invalid session: %v", err))
	}

	if user, ok := data["user"]; ok {
		c.Locals("user", user)
	}

	return c.Next()
}
