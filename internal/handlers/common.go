package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/shopweave/plugin-engine/internal/utils"
)

// storeID returns the tenant resolved by the tenant middleware.
func storeID(c *fiber.Ctx) string {
	if v, ok := c.Locals("storeId").(string); ok {
		return v
	}
	return ""
}

// domainErrorResponse renders a service error. Domain errors map onto their
// HTTP status and code; anything else is a 500 tagged with errorType.
func domainErrorResponse(c *fiber.Ctx, err error, errorType string) error {
	de, ok := types.AsDomainError(err)
	if !ok {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, errorType)
	}

	switch de.Code {
	case types.CodeStaleWrite:
		return utils.StaleWriteResponse(c)
	case types.CodeNotFound:
		return utils.NotFoundResponse(c, de.Message)
	}

	return utils.ErrorResponse(c, de.Message, de.HTTPStatus(), de.Code)
}
