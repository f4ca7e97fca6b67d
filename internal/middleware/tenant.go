package middleware

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

// TenantMiddleware resolves the acting store for the request and stores it in
// context under "storeId". Resolution order: X-Store-Id header, storeId query
// parameter, storeId JSON body field, :storeId path parameter. Requests with
// no resolvable store are rejected.
func TenantMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		storeID := c.Get("X-Store-Id")

		if storeID == "" {
			storeID = c.Query("storeId")
		}

		if storeID == "" && len(c.Body()) > 0 {
			var body struct {
				StoreID string `json:"storeId"`
			}
			if err := json.Unmarshal(c.Body(), &body); err == nil {
				storeID = body.StoreID
			}
		}

		if storeID == "" {
			storeID = c.Params("storeId")
		}

		if storeID == "" {
			return fiber.NewError(fiber.StatusBadRequest,
				"No store context: supply X-Store-Id, storeId, or a :storeId path segment")
		}

		c.Locals("storeId", storeID)

		return c.Next()
	}
}
