package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/utils"
)

// NavigationHandler handles admin navigation registry routes
type NavigationHandler struct {
	Registry *services.NavigationRegistry
}

// UpsertItem handles PUT /api/navigation
// @Summary Upsert a navigation item
// @Description Create or update a navigation entry; new items land at the end of their parent scope
// @Tags Navigation
// @Accept json
// @Produce json
// @Param body body models.NavigationItem true "Navigation item"
// @Success 200 {object} models.NavigationItem
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /navigation [put]
func (h *NavigationHandler) UpsertItem(c *fiber.Ctx) error {
	var item models.NavigationItem
	if err := c.BodyParser(&item); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "navigation.validation.input")
	}

	if item.Key == "" || item.Label == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "navigation.validation.input")
	}

	if err := h.Registry.Upsert(&item); err != nil {
		return domainErrorResponse(c, err, "upsertNavigation")
	}

	return utils.SuccessResponse(c, item, fiber.StatusOK)
}

// GetTree handles GET /api/navigation/tree
// @Summary Get the navigation tree
// @Description Return navigation items grouped under their parents, ordered by position
// @Tags Navigation
// @Produce json
// @Success 200 {array} services.NavigationNode
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /navigation/tree [get]
func (h *NavigationHandler) GetTree(c *fiber.Ctx) error {
	tree, err := h.Registry.ListTree()
	if err != nil {
		return domainErrorResponse(c, err, "getNavigationTree")
	}

	return utils.SuccessResponse(c, tree, fiber.StatusOK)
}

// RemoveItem handles DELETE /api/navigation/:key
// @Summary Remove a navigation item
// @Description Delete a navigation entry; core platform entries are protected
// @Tags Navigation
// @Produce json
// @Param key path string true "Navigation item key"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /navigation/{key} [delete]
func (h *NavigationHandler) RemoveItem(c *fiber.Ctx) error {
	key := c.Params("key")

	if err := h.Registry.Remove(key); err != nil {
		return domainErrorResponse(c, err, "removeNavigation")
	}

	return utils.MutationSuccessResponse(c, "", 1)
}
