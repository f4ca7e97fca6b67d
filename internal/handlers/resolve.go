package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/utils"
)

// ResolveHandler handles composition and controller invocation routes
type ResolveHandler struct {
	Resolver *services.CompositionResolver
}

// ResolvePage handles GET /api/stores/:storeId/resolve/:pageType
// @Summary Resolve a page composition
// @Description Merge slot configuration, registered widgets, and dependency bundles into an ordered render tree
// @Tags Resolve
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Param viewport query string false "Viewport override set to apply"
// @Param published query bool false "Resolve the published configuration instead of the draft"
// @Success 200 {object} services.ResolveResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /stores/{storeId}/resolve/{pageType} [get]
func (h *ResolveHandler) ResolvePage(c *fiber.Ctx) error {
	pageType := c.Params("pageType")
	viewport := c.Query("viewport")
	published := c.QueryBool("published", false)

	result, err := h.Resolver.Resolve(c.Context(), storeID(c), pageType, viewport, published)
	if err != nil {
		return domainErrorResponse(c, err, "resolvePage")
	}

	return utils.SuccessResponse(c, result, fiber.StatusOK)
}

// InvokeController handles POST /api/stores/:storeId/controllers/:pluginId/:controllerName
// @Summary Invoke a stored controller
// @Description Execute a plugin's stored controller in the sandboxed runtime; execution failures are reported in the result, not as transport errors
// @Tags Resolve
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pluginId path string true "Plugin ID"
// @Param controllerName path string true "Controller name"
// @Param body body services.ControllerRequest false "Invocation request"
// @Success 200 {object} services.ControllerResult
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/controllers/{pluginId}/{controllerName} [post]
func (h *ResolveHandler) InvokeController(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")
	controllerName := c.Params("controllerName")

	var req services.ControllerRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "controllers.validation.input")
		}
	}
	req.StoreID = storeID(c)

	result, err := h.Resolver.InvokeController(c.Context(), pluginID, controllerName, &req)
	if err != nil {
		return domainErrorResponse(c, err, "invokeController")
	}

	return utils.SuccessResponse(c, result, fiber.StatusOK)
}
