package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/utils"
)

// LayoutHandler handles draft and published slot configuration routes
type LayoutHandler struct {
	Slots *services.SlotConfigurationStore
}

// layoutResponse is the draft/published read shape.
type layoutResponse struct {
	StoreID       string                    `json:"storeId"`
	PageType      string                    `json:"pageType"`
	Status        string                    `json:"status"`
	Revision      string                    `json:"revision"`
	Configuration *models.PageConfiguration `json:"configuration"`
}

// GetDraft handles GET /api/stores/:storeId/layout/:pageType/draft
// @Summary Get the draft layout
// @Description Return the draft slot configuration, seeding it from the page-type default on first access
// @Tags Layout
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Success 200 {object} handlers.layoutResponse
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/layout/{pageType}/draft [get]
func (h *LayoutHandler) GetDraft(c *fiber.Ctx) error {
	pageType := c.Params("pageType")

	row, cfg, err := h.Slots.GetDraft(storeID(c), pageType)
	if err != nil {
		return domainErrorResponse(c, err, "getDraft")
	}

	return utils.SuccessResponse(c, layoutResponse{
		StoreID:       row.StoreID,
		PageType:      row.PageType,
		Status:        row.Status,
		Revision:      models.Revision(row.UpdatedAt),
		Configuration: cfg,
	}, fiber.StatusOK)
}

// SaveDraft handles POST /api/stores/:storeId/layout/:pageType/draft
// @Summary Save the draft layout
// @Description Write the draft slot configuration when expectedRevision still matches the stored row
// @Tags Layout
// @Accept json
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Param body body object true "Configuration and expected revision"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/layout/{pageType}/draft [post]
func (h *LayoutHandler) SaveDraft(c *fiber.Ctx) error {
	pageType := c.Params("pageType")

	var body struct {
		ExpectedRevision string                    `json:"expectedRevision"`
		Configuration    *models.PageConfiguration `json:"configuration"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "layout.validation.input")
	}
	if body.Configuration == nil || body.ExpectedRevision == "" {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "layout.validation.input")
	}

	row, err := h.Slots.SaveDraft(storeID(c), pageType, body.Configuration, body.ExpectedRevision)
	if err != nil {
		return domainErrorResponse(c, err, "saveDraft")
	}

	return utils.MutationSuccessResponse(c, models.Revision(row.UpdatedAt), 1)
}

// Publish handles POST /api/stores/:storeId/layout/:pageType/publish
// @Summary Publish the draft layout
// @Description Copy the draft configuration onto the published row; the draft remains editable
// @Tags Layout
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/layout/{pageType}/publish [post]
func (h *LayoutHandler) Publish(c *fiber.Ctx) error {
	pageType := c.Params("pageType")

	row, err := h.Slots.Publish(storeID(c), pageType)
	if err != nil {
		return domainErrorResponse(c, err, "publishLayout")
	}

	return utils.MutationSuccessResponse(c, models.Revision(row.UpdatedAt), 1)
}

// MarkCustom handles POST /api/stores/:storeId/layout/:pageType/slots/:slotId/custom
// @Summary Mark a slot as custom
// @Description Flag a draft slot as store-owned so it can later be deleted
// @Tags Layout
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/layout/{pageType}/slots/{slotId}/custom [post]
func (h *LayoutHandler) MarkCustom(c *fiber.Ctx) error {
	pageType := c.Params("pageType")
	slotID := c.Params("slotId")

	if err := h.Slots.MarkCustom(storeID(c), pageType, slotID); err != nil {
		return domainErrorResponse(c, err, "markCustom")
	}

	return utils.MutationSuccessResponse(c, "", 1)
}

// DeleteSlot handles DELETE /api/stores/:storeId/layout/:pageType/slots/:slotId
// @Summary Delete a custom slot
// @Description Remove a store-owned slot from the draft; platform slots are protected
// @Tags Layout
// @Produce json
// @Param storeId path string true "Store ID"
// @Param pageType path string true "Page type"
// @Param slotId path string true "Slot ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /stores/{storeId}/layout/{pageType}/slots/{slotId} [delete]
func (h *LayoutHandler) DeleteSlot(c *fiber.Ctx) error {
	pageType := c.Params("pageType")
	slotID := c.Params("slotId")

	if err := h.Slots.DeleteSlot(storeID(c), pageType, slotID); err != nil {
		return domainErrorResponse(c, err, "deleteSlot")
	}

	return utils.MutationSuccessResponse(c, "", 1)
}
