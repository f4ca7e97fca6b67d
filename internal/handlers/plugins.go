package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/shopweave/plugin-engine/internal/utils"
)

// PluginHandler handles plugin registry and artifact routes
type PluginHandler struct {
	Registry  *services.PluginRegistry
	Artifacts *services.CodeArtifactStore
}

// RegisterPlugin handles POST /api/plugins
// @Summary Register a plugin
// @Description Create a plugin record; the id is generated when absent
// @Tags Plugins
// @Accept json
// @Produce json
// @Param body body models.Plugin true "Plugin to register"
// @Success 201 {object} models.Plugin
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins [post]
func (h *PluginHandler) RegisterPlugin(c *fiber.Ctx) error {
	var plugin models.Plugin
	if err := c.BodyParser(&plugin); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugins.validation.input")
	}

	if err := h.Registry.Register(&plugin); err != nil {
		return domainErrorResponse(c, err, "registerPlugin")
	}

	return utils.SuccessResponse(c, plugin, fiber.StatusCreated)
}

// GetPlugin handles GET /api/plugins/:pluginId
// @Summary Get a plugin
// @Description Get a plugin by id; disabled plugins report 404 with detail "disabled"
// @Tags Plugins
// @Produce json
// @Param pluginId path string true "Plugin ID"
// @Success 200 {object} models.Plugin
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/{pluginId} [get]
func (h *PluginHandler) GetPlugin(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")

	plugin, err := h.Registry.Resolve(pluginID)
	if err != nil {
		return domainErrorResponse(c, err, "getPlugin")
	}

	return utils.SuccessResponse(c, plugin, fiber.StatusOK)
}

// SetPluginStatus handles PATCH /api/plugins/:pluginId/status
// @Summary Set plugin status
// @Description Transition a plugin between active, disabled, and pending
// @Tags Plugins
// @Accept json
// @Produce json
// @Param pluginId path string true "Plugin ID"
// @Param body body object true "New status"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{pluginId}/status [patch]
func (h *PluginHandler) SetPluginStatus(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugins.validation.input")
	}

	if err := h.Registry.SetStatus(pluginID, body.Status); err != nil {
		return domainErrorResponse(c, err, "setPluginStatus")
	}

	return utils.MutationSuccessResponse(c, "", 1)
}

// PutArtifacts handles POST /api/plugins/:pluginId/artifacts
// @Summary Store code artifacts
// @Description Upsert one or more code artifacts for a plugin; widget registrations are refreshed for active plugins
// @Tags Plugins
// @Accept json
// @Produce json
// @Param pluginId path string true "Plugin ID"
// @Param body body object true "Artifacts to store"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{pluginId}/artifacts [post]
func (h *PluginHandler) PutArtifacts(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")

	var body struct {
		Replace   bool                                `json:"replace"`
		Artifacts types.FlexList[models.CodeArtifact] `json:"artifacts"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugins.validation.input")
	}

	artifacts := body.Artifacts.Slice()
	if len(artifacts) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plugins.validation.input")
	}

	for i := range artifacts {
		artifacts[i].PluginID = pluginID
		if err := h.Artifacts.Put(&artifacts[i], body.Replace); err != nil {
			return domainErrorResponse(c, err, "putArtifacts")
		}
	}

	if err := h.Registry.SyncWidgets(pluginID); err != nil {
		return domainErrorResponse(c, err, "putArtifacts")
	}

	return utils.MutationSuccessResponse(c, "", int64(len(artifacts)))
}

// ListArtifacts handles GET /api/plugins/:pluginId/artifacts?kind=
// @Summary List code artifacts
// @Description List a plugin's artifacts in load order, optionally filtered by kind
// @Tags Plugins
// @Produce json
// @Param pluginId path string true "Plugin ID"
// @Param kind query string false "Artifact kind filter"
// @Success 200 {array} models.CodeArtifact
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /plugins/{pluginId}/artifacts [get]
func (h *PluginHandler) ListArtifacts(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")
	kind := c.Query("kind")

	if kind != "" && !models.ValidKind(kind) {
		return utils.ErrorResponse(c, fmt.Sprintf("Unknown artifact kind '%s'", kind),
			fiber.StatusBadRequest, "plugins.validation.kind")
	}

	artifacts, err := h.Artifacts.ListByPlugin(pluginID, kind)
	if err != nil {
		return domainErrorResponse(c, err, "listArtifacts")
	}

	return utils.SuccessResponse(c, artifacts, fiber.StatusOK)
}

// DeleteArtifacts handles DELETE /api/plugins/:pluginId/artifacts
// @Summary Delete code artifacts
// @Description Remove all of a plugin's artifacts and its widget registrations
// @Tags Plugins
// @Produce json
// @Param pluginId path string true "Plugin ID"
// @Success 200 {object} utils.SuccessResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security CookieAuth
// @Router /plugins/{pluginId}/artifacts [delete]
func (h *PluginHandler) DeleteArtifacts(c *fiber.Ctx) error {
	pluginID := c.Params("pluginId")

	removed, err := h.Artifacts.DeleteByPlugin(pluginID)
	if err != nil {
		return domainErrorResponse(c, err, "deleteArtifacts")
	}

	if err := h.Registry.SyncWidgets(pluginID); err != nil {
		return domainErrorResponse(c, err, "deleteArtifacts")
	}

	return utils.MutationSuccessResponse(c, "", removed)
}
