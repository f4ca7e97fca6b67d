package services

import (
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// PluginRegistry is the catalog of plugin identity and metadata. Disabling a
// plugin synchronously unregisters its widgets but never touches its stored
// artifacts, so a disable is reversible.
type PluginRegistry struct {
	DB         *gorm.DB
	Widgets    *WidgetRegistry
	Artifacts  *CodeArtifactStore
	Navigation *NavigationRegistry
}

// NewPluginRegistry creates a registry over db.
func NewPluginRegistry(db *gorm.DB, widgets *WidgetRegistry, artifacts *CodeArtifactStore, navigation *NavigationRegistry) *PluginRegistry {
	return &PluginRegistry{DB: db, Widgets: widgets, Artifacts: artifacts, Navigation: navigation}
}

// Register creates a plugin row. The id is generated when the installer does
// not supply one; ids are otherwise treated as opaque strings. A slug held by
// another active plugin is rejected.
func (r *PluginRegistry) Register(plugin *models.Plugin) error {
	if plugin.Slug == "" {
		return types.Validation("slug", "plugin requires slug")
	}
	if plugin.Name == "" {
		return types.Validation("name", "plugin requires name")
	}
	if plugin.ID == "" {
		plugin.ID = uuid.NewString()
	}
	if plugin.Status == "" {
		plugin.Status = models.PluginStatusPending
	}
	if !validPluginStatus(plugin.Status) {
		return types.Validation("status", "unknown plugin status %q", plugin.Status)
	}

	return r.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Plugin{}).
			Where("slug = ? AND status = ? AND id <> ?", plugin.Slug, models.PluginStatusActive, plugin.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return types.DuplicateSlug(plugin.Slug)
		}
		return tx.Create(plugin).Error
	})
}

// SetStatus updates a plugin's status. Transition to disabled removes the
// plugin's widgets from the registry; transition to active restores them from
// the artifact store.
func (r *PluginRegistry) SetStatus(pluginID, status string) error {
	if !validPluginStatus(status) {
		return types.Validation("status", "unknown plugin status %q", status)
	}

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var plugin models.Plugin
		if err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("id = ?", pluginID).First(&plugin).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("missing", "plugin %q not found", pluginID)
			}
			return err
		}
		return tx.Model(&plugin).Update("status", status).Error
	})
	if err != nil {
		return err
	}

	switch status {
	case models.PluginStatusDisabled:
		removed := r.Widgets.UnregisterPluginWidgets(pluginID)
		log.Printf("Plugin %s disabled: unregistered %d widgets", pluginID, removed)
	case models.PluginStatusActive:
		if err := r.registerPluginWidgets(pluginID); err != nil {
			return err
		}
	}
	return nil
}

// registerPluginWidgets loads the plugin's widget artifacts into the registry.
func (r *PluginRegistry) registerPluginWidgets(pluginID string) error {
	artifacts, err := r.Artifacts.ListWidgetArtifacts(pluginID)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		def := WidgetDefinitionFromArtifact(a)
		r.Widgets.RegisterWidget(pluginID, def)
	}
	log.Printf("Plugin %s enabled: registered %d widgets", pluginID, len(artifacts))
	return nil
}

// SyncWidgets reconciles the registry's widgets for one plugin with the
// artifact store. Called after artifact writes; plugins that are missing,
// disabled, or pending end up with no registered widgets.
func (r *PluginRegistry) SyncWidgets(pluginID string) error {
	r.Widgets.UnregisterPluginWidgets(pluginID)

	var plugin models.Plugin
	err := r.DB.Session(&gorm.Session{Logger: r.DB.Logger.LogMode(logger.Silent)}).
		Where("id = ?", pluginID).First(&plugin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if plugin.Status != models.PluginStatusActive {
		return nil
	}
	return r.registerPluginWidgets(pluginID)
}

// Resolve returns the plugin when it exists and is not disabled. The NotFound
// detail distinguishes "missing" from "disabled" so callers can show a
// disabled placeholder instead of a hard error.
func (r *PluginRegistry) Resolve(pluginID string) (*models.Plugin, error) {
	var plugin models.Plugin
	err := r.DB.Session(&gorm.Session{Logger: r.DB.Logger.LogMode(logger.Silent)}).
		Where("id = ?", pluginID).First(&plugin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("missing", "plugin %q not found", pluginID)
		}
		return nil, err
	}
	if plugin.Status == models.PluginStatusDisabled {
		return nil, types.NotFound("disabled", "plugin %q is disabled", pluginID)
	}
	return &plugin, nil
}

// Delete removes the plugin row, its artifacts, its navigation entries, and
// its widgets. Used by uninstall tooling; operators normally soft-disable
// instead.
func (r *PluginRegistry) Delete(pluginID string) error {
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ?", pluginID).Delete(&models.Plugin{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.NotFound("missing", "plugin %q not found", pluginID)
		}
		// Cascade holds at the schema level too; this keeps sqlite deployments
		// without foreign_keys pragma consistent.
		return tx.Where("plugin_id = ?", pluginID).Delete(&models.CodeArtifact{}).Error
	})
	if err != nil {
		return err
	}

	navRemoved, err := r.Navigation.RemoveByPlugin(pluginID)
	if err != nil {
		return err
	}

	removed := r.Widgets.UnregisterPluginWidgets(pluginID)
	log.Printf("Plugin %s deleted: unregistered %d widgets, removed %d navigation entries", pluginID, removed, navRemoved)
	return nil
}

func validPluginStatus(status string) bool {
	switch status {
	case models.PluginStatusActive, models.PluginStatusDisabled, models.PluginStatusPending:
		return true
	}
	return false
}
