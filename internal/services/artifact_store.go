package services

import (
	"errors"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/hints"
)

// CodeArtifactStore persists plugin-supplied code artifacts in normalized form.
type CodeArtifactStore struct {
	DB *gorm.DB
}

// NewCodeArtifactStore creates a store over db.
func NewCodeArtifactStore(db *gorm.DB) *CodeArtifactStore {
	return &CodeArtifactStore{DB: db}
}

// naturalKeyFor selects the per-kind semantic key. FileName is only the key for
// kinds that have no semantic name of their own.
func naturalKeyFor(a *models.CodeArtifact) (string, error) {
	switch a.Kind {
	case models.ArtifactKindEvent:
		if a.EventName == "" {
			return "", types.Validation("eventName", "event artifact requires eventName")
		}
		return a.EventName, nil
	case models.ArtifactKindController:
		if a.ControllerName == "" {
			return "", types.Validation("controllerName", "controller artifact requires controllerName")
		}
		return a.ControllerName, nil
	case models.ArtifactKindDependency:
		if a.PackageName == "" {
			return "", types.Validation("packageName", "dependency artifact requires packageName")
		}
		return a.PackageName, nil
	case models.ArtifactKindScript, models.ArtifactKindHook, models.ArtifactKindAdminPage, models.ArtifactKindAdminScript:
		if a.FileName == "" {
			return "", types.Validation("fileName", "artifact requires fileName")
		}
		return a.FileName, nil
	default:
		return "", types.Validation("kind", "unknown artifact kind %q", a.Kind)
	}
}

// Put upserts an artifact by (pluginId, kind, naturalKey). Writes for plugins
// the registry does not know are rejected, never silently tolerated. A
// dependency colliding on (pluginId, packageName) with a different version
// fails unless replace is set.
func (s *CodeArtifactStore) Put(artifact *models.CodeArtifact, replace bool) error {
	if artifact.PluginID == "" {
		return types.Validation("pluginId", "artifact requires pluginId")
	}
	key, err := naturalKeyFor(artifact)
	if err != nil {
		return err
	}
	artifact.NaturalKey = key
	if artifact.FileName == "" {
		artifact.FileName = key
	}

	return s.DB.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Plugin{}).Where("id = ?", artifact.PluginID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return types.NotFound("missing", "plugin %q does not exist; refusing orphaned artifact", artifact.PluginID)
		}

		var existing models.CodeArtifact
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("plugin_id = ? AND kind = ? AND natural_key = ?", artifact.PluginID, artifact.Kind, artifact.NaturalKey).
			First(&existing).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return tx.Create(artifact).Error
			}
			return err
		}

		if artifact.Kind == models.ArtifactKindDependency &&
			existing.PackageVersion != artifact.PackageVersion && !replace {
			return types.ConstraintViolation(artifact.PackageName,
				"dependency %q for plugin %q is already stored at version %s; pass replace to overwrite with %s",
				artifact.PackageName, artifact.PluginID, existing.PackageVersion, artifact.PackageVersion)
		}

		artifact.ArtifactID = existing.ArtifactID
		artifact.CreatedAt = existing.CreatedAt
		return tx.Save(artifact).Error
	})
}

// ListByPlugin returns the plugin's artifacts ordered by loadPriority
// ascending, ties broken by insertion order. kind filters when non-empty.
func (s *CodeArtifactStore) ListByPlugin(pluginID, kind string) ([]models.CodeArtifact, error) {
	if kind != "" && !models.ValidKind(kind) {
		return nil, types.Validation("kind", "unknown artifact kind %q", kind)
	}

	query := s.DB.Clauses(hints.CommentBefore("select", "artifact-list")).
		Where("plugin_id = ?", pluginID)
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var artifacts []models.CodeArtifact
	if err := query.Order("load_priority ASC, artifact_id ASC").Find(&artifacts).Error; err != nil {
		return nil, err
	}
	return artifacts, nil
}

// DeleteByPlugin cascades deletion across all artifact kinds of one plugin.
func (s *CodeArtifactStore) DeleteByPlugin(pluginID string) (int64, error) {
	result := s.DB.Where("plugin_id = ?", pluginID).Delete(&models.CodeArtifact{})
	return result.RowsAffected, result.Error
}

// GetController looks up a controller artifact by its semantic name.
func (s *CodeArtifactStore) GetController(pluginID, controllerName string) (*models.CodeArtifact, error) {
	var artifact models.CodeArtifact
	err := s.DB.Session(&gorm.Session{Logger: s.DB.Logger.LogMode(logger.Silent)}).
		Where("plugin_id = ? AND kind = ? AND controller_name = ?",
			pluginID, models.ArtifactKindController, controllerName).
		First(&artifact).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("missing", "controller %q not found for plugin %q", controllerName, pluginID)
		}
		return nil, err
	}
	return &artifact, nil
}

// ListDependencies returns the dependency bundles of the given plugins ordered
// by loadPriority, then insertion order.
func (s *CodeArtifactStore) ListDependencies(pluginIDs []string) ([]models.CodeArtifact, error) {
	if len(pluginIDs) == 0 {
		return nil, nil
	}
	var deps []models.CodeArtifact
	err := s.DB.Where("plugin_id IN ? AND kind = ?", pluginIDs, models.ArtifactKindDependency).
		Order("load_priority ASC, artifact_id ASC").
		Find(&deps).Error
	if err != nil {
		return nil, err
	}
	return deps, nil
}

// ListWidgetArtifacts returns the widget-tagged script/adminPage artifacts of
// one plugin, in load order.
func (s *CodeArtifactStore) ListWidgetArtifacts(pluginID string) ([]models.CodeArtifact, error) {
	var artifacts []models.CodeArtifact
	err := s.DB.Where("plugin_id = ? AND is_widget = ? AND kind IN ?",
		pluginID, true, []string{models.ArtifactKindScript, models.ArtifactKindAdminPage}).
		Order("load_priority ASC, artifact_id ASC").
		Find(&artifacts).Error
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}

// ListActiveWidgetArtifacts returns widget-tagged artifacts of every active
// plugin, for full registry rebuilds.
func (s *CodeArtifactStore) ListActiveWidgetArtifacts() ([]models.CodeArtifact, error) {
	var artifacts []models.CodeArtifact
	err := s.DB.
		Joins("JOIN plugins ON plugins.id = plugin_code_artifacts.plugin_id AND plugins.status = ?", models.PluginStatusActive).
		Where("plugin_code_artifacts.is_widget = ? AND plugin_code_artifacts.kind IN ?",
			true, []string{models.ArtifactKindScript, models.ArtifactKindAdminPage}).
		Order("plugin_code_artifacts.load_priority ASC, plugin_code_artifacts.artifact_id ASC").
		Find(&artifacts).Error
	if err != nil {
		return nil, err
	}
	return artifacts, nil
}
