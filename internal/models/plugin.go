package models

import (
	"time"

	"github.com/shopweave/plugin-engine/internal/types"
)

// Plugin statuses
const (
	PluginStatusActive   = "active"
	PluginStatusDisabled = "disabled"
	PluginStatusPending  = "pending"
)

// Artifact kinds stored in plugin_code_artifacts
const (
	ArtifactKindScript      = "script"
	ArtifactKindHook        = "hook"
	ArtifactKindEvent       = "event"
	ArtifactKindController  = "controller"
	ArtifactKindAdminPage   = "adminPage"
	ArtifactKindAdminScript = "adminScript"
	ArtifactKindDependency  = "dependency"
)

// ArtifactKinds lists every valid artifact kind.
var ArtifactKinds = []string{
	ArtifactKindScript,
	ArtifactKindHook,
	ArtifactKindEvent,
	ArtifactKindController,
	ArtifactKindAdminPage,
	ArtifactKindAdminScript,
	ArtifactKindDependency,
}

// Plugin represents an installable unit contributing code artifacts and widgets.
// IDs are opaque strings end-to-end; the registry generates a UUID only when the
// installer does not supply one.
type Plugin struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	Slug      string         `gorm:"size:255;not null;index" json:"slug"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Status    string         `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatorID string         `gorm:"size:64" json:"creatorId"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	Artifacts []CodeArtifact `gorm:"foreignKey:PluginID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
}

// CodeArtifact is a tagged variant over artifact kinds. NaturalKey is the
// per-kind semantic key (eventName, controllerName, packageName, or fileName)
// and is kept separate from FileName so renaming a file never breaks wiring.
type CodeArtifact struct {
	ArtifactID   uint64           `gorm:"primaryKey;autoIncrement" json:"artifactId"`
	PluginID     string           `gorm:"size:64;not null;index:idx_artifact_natural,unique,priority:1" json:"pluginId"`
	Kind         string           `gorm:"size:24;not null;index:idx_artifact_natural,unique,priority:2" json:"kind"`
	NaturalKey   string           `gorm:"size:255;not null;index:idx_artifact_natural,unique,priority:3" json:"-"`
	FileName     string           `gorm:"size:255;not null" json:"fileName"`
	LoadPriority types.FlexUint64 `gorm:"not null;default:0" json:"loadPriority"`
	Content      string           `gorm:"type:text" json:"content,omitempty"`

	// kind == event
	EventName string `gorm:"size:255" json:"eventName,omitempty"`

	// kind == controller
	ControllerName string `gorm:"size:255" json:"controllerName,omitempty"`

	// kind == dependency
	PackageName    string `gorm:"size:255" json:"packageName,omitempty"`
	PackageVersion string `gorm:"size:64" json:"version,omitempty"`
	BundledCode    string `gorm:"type:text" json:"bundledCode,omitempty"`

	// script/adminPage artifacts tagged as widgets
	IsWidget      bool   `gorm:"not null;default:false" json:"isWidget"`
	WidgetName    string `gorm:"size:255" json:"widgetName,omitempty"`
	DisplayName   string `gorm:"size:255" json:"displayName,omitempty"`
	ConfigSchema  JSON   `gorm:"type:json" json:"configSchema,omitempty"`
	DefaultConfig JSON   `gorm:"type:json" json:"defaultConfig,omitempty"`
	Category      string `gorm:"size:64" json:"category,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName overrides the table name for Plugin
func (Plugin) TableName() string {
	return "plugins"
}

// TableName overrides the table name for CodeArtifact
func (CodeArtifact) TableName() string {
	return "plugin_code_artifacts"
}

// ValidKind reports whether kind is a known artifact kind.
func ValidKind(kind string) bool {
	for _, k := range ArtifactKinds {
		if k == kind {
			return true
		}
	}
	return false
}
