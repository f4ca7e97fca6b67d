package models

import (
	"time"
)

// NavigationItem represents an admin-menu entry. Core items are platform-owned
// and cannot be removed by plugins. ParentKey forms a tree; the UI assumes two
// levels but the data model does not constrain depth.
type NavigationItem struct {
	ItemID        uint64    `gorm:"primaryKey;autoIncrement" json:"itemId"`
	Key           string    `gorm:"uniqueIndex;size:255;not null" json:"key"`
	Label         string    `gorm:"size:255;not null" json:"label"`
	Route         string    `gorm:"size:512" json:"route,omitempty"`
	Icon          string    `gorm:"size:64" json:"icon,omitempty"`
	Category      string    `gorm:"size:64" json:"category,omitempty"`
	ParentKey     *string   `gorm:"size:255;index" json:"parentKey,omitempty"`
	OrderPosition int       `gorm:"not null;default:0" json:"orderPosition"`
	IsCore        bool      `gorm:"not null;default:false" json:"isCore"`
	IsVisible     bool      `gorm:"not null;default:true" json:"isVisible"`
	PluginID      *string   `gorm:"size:64;index" json:"pluginId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName overrides the table name for NavigationItem
func (NavigationItem) TableName() string {
	return "admin_navigation_registry"
}
