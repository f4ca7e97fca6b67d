package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Slot configuration statuses
const (
	ConfigStatusDraft     = "draft"
	ConfigStatusPublished = "published"
)

// Well-known viewports. The viewport key space is open; these are the values
// the bundled templates use.
const (
	ViewportDesktop = "desktop"
	ViewportTablet  = "tablet"
	ViewportMobile  = "mobile"
)

// SlotConfiguration is one versioned slot tree for a store page. Exactly one
// row exists per (storeId, pageType, status). UpdatedAt doubles as the
// optimistic-concurrency revision for draft writes. There is deliberately no
// foreign key to plugins: stale widget references degrade to placeholders at
// resolve time.
type SlotConfiguration struct {
	ConfigID      uint64    `gorm:"primaryKey;autoIncrement" json:"configId"`
	StoreID       string    `gorm:"size:64;not null;index:idx_store_page_status,unique,priority:1" json:"storeId"`
	PageType      string    `gorm:"size:64;not null;index:idx_store_page_status,unique,priority:2" json:"pageType"`
	Status        string    `gorm:"size:16;not null;index:idx_store_page_status,unique,priority:3" json:"status"`
	Configuration JSON      `gorm:"type:json" json:"configuration"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// TableName overrides the table name for SlotConfiguration
func (SlotConfiguration) TableName() string {
	return "slot_configurations"
}

// Position locates a slot in the page grid.
type Position struct {
	Col int `json:"col"`
	Row int `json:"row"`
}

// SlotNode is one named position in a page layout. WidgetID, when set, is a
// weak "pluginId:name" reference into the widget registry. IsCustom is the
// sole permission gate for operator deletion.
type SlotNode struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Position Position               `json:"position"`
	WidgetID string                 `json:"widgetId,omitempty"`
	IsCustom bool                   `json:"isCustom"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// PageConfiguration is the JSON payload of a SlotConfiguration row: the base
// slot map plus per-viewport override maps layered on top of it.
type PageConfiguration struct {
	Slots     map[string]SlotNode            `json:"slots"`
	Viewports map[string]map[string]SlotNode `json:"viewports,omitempty"`
}

// DecodeConfiguration parses a row's JSON payload.
func DecodeConfiguration(row *SlotConfiguration) (*PageConfiguration, error) {
	var cfg PageConfiguration
	if err := json.Unmarshal([]byte(row.Configuration.JSON), &cfg); err != nil {
		return nil, fmt.Errorf("slot configuration payload for %s/%s (%s) is corrupt: %w",
			row.StoreID, row.PageType, row.Status, err)
	}
	if cfg.Slots == nil {
		return nil, fmt.Errorf("slot configuration payload for %s/%s (%s) has no slots object",
			row.StoreID, row.PageType, row.Status)
	}
	return &cfg, nil
}

// EncodeConfiguration marshals a page configuration for storage.
func EncodeConfiguration(cfg *PageConfiguration) (JSON, error) {
	b, err := json.Marshal(cfg)
	if err != nil {
		return JSON{}, err
	}
	return NewJSON(b), nil
}

// Revision renders the optimistic-concurrency token clients echo back on
// saveDraft. String comparison keeps the check stable across database drivers
// with differing timestamp precision.
func Revision(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
