package services

import (
	"encoding/json"
	"log"
	"strings"
	"sync"

	cmap "github.com/orcaman/concurrent-map/v2"
	"github.com/shopweave/plugin-engine/internal/models"
)

// WidgetDefinition is a renderable widget exposed by a plugin. Derived from
// widget-tagged code artifacts, never persisted on its own.
type WidgetDefinition struct {
	WidgetID      string          `json:"widgetId"`
	PluginID      string          `json:"pluginId"`
	Name          string          `json:"name"`
	DisplayName   string          `json:"displayName"`
	ComponentCode string          `json:"-"`
	ConfigSchema  json.RawMessage `json:"configSchema,omitempty"`
	DefaultConfig json.RawMessage `json:"defaultConfig,omitempty"`
	Category      string          `json:"category,omitempty"`
}

// WidgetID computes the deterministic registry key for a plugin widget.
func WidgetID(pluginID, name string) string {
	return pluginID + ":" + name
}

// WidgetRegistry is the process-lifetime catalog of renderable widgets. It is
// an injected service, not a package singleton. Readers always see a complete
// map: rebuilds prepare a fresh map and swap the handle in one critical
// section.
type WidgetRegistry struct {
	mu      sync.RWMutex
	widgets cmap.ConcurrentMap[string, WidgetDefinition]
}

// NewWidgetRegistry creates an empty registry.
func NewWidgetRegistry() *WidgetRegistry {
	return &WidgetRegistry{widgets: cmap.New[WidgetDefinition]()}
}

func (r *WidgetRegistry) snapshot() cmap.ConcurrentMap[string, WidgetDefinition] {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.widgets
}

// RegisterWidget computes the widget id and registers the definition,
// overwriting any prior registration for that id so redeploys are idempotent.
// Returns the widget id.
func (r *WidgetRegistry) RegisterWidget(pluginID string, def WidgetDefinition) string {
	def.PluginID = pluginID
	def.WidgetID = WidgetID(pluginID, def.Name)
	r.snapshot().Set(def.WidgetID, def)
	return def.WidgetID
}

// UnregisterPluginWidgets removes every widget owned by pluginID and returns
// the removed count.
func (r *WidgetRegistry) UnregisterPluginWidgets(pluginID string) int {
	snap := r.snapshot()
	prefix := pluginID + ":"
	removed := 0
	for _, key := range snap.Keys() {
		if strings.HasPrefix(key, prefix) {
			snap.Remove(key)
			removed++
		}
	}
	return removed
}

// GetWidget returns the definition for widgetID. A missing widget is a
// renderable-fallback condition for callers, not an error: widget code may
// deploy asynchronously relative to slot configuration referencing it.
func (r *WidgetRegistry) GetWidget(widgetID string) (WidgetDefinition, bool) {
	return r.snapshot().Get(widgetID)
}

// GetWidgetsByPlugin returns every widget owned by pluginID.
func (r *WidgetRegistry) GetWidgetsByPlugin(pluginID string) []WidgetDefinition {
	snap := r.snapshot()
	prefix := pluginID + ":"
	defs := make([]WidgetDefinition, 0)
	for item := range snap.IterBuffered() {
		if strings.HasPrefix(item.Key, prefix) {
			defs = append(defs, item.Val)
		}
	}
	return defs
}

// Count returns the number of registered widgets.
func (r *WidgetRegistry) Count() int {
	return r.snapshot().Count()
}

// Swap replaces the whole backing map with defs. Concurrent readers observe
// either the pre- or post-swap state, never a partially populated map.
func (r *WidgetRegistry) Swap(defs []WidgetDefinition) {
	fresh := cmap.New[WidgetDefinition]()
	for _, def := range defs {
		def.WidgetID = WidgetID(def.PluginID, def.Name)
		fresh.Set(def.WidgetID, def)
	}

	r.mu.Lock()
	r.widgets = fresh
	r.mu.Unlock()
}

// RebuildFromStore loads every active plugin's widget artifacts and swaps them
// in. Called at startup and after bulk plugin changes.
func (r *WidgetRegistry) RebuildFromStore(store *CodeArtifactStore) (int, error) {
	artifacts, err := store.ListActiveWidgetArtifacts()
	if err != nil {
		return 0, err
	}

	defs := make([]WidgetDefinition, 0, len(artifacts))
	for _, a := range artifacts {
		defs = append(defs, WidgetDefinitionFromArtifact(a))
	}
	r.Swap(defs)
	log.Printf("Widget registry rebuilt: %d widgets", len(defs))
	return len(defs), nil
}

// WidgetDefinitionFromArtifact maps a widget-tagged artifact row onto its
// in-memory definition.
func WidgetDefinitionFromArtifact(a models.CodeArtifact) WidgetDefinition {
	name := a.WidgetName
	if name == "" {
		name = a.NaturalKey
	}
	displayName := a.DisplayName
	if displayName == "" {
		displayName = name
	}
	return WidgetDefinition{
		WidgetID:      WidgetID(a.PluginID, name),
		PluginID:      a.PluginID,
		Name:          name,
		DisplayName:   displayName,
		ComponentCode: a.Content,
		ConfigSchema:  json.RawMessage(a.ConfigSchema.JSON),
		DefaultConfig: json.RawMessage(a.DefaultConfig.JSON),
		Category:      a.Category,
	}
}
