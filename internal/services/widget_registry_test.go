package services_test

import (
	"testing"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidgetIDFormat(t *testing.T) {
	assert.Equal(t, "p1:hero", services.WidgetID("p1", "hero"))
}

func TestRegisterAndGetWidget(t *testing.T) {
	registry := services.NewWidgetRegistry()

	id := registry.RegisterWidget("p1", services.WidgetDefinition{
		PluginID:    "p1",
		Name:        "hero",
		DisplayName: "Hero Banner",
	})
	assert.Equal(t, "p1:hero", id)

	def, ok := registry.GetWidget("p1:hero")
	require.True(t, ok)
	assert.Equal(t, "Hero Banner", def.DisplayName)

	_, ok = registry.GetWidget("p1:unknown")
	assert.False(t, ok)
}

func TestUnregisterPluginWidgetsEmptiesPlugin(t *testing.T) {
	registry := services.NewWidgetRegistry()
	registry.RegisterWidget("p1", services.WidgetDefinition{PluginID: "p1", Name: "a"})
	registry.RegisterWidget("p1", services.WidgetDefinition{PluginID: "p1", Name: "b"})
	registry.RegisterWidget("p2", services.WidgetDefinition{PluginID: "p2", Name: "c"})

	removed := registry.UnregisterPluginWidgets("p1")
	assert.Equal(t, 2, removed)
	assert.Empty(t, registry.GetWidgetsByPlugin("p1"))

	// Other plugins are untouched.
	assert.Len(t, registry.GetWidgetsByPlugin("p2"), 1)
	assert.Equal(t, 1, registry.Count())
}

func TestSwapReplacesCatalog(t *testing.T) {
	registry := services.NewWidgetRegistry()
	registry.RegisterWidget("p1", services.WidgetDefinition{PluginID: "p1", Name: "old"})

	registry.Swap([]services.WidgetDefinition{
		{PluginID: "p2", Name: "new-a"},
		{PluginID: "p2", Name: "new-b"},
	})

	_, ok := registry.GetWidget("p1:old")
	assert.False(t, ok)
	assert.Equal(t, 2, registry.Count())
	_, ok = registry.GetWidget("p2:new-a")
	assert.True(t, ok)
}

func TestRebuildFromStore(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewCodeArtifactStore(db)
	createPlugin(t, db, "active-p", models.PluginStatusActive)
	createPlugin(t, db, "disabled-p", models.PluginStatusDisabled)

	require.NoError(t, store.Put(&models.CodeArtifact{
		PluginID:   "active-p",
		Kind:       models.ArtifactKindScript,
		FileName:   "w.js",
		IsWidget:   true,
		WidgetName: "hero",
	}, false))
	require.NoError(t, store.Put(&models.CodeArtifact{
		PluginID:   "disabled-p",
		Kind:       models.ArtifactKindScript,
		FileName:   "w.js",
		IsWidget:   true,
		WidgetName: "hidden",
	}, false))

	registry := services.NewWidgetRegistry()
	count, err := registry.RebuildFromStore(store)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, ok := registry.GetWidget("active-p:hero")
	assert.True(t, ok)
	_, ok = registry.GetWidget("disabled-p:hidden")
	assert.False(t, ok)
}
