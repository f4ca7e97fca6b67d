package services_test

import (
	"testing"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) (*services.PluginRegistry, *services.CodeArtifactStore, *services.WidgetRegistry) {
	db := setupTestDB(t)
	widgets := services.NewWidgetRegistry()
	artifacts := services.NewCodeArtifactStore(db)
	navigation := services.NewNavigationRegistry(db)
	return services.NewPluginRegistry(db, widgets, artifacts, navigation), artifacts, widgets
}

func TestRegisterGeneratesOpaqueID(t *testing.T) {
	registry, _, _ := newRegistry(t)

	plugin := &models.Plugin{Slug: "reviews", Name: "Reviews"}
	require.NoError(t, registry.Register(plugin))
	assert.NotEmpty(t, plugin.ID)
	assert.Equal(t, models.PluginStatusPending, plugin.Status)

	// Supplied ids pass through untouched.
	supplied := &models.Plugin{ID: "vendor-reviews-2", Slug: "reviews-2", Name: "Reviews 2"}
	require.NoError(t, registry.Register(supplied))
	assert.Equal(t, "vendor-reviews-2", supplied.ID)
}

func TestRegisterRejectsActiveDuplicateSlug(t *testing.T) {
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p1", Slug: "reviews", Name: "Reviews", Status: models.PluginStatusActive,
	}))

	err := registry.Register(&models.Plugin{
		ID: "p2", Slug: "reviews", Name: "Reviews Again", Status: models.PluginStatusActive,
	})
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeDuplicateSlug))
}

func TestRegisterAllowsSlugOfDisabledPlugin(t *testing.T) {
	registry, _, _ := newRegistry(t)

	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p1", Slug: "reviews", Name: "Reviews", Status: models.PluginStatusDisabled,
	}))
	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p2", Slug: "reviews", Name: "Reviews v2", Status: models.PluginStatusActive,
	}))
}

func TestSetStatusTogglesWidgets(t *testing.T) {
	registry, artifacts, widgets := newRegistry(t)

	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p1", Slug: "banner", Name: "Banner", Status: models.PluginStatusActive,
	}))
	require.NoError(t, artifacts.Put(&models.CodeArtifact{
		PluginID:   "p1",
		Kind:       models.ArtifactKindScript,
		FileName:   "banner.js",
		IsWidget:   true,
		WidgetName: "hero-banner",
	}, false))
	require.NoError(t, registry.SyncWidgets("p1"))

	widgetID := services.WidgetID("p1", "hero-banner")
	_, ok := widgets.GetWidget(widgetID)
	require.True(t, ok)

	// Disabling removes the plugin's widgets.
	require.NoError(t, registry.SetStatus("p1", models.PluginStatusDisabled))
	_, ok = widgets.GetWidget(widgetID)
	assert.False(t, ok)
	assert.Empty(t, widgets.GetWidgetsByPlugin("p1"))

	// Re-enabling restores them from the artifact store.
	require.NoError(t, registry.SetStatus("p1", models.PluginStatusActive))
	_, ok = widgets.GetWidget(widgetID)
	assert.True(t, ok)
}

func TestResolveDistinguishesMissingFromDisabled(t *testing.T) {
	registry, _, _ := newRegistry(t)

	_, err := registry.Resolve("nope")
	require.Error(t, err)
	de, ok := types.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, types.CodeNotFound, de.Code)
	assert.Equal(t, "missing", de.Detail)

	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p1", Slug: "x", Name: "X", Status: models.PluginStatusDisabled,
	}))
	_, err = registry.Resolve("p1")
	require.Error(t, err)
	de, ok = types.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "disabled", de.Detail)
}

func TestDeleteCascades(t *testing.T) {
	registry, artifacts, widgets := newRegistry(t)

	require.NoError(t, registry.Register(&models.Plugin{
		ID: "p1", Slug: "x", Name: "X", Status: models.PluginStatusActive,
	}))
	require.NoError(t, artifacts.Put(&models.CodeArtifact{
		PluginID:   "p1",
		Kind:       models.ArtifactKindScript,
		FileName:   "w.js",
		IsWidget:   true,
		WidgetName: "w",
	}, false))
	require.NoError(t, registry.SyncWidgets("p1"))
	require.NoError(t, registry.Navigation.Upsert(&models.NavigationItem{
		Key: "x-menu", Label: "X Menu", PluginID: strPtr("p1"), IsVisible: true,
	}))

	require.NoError(t, registry.Delete("p1"))

	_, err := registry.Resolve("p1")
	assert.True(t, types.IsCode(err, types.CodeNotFound))

	remaining, err := artifacts.ListByPlugin("p1", "")
	require.NoError(t, err)
	assert.Empty(t, remaining)
	assert.Equal(t, 0, widgets.Count())

	// Uninstall also takes the plugin's navigation entries.
	tree, err := registry.Navigation.ListTree()
	require.NoError(t, err)
	assert.Empty(t, tree)
}
