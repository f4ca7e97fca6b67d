package services_test

import (
	"testing"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpsertAssignsOrderPerScope(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	first := &models.NavigationItem{Key: "catalog", Label: "Catalog", IsVisible: true}
	require.NoError(t, registry.Upsert(first))
	assert.Equal(t, 1, first.OrderPosition)

	second := &models.NavigationItem{Key: "orders", Label: "Orders", IsVisible: true}
	require.NoError(t, registry.Upsert(second))
	assert.Equal(t, 2, second.OrderPosition)

	// Children order independently of the top level.
	child := &models.NavigationItem{Key: "catalog-products", Label: "Products", ParentKey: strPtr("catalog"), IsVisible: true}
	require.NoError(t, registry.Upsert(child))
	assert.Equal(t, 1, child.OrderPosition)
}

func TestUpsertPreservesExistingOrderAndCoreFlag(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	require.NoError(t, registry.SeedCore([]models.NavigationItem{
		{Key: "dashboard", Label: "Dashboard", OrderPosition: 1, IsVisible: true},
	}))

	// A plugin re-labeling a core entry cannot strip its core flag.
	update := &models.NavigationItem{Key: "dashboard", Label: "Home", IsVisible: true}
	require.NoError(t, registry.Upsert(update))
	assert.True(t, update.IsCore)
	assert.Equal(t, 1, update.OrderPosition)

	tree, err := registry.ListTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "Home", tree[0].Label)
}

func TestListTreeNestsChildren(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	require.NoError(t, registry.Upsert(&models.NavigationItem{Key: "design", Label: "Design", IsVisible: true}))
	require.NoError(t, registry.Upsert(&models.NavigationItem{Key: "design-themes", Label: "Themes", ParentKey: strPtr("design"), IsVisible: true}))
	require.NoError(t, registry.Upsert(&models.NavigationItem{Key: "design-themes-editor", Label: "Editor", ParentKey: strPtr("design-themes"), IsVisible: true}))

	tree, err := registry.ListTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	require.Len(t, tree[0].Children, 1)
	require.Len(t, tree[0].Children[0].Children, 1)
	assert.Equal(t, "Editor", tree[0].Children[0].Children[0].Label)
}

func TestListTreeSurfacesOrphans(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	require.NoError(t, registry.Upsert(&models.NavigationItem{Key: "lost", Label: "Lost", ParentKey: strPtr("gone"), IsVisible: true}))

	tree, err := registry.ListTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.True(t, tree[0].Orphaned)
	assert.Equal(t, "lost", tree[0].Key)
}

func TestRemoveProtectsCoreItems(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	require.NoError(t, registry.SeedCore([]models.NavigationItem{
		{Key: "settings", Label: "Settings", IsVisible: true},
	}))
	require.NoError(t, registry.Upsert(&models.NavigationItem{Key: "reviews", Label: "Reviews", IsVisible: true}))

	err := registry.Remove("settings")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeProtectedItem))

	require.NoError(t, registry.Remove("reviews"))

	err = registry.Remove("reviews")
	assert.True(t, types.IsCode(err, types.CodeNotFound))
}

func TestRemoveByPluginSparesCoreEntries(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	require.NoError(t, registry.SeedCore([]models.NavigationItem{
		{Key: "dashboard", Label: "Dashboard", IsVisible: true},
	}))
	require.NoError(t, registry.Upsert(&models.NavigationItem{
		Key: "reviews", Label: "Reviews", PluginID: strPtr("p1"), IsVisible: true,
	}))
	require.NoError(t, registry.Upsert(&models.NavigationItem{
		Key: "reviews-settings", Label: "Review Settings", ParentKey: strPtr("reviews"), PluginID: strPtr("p1"), IsVisible: true,
	}))

	removed, err := registry.RemoveByPlugin("p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	tree, err := registry.ListTree()
	require.NoError(t, err)
	require.Len(t, tree, 1)
	assert.Equal(t, "dashboard", tree[0].Key)
}

func TestSeedCoreIsIdempotent(t *testing.T) {
	registry := services.NewNavigationRegistry(setupTestDB(t))

	items := []models.NavigationItem{
		{Key: "dashboard", Label: "Dashboard", OrderPosition: 1, IsVisible: true},
		{Key: "settings", Label: "Settings", OrderPosition: 2, IsVisible: true},
	}
	require.NoError(t, registry.SeedCore(items))
	require.NoError(t, registry.SeedCore([]models.NavigationItem{
		{Key: "dashboard", Label: "Dashboard", OrderPosition: 1, IsVisible: true},
		{Key: "settings", Label: "Settings", OrderPosition: 2, IsVisible: true},
	}))

	tree, err := registry.ListTree()
	require.NoError(t, err)
	assert.Len(t, tree, 2)
}
