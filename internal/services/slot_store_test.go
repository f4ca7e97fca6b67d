package services_test

import (
	"sync"
	"testing"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDraftSeedsFromTemplateOnce(t *testing.T) {
	db := setupTestDB(t)
	store := services.NewSlotConfigurationStore(db)

	row1, cfg1, err := store.GetDraft("store-1", "cart")
	require.NoError(t, err)
	assert.Contains(t, cfg1.Slots, "cart-header")

	row2, _, err := store.GetDraft("store-1", "cart")
	require.NoError(t, err)
	assert.Equal(t, row1.ConfigID, row2.ConfigID)

	var count int64
	require.NoError(t, db.Model(&models.SlotConfiguration{}).
		Where("store_id = ? AND page_type = ?", "store-1", "cart").
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestGetDraftUnknownPageTypeSeedsEmpty(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	_, cfg, err := store.GetDraft("store-1", "landing-xyz")
	require.NoError(t, err)
	assert.Empty(t, cfg.Slots)
}

func TestSaveDraftRejectsStaleRevision(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	row, cfg, err := store.GetDraft("store-1", "home")
	require.NoError(t, err)
	revision := models.Revision(row.UpdatedAt)

	cfg.Slots["promo-strip"] = models.SlotNode{
		ID:       "promo-strip",
		Type:     "region",
		Position: models.Position{Col: 0, Row: 9},
		IsCustom: true,
	}

	// First writer wins.
	saved, err := store.SaveDraft("store-1", "home", cfg, revision)
	require.NoError(t, err)
	assert.NotEqual(t, revision, models.Revision(saved.UpdatedAt))

	// Second writer echoing the old revision loses.
	_, err = store.SaveDraft("store-1", "home", cfg, revision)
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeStaleWrite))

	// Re-fetching yields a revision that works.
	row, cfg, err = store.GetDraft("store-1", "home")
	require.NoError(t, err)
	_, err = store.SaveDraft("store-1", "home", cfg, models.Revision(row.UpdatedAt))
	assert.NoError(t, err)
}

func TestSaveDraftConcurrentWritersOneWins(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	row, cfg, err := store.GetDraft("store-1", "home")
	require.NoError(t, err)
	revision := models.Revision(row.UpdatedAt)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.SaveDraft("store-1", "home", cfg, revision)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, stales int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case types.IsCode(err, types.CodeStaleWrite):
			stales++
		default:
			t.Fatalf("Unexpected save error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, stales)
}

func TestSaveDraftValidates(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	_, cfg, err := store.GetDraft("store-1", "home")
	require.NoError(t, err)

	cfg.Slots["bad"] = models.SlotNode{
		ID:       "mismatch",
		Position: models.Position{Col: 0, Row: 0},
	}
	_, err = store.SaveDraft("store-1", "home", cfg, "any")
	assert.True(t, types.IsCode(err, types.CodeValidation))

	delete(cfg.Slots, "bad")
	cfg.Slots["neg"] = models.SlotNode{
		ID:       "neg",
		Position: models.Position{Col: -1, Row: 0},
	}
	_, err = store.SaveDraft("store-1", "home", cfg, "any")
	assert.True(t, types.IsCode(err, types.CodeValidation))

	delete(cfg.Slots, "neg")
	cfg.Slots["badwidget"] = models.SlotNode{
		ID:       "badwidget",
		WidgetID: "no-colon-here",
	}
	_, err = store.SaveDraft("store-1", "home", cfg, "any")
	assert.True(t, types.IsCode(err, types.CodeValidation))
}

func TestPublishRoundTrip(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	row, cfg, err := store.GetDraft("store-1", "product")
	require.NoError(t, err)

	cfg.Slots["size-chart"] = models.SlotNode{
		ID:       "size-chart",
		Type:     "region",
		Position: models.Position{Col: 0, Row: 5},
		IsCustom: true,
	}
	_, err = store.SaveDraft("store-1", "product", cfg, models.Revision(row.UpdatedAt))
	require.NoError(t, err)

	_, err = store.Publish("store-1", "product")
	require.NoError(t, err)

	published, err := store.GetPublished("store-1", "product")
	require.NoError(t, err)
	publishedCfg, err := models.DecodeConfiguration(published)
	require.NoError(t, err)
	assert.Contains(t, publishedCfg.Slots, "size-chart")

	// Draft stays editable after publish.
	_, draftCfg, err := store.GetDraft("store-1", "product")
	require.NoError(t, err)
	assert.Contains(t, draftCfg.Slots, "size-chart")

	// Republish overwrites the published row in place.
	published2, err := store.Publish("store-1", "product")
	require.NoError(t, err)
	assert.Equal(t, published.ConfigID, published2.ConfigID)
}

func TestPublishWithoutDraftFails(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	_, err := store.Publish("store-1", "cart")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeNotFound))
}

func TestDeleteSlotRequiresCustomFlag(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	_, cfg, err := store.GetDraft("store-1", "cart")
	require.NoError(t, err)
	require.Contains(t, cfg.Slots, "cart-summary")

	// Platform slot is protected.
	err = store.DeleteSlot("store-1", "cart", "cart-summary")
	require.Error(t, err)
	assert.True(t, types.IsCode(err, types.CodeProtectedSlot))

	// After marking custom, deletion works and clears viewport overrides too.
	require.NoError(t, store.MarkCustom("store-1", "cart", "cart-summary"))
	require.NoError(t, store.DeleteSlot("store-1", "cart", "cart-summary"))

	_, cfg, err = store.GetDraft("store-1", "cart")
	require.NoError(t, err)
	assert.NotContains(t, cfg.Slots, "cart-summary")
	for viewport, overrides := range cfg.Viewports {
		assert.NotContains(t, overrides, "cart-summary", "viewport %s", viewport)
	}
}

func TestDeleteSlotMissing(t *testing.T) {
	store := services.NewSlotConfigurationStore(setupTestDB(t))

	_, _, err := store.GetDraft("store-1", "cart")
	require.NoError(t, err)

	err = store.DeleteSlot("store-1", "cart", "no-such-slot")
	assert.True(t, types.IsCode(err, types.CodeNotFound))
}
