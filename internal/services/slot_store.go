package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/shopweave/plugin-engine/data"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlotConfigurationStore manages the per-store, per-page versioned slot trees.
// State machine per (storeId, pageType): NoConfig -> Draft -> Published, with
// the draft staying editable after publish. Draft writes are guarded by an
// optimistic revision check; edits are human-paced, so a rejected stale write
// with a reload prompt beats pessimistic locking.
type SlotConfigurationStore struct {
	DB *gorm.DB
}

// NewSlotConfigurationStore creates a store over db.
func NewSlotConfigurationStore(db *gorm.DB) *SlotConfigurationStore {
	return &SlotConfigurationStore{DB: db}
}

// GetDraft returns the draft row, lazily seeding it from the page-type default
// template. The seed persists immediately so concurrent editors converge on one
// row: a loser of the insert race re-reads the winner's row.
func (s *SlotConfigurationStore) GetDraft(storeID, pageType string) (*models.SlotConfiguration, *models.PageConfiguration, error) {
	row, err := s.getRow(storeID, pageType, models.ConfigStatusDraft)
	if err == nil {
		cfg, derr := models.DecodeConfiguration(row)
		if derr != nil {
			return nil, nil, derr
		}
		return row, cfg, nil
	}
	if !types.IsCode(err, types.CodeNotFound) {
		return nil, nil, err
	}

	seed := data.DefaultTemplate(pageType)
	row = &models.SlotConfiguration{
		StoreID:       storeID,
		PageType:      pageType,
		Status:        models.ConfigStatusDraft,
		Configuration: models.NewJSON(seed),
	}
	if cerr := s.DB.Create(row).Error; cerr != nil {
		// Someone else seeded between our read and write; take their row.
		row, err = s.getRow(storeID, pageType, models.ConfigStatusDraft)
		if err != nil {
			return nil, nil, cerr
		}
	}

	cfg, derr := models.DecodeConfiguration(row)
	if derr != nil {
		return nil, nil, derr
	}
	return row, cfg, nil
}

// SaveDraft validates tree and writes it to the draft row when the stored
// revision still matches expectedRevision. Mismatch fails with STALE_WRITE;
// callers re-fetch and retry, never blind-overwrite.
func (s *SlotConfigurationStore) SaveDraft(storeID, pageType string, tree *models.PageConfiguration, expectedRevision string) (*models.SlotConfiguration, error) {
	if err := s.Validate(tree); err != nil {
		return nil, err
	}
	payload, err := models.EncodeConfiguration(tree)
	if err != nil {
		return nil, err
	}

	var saved models.SlotConfiguration
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		row, err := getRowTx(tx, storeID, pageType, models.ConfigStatusDraft)
		if err != nil {
			return err
		}

		stored := models.Revision(row.UpdatedAt)
		if stored != expectedRevision {
			return types.StaleWrite(expectedRevision, stored)
		}

		now := time.Now().UTC()
		if !now.After(row.UpdatedAt) {
			now = row.UpdatedAt.Add(time.Millisecond)
		}
		result := tx.Model(&models.SlotConfiguration{}).
			Where("config_id = ? AND updated_at = ?", row.ConfigID, row.UpdatedAt).
			Updates(map[string]interface{}{
				"configuration": payload,
				"updated_at":    now,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return types.StaleWrite(expectedRevision, "concurrent")
		}

		saved = *row
		saved.Configuration = payload
		saved.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

// Validate enforces the structural invariants of a slot tree: unique slot ids
// (node ids must match their map keys), non-negative grid positions, and
// syntactically well-formed widget references. A widgetId that does not
// resolve right now is fine; resolution degrades to a placeholder later.
func (s *SlotConfigurationStore) Validate(tree *models.PageConfiguration) error {
	if tree == nil || tree.Slots == nil {
		return types.Validation("slots", "configuration requires a slots object")
	}
	for slotID, node := range tree.Slots {
		if err := validateNode(slotID, node); err != nil {
			return err
		}
	}
	for viewport, overrides := range tree.Viewports {
		if viewport == "" {
			return types.Validation("viewports", "viewport name must not be empty")
		}
		for slotID, node := range overrides {
			if err := validateNode(slotID, node); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateNode(slotID string, node models.SlotNode) error {
	if slotID == "" {
		return types.Validation("slots", "slot id must not be empty")
	}
	if node.ID != slotID {
		return types.Validation(slotID, "slot %q carries mismatched node id %q", slotID, node.ID)
	}
	if node.Position.Col < 0 || node.Position.Row < 0 {
		return types.Validation(slotID, "slot %q has negative position (%d,%d)", slotID, node.Position.Col, node.Position.Row)
	}
	if node.WidgetID != "" {
		pluginID, name, ok := strings.Cut(node.WidgetID, ":")
		if !ok || pluginID == "" || name == "" {
			return types.Validation(slotID, "slot %q references malformed widgetId %q (want pluginId:name)", slotID, node.WidgetID)
		}
	}
	return nil
}

// Publish copies the current draft verbatim into the published row inside one
// transaction. The draft stays intact so edits continue from the published
// state.
func (s *SlotConfigurationStore) Publish(storeID, pageType string) (*models.SlotConfiguration, error) {
	var published models.SlotConfiguration
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		draft, err := getRowTx(tx, storeID, pageType, models.ConfigStatusDraft)
		if err != nil {
			return err
		}

		row, err := getRowTx(tx, storeID, pageType, models.ConfigStatusPublished)
		if err != nil {
			if !types.IsCode(err, types.CodeNotFound) {
				return err
			}
			published = models.SlotConfiguration{
				StoreID:       storeID,
				PageType:      pageType,
				Status:        models.ConfigStatusPublished,
				Configuration: draft.Configuration,
			}
			return tx.Create(&published).Error
		}

		result := tx.Model(&models.SlotConfiguration{}).
			Where("config_id = ?", row.ConfigID).
			Updates(map[string]interface{}{
				"configuration": draft.Configuration,
				"updated_at":    time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		published = *row
		published.Configuration = draft.Configuration
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("Published layout %s/%s", storeID, pageType)
	return &published, nil
}

// GetPublished returns the published row, the only version the live
// storefront renderer reads.
func (s *SlotConfigurationStore) GetPublished(storeID, pageType string) (*models.SlotConfiguration, error) {
	return s.getRow(storeID, pageType, models.ConfigStatusPublished)
}

// MarkCustom flags a draft slot as operator-owned, unlocking deletion.
func (s *SlotConfigurationStore) MarkCustom(storeID, pageType, slotID string) error {
	return s.mutateDraftSlot(storeID, pageType, slotID, func(tree *models.PageConfiguration, node models.SlotNode) error {
		node.IsCustom = true
		tree.Slots[slotID] = node
		return nil
	})
}

// DeleteSlot removes a slot from the draft tree and every viewport override.
// Slots without isCustom are platform-owned and protected.
func (s *SlotConfigurationStore) DeleteSlot(storeID, pageType, slotID string) error {
	return s.mutateDraftSlot(storeID, pageType, slotID, func(tree *models.PageConfiguration, node models.SlotNode) error {
		if !node.IsCustom {
			return types.ProtectedSlot(slotID)
		}
		delete(tree.Slots, slotID)
		for _, overrides := range tree.Viewports {
			delete(overrides, slotID)
		}
		return nil
	})
}

func (s *SlotConfigurationStore) mutateDraftSlot(storeID, pageType, slotID string, mutate func(*models.PageConfiguration, models.SlotNode) error) error {
	return s.DB.Transaction(func(tx *gorm.DB) error {
		row, err := getRowTx(tx, storeID, pageType, models.ConfigStatusDraft)
		if err != nil {
			return err
		}
		tree, err := models.DecodeConfiguration(row)
		if err != nil {
			return err
		}
		node, ok := tree.Slots[slotID]
		if !ok {
			return types.NotFound(slotID, "slot %q not found in draft %s/%s", slotID, storeID, pageType)
		}
		if err := mutate(tree, node); err != nil {
			return err
		}
		payload, err := models.EncodeConfiguration(tree)
		if err != nil {
			return err
		}
		return tx.Model(&models.SlotConfiguration{}).
			Where("config_id = ?", row.ConfigID).
			Updates(map[string]interface{}{
				"configuration": payload,
				"updated_at":    time.Now().UTC(),
			}).Error
	})
}

func (s *SlotConfigurationStore) getRow(storeID, pageType, status string) (*models.SlotConfiguration, error) {
	return getRowTx(s.DB, storeID, pageType, status)
}

func getRowTx(tx *gorm.DB, storeID, pageType, status string) (*models.SlotConfiguration, error) {
	var row models.SlotConfiguration
	err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
		Where("store_id = ? AND page_type = ? AND status = ?", storeID, pageType, status).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("missing", "no %s configuration for %s/%s", status, storeID, pageType)
		}
		return nil, err
	}
	return &row, nil
}
