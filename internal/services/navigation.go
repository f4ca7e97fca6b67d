package services

import (
	"errors"
	"log"

	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/types"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NavigationRegistry is the hierarchical catalog of admin-menu entries.
type NavigationRegistry struct {
	DB *gorm.DB
}

// NewNavigationRegistry creates a registry over db.
func NewNavigationRegistry(db *gorm.DB) *NavigationRegistry {
	return &NavigationRegistry{DB: db}
}

// NavigationNode is a tree node produced by ListTree. Orphaned marks items
// whose parentKey does not resolve; they surface top-level so data bugs stay
// visible instead of hiding menu entries.
type NavigationNode struct {
	models.NavigationItem
	Orphaned bool             `json:"orphaned,omitempty"`
	Children []NavigationNode `json:"children,omitempty"`
}

// Upsert inserts or updates an item keyed by Key. When OrderPosition is
// omitted (zero), it is assigned max+1 within the item's parent scope, so
// top-level and nested sequences stay independent.
func (n *NavigationRegistry) Upsert(item *models.NavigationItem) error {
	if item.Key == "" {
		return types.Validation("key", "navigation item requires key")
	}
	if item.Label == "" {
		return types.Validation("label", "navigation item requires label")
	}

	return n.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.NavigationItem
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("`key` = ?", item.Key).First(&existing).Error
		found := err == nil
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if item.OrderPosition == 0 {
			if found {
				item.OrderPosition = existing.OrderPosition
			} else {
				max, err := maxOrderPosition(tx, item.ParentKey)
				if err != nil {
					return err
				}
				item.OrderPosition = max + 1
			}
		}

		if found {
			item.ItemID = existing.ItemID
			item.CreatedAt = existing.CreatedAt
			// Core items stay platform-owned regardless of the caller's payload.
			if existing.IsCore {
				item.IsCore = true
			}
			return tx.Save(item).Error
		}
		return tx.Create(item).Error
	})
}

func maxOrderPosition(tx *gorm.DB, parentKey *string) (int, error) {
	query := tx.Model(&models.NavigationItem{})
	if parentKey == nil {
		query = query.Where("parent_key IS NULL")
	} else {
		query = query.Where("parent_key = ?", *parentKey)
	}
	var max struct{ Max int }
	if err := query.Select("COALESCE(MAX(order_position), 0) AS max").Scan(&max).Error; err != nil {
		return 0, err
	}
	return max.Max, nil
}

// ListTree groups children under their parents, ordered by orderPosition then
// key. Items with an unresolvable parentKey are returned top-level with the
// orphaned flag set and a warning logged.
func (n *NavigationRegistry) ListTree() ([]NavigationNode, error) {
	var items []models.NavigationItem
	if err := n.DB.Order("order_position ASC, `key` ASC").Find(&items).Error; err != nil {
		return nil, err
	}

	exists := make(map[string]bool, len(items))
	children := make(map[string][]models.NavigationItem)
	for _, item := range items {
		exists[item.Key] = true
	}
	for _, item := range items {
		if item.ParentKey != nil && exists[*item.ParentKey] {
			children[*item.ParentKey] = append(children[*item.ParentKey], item)
		}
	}

	// building is the recursion guard; a parent cycle would otherwise loop.
	building := make(map[string]bool, len(items))
	var build func(item models.NavigationItem) NavigationNode
	build = func(item models.NavigationItem) NavigationNode {
		node := NavigationNode{NavigationItem: item}
		building[item.Key] = true
		for _, child := range children[item.Key] {
			if building[child.Key] {
				continue
			}
			node.Children = append(node.Children, build(child))
		}
		delete(building, item.Key)
		return node
	}

	roots := make([]NavigationNode, 0)
	for _, item := range items {
		if item.ParentKey == nil {
			roots = append(roots, build(item))
			continue
		}
		if !exists[*item.ParentKey] {
			log.Printf("Navigation item %q references missing parent %q; surfacing top-level", item.Key, *item.ParentKey)
			node := build(item)
			node.Orphaned = true
			roots = append(roots, node)
		}
	}
	return roots, nil
}

// Remove deletes the item with the given key. Core items are protected.
func (n *NavigationRegistry) Remove(key string) error {
	return n.DB.Transaction(func(tx *gorm.DB) error {
		var item models.NavigationItem
		err := tx.Session(&gorm.Session{Logger: tx.Logger.LogMode(logger.Silent)}).
			Where("`key` = ?", key).First(&item).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("missing", "navigation item %q not found", key)
			}
			return err
		}
		if item.IsCore {
			return types.ProtectedItem(key)
		}
		return tx.Delete(&item).Error
	})
}

// RemoveByPlugin drops every entry a plugin contributed. Core entries never
// carry a pluginId, so they are not affected.
func (n *NavigationRegistry) RemoveByPlugin(pluginID string) (int64, error) {
	result := n.DB.Where("plugin_id = ? AND is_core = ?", pluginID, false).Delete(&models.NavigationItem{})
	return result.RowsAffected, result.Error
}

// SeedCore upserts the platform-owned entries at startup.
func (n *NavigationRegistry) SeedCore(items []models.NavigationItem) error {
	for i := range items {
		items[i].IsCore = true
		if err := n.Upsert(&items[i]); err != nil {
			return err
		}
	}
	return nil
}
