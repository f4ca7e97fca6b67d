package services_test

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopweave/plugin-engine/internal/models"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing. The pool is
// pinned to one connection because each :memory: connection is its own
// database.
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to access sql handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.Plugin{},
		&models.CodeArtifact{},
		&models.NavigationItem{},
		&models.SlotConfiguration{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createPlugin inserts a plugin row directly, bypassing the registry.
func createPlugin(t *testing.T, db *gorm.DB, id, status string) *models.Plugin {
	plugin := &models.Plugin{
		ID:     id,
		Slug:   id + "-slug",
		Name:   id + " name",
		Status: status,
	}
	if err := db.Create(plugin).Error; err != nil {
		t.Fatalf("Failed to create plugin %s: %v", id, err)
	}
	return plugin
}
