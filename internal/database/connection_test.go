package database_test

import (
	"path/filepath"
	"testing"

	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/database"
	"github.com/shopweave/plugin-engine/internal/models"
)

func TestConnectSqliteAndMigrate(t *testing.T) {
	cfg := &config.Config{
		DBType:            "sqlite",
		DBDatabase:        filepath.Join(t.TempDir(), "engine.db"),
		DBConnectionLimit: 2,
	}

	db, err := database.Connect(cfg)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer database.Close(db)

	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	// The migrated schema accepts a full row round trip.
	plugin := &models.Plugin{ID: "p1", Slug: "x", Name: "X", Status: models.PluginStatusActive}
	if err := db.Create(plugin).Error; err != nil {
		t.Fatalf("Failed to insert plugin: %v", err)
	}

	var got models.Plugin
	if err := db.First(&got, "id = ?", "p1").Error; err != nil {
		t.Fatalf("Failed to read plugin: %v", err)
	}
	if got.Slug != "x" {
		t.Errorf("Expected slug x, got %s", got.Slug)
	}
}

func TestConnectRejectsUnknownType(t *testing.T) {
	cfg := &config.Config{
		DBType:     "oracle",
		DBDatabase: "whatever",
	}

	if _, err := database.Connect(cfg); err == nil {
		t.Fatal("Expected an error for an unsupported database type")
	}
}
