package database_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/database"
	"github.com/shopweave/plugin-engine/internal/models"
	"github.com/shopweave/plugin-engine/internal/services"
	"github.com/shopweave/plugin-engine/internal/types"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// TestWithMariaDB exercises the engine against a real MariaDB container
func TestWithMariaDB(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	dbImage := os.Getenv("DB_IMAGE")
	if dbImage == "" {
		dbImage = "mariadb:11"
	}

	// Start MariaDB container
	mariadbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        dbImage,
			ExposedPorts: []string{"3306/tcp"},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": "rootpass",
				"MYSQL_DATABASE":      "testdb",
				"MYSQL_USER":          "testuser",
				"MYSQL_PASSWORD":      "testpass",
			},
			WaitingFor: wait.ForLog("ready for connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Fatalf("Failed to start MariaDB container: %v", err)
	}
	defer func() {
		if err := mariadbContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate MariaDB container: %v", err)
		}
	}()

	// Get container host and port
	host, err := mariadbContainer.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := mariadbContainer.MappedPort(ctx, "3306")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	// Create config
	cfg := &config.Config{
		DBType:            "mysql",
		DBHost:            host,
		DBPort:            port.Port(),
		DBDatabase:        "testdb",
		DBAppUser:         "testuser",
		DBAppPassword:     "testpass",
		DBConnectionLimit: 5,
	}

	// Wait for database to be ready
	time.Sleep(5 * time.Second)

	// Connect to database
	db, err := database.ConnectWithRetry(cfg, 30*time.Second)
	if err != nil {
		t.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run migrations
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	// Run tests
	t.Run("PluginAndArtifactRoundTrip", func(t *testing.T) {
		testPluginAndArtifactRoundTrip(t, db)
	})

	t.Run("DraftPublishCycle", func(t *testing.T) {
		testDraftPublishCycle(t, db)
	})

	t.Run("StaleDraftRejected", func(t *testing.T) {
		testStaleDraftRejected(t, db)
	})
}

// testPluginAndArtifactRoundTrip registers a plugin, attaches artifacts and
// checks the natural-key unique index holds under a real MySQL dialect.
func testPluginAndArtifactRoundTrip(t *testing.T, db *gorm.DB) {
	widgets := services.NewWidgetRegistry()
	artifacts := services.NewCodeArtifactStore(db)
	registry := services.NewPluginRegistry(db, widgets, artifacts, services.NewNavigationRegistry(db))

	plugin := &models.Plugin{Slug: "promo-banner", Name: "Promo Banner", Status: models.PluginStatusActive}
	if err := registry.Register(plugin); err != nil {
		t.Fatalf("Failed to register plugin: %v", err)
	}
	if plugin.ID == "" {
		t.Fatal("Expected a generated plugin id")
	}

	artifact := &models.CodeArtifact{
		PluginID: plugin.ID,
		Kind:     models.ArtifactKindScript,
		FileName: "banner.js",
		Content:  "render(banner)",
		IsWidget: true,
	}
	if err := artifacts.Put(artifact, false); err != nil {
		t.Fatalf("Failed to put artifact: %v", err)
	}

	// Same natural key upserts in place rather than inserting a second row
	update := &models.CodeArtifact{
		PluginID: plugin.ID,
		Kind:     models.ArtifactKindScript,
		FileName: "banner.js",
		Content:  "render(banner, v2)",
		IsWidget: true,
	}
	if err := artifacts.Put(update, false); err != nil {
		t.Fatalf("Failed to upsert artifact: %v", err)
	}

	list, err := artifacts.ListByPlugin(plugin.ID, "")
	if err != nil {
		t.Fatalf("Failed to list artifacts: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("Expected 1 artifact after upsert, got %d", len(list))
	}
	if list[0].Content != "render(banner, v2)" {
		t.Errorf("Expected updated content, got %q", list[0].Content)
	}

	// Duplicate active slug is refused
	dup := &models.Plugin{Slug: "promo-banner", Name: "Other", Status: models.PluginStatusActive}
	err = registry.Register(dup)
	if !types.IsCode(err, types.CodeDuplicateSlug) {
		t.Errorf("Expected DUPLICATE_SLUG, got %v", err)
	}

	// Cascade delete takes the artifacts with the plugin
	if err := registry.Delete(plugin.ID); err != nil {
		t.Fatalf("Failed to delete plugin: %v", err)
	}
	var count int64
	if err := db.Model(&models.CodeArtifact{}).Where("plugin_id = ?", plugin.ID).Count(&count).Error; err != nil {
		t.Fatalf("Failed to count artifacts: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 artifacts after delete, got %d", count)
	}
}

// testDraftPublishCycle drives a draft through edit and publish against the
// store/page unique index.
func testDraftPublishCycle(t *testing.T, db *gorm.DB) {
	slots := services.NewSlotConfigurationStore(db)

	row, tree, err := slots.GetDraft("store-int", "cart")
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	if _, ok := tree.Slots["cart-header"]; !ok {
		t.Fatal("Expected template-seeded cart-header slot")
	}

	tree.Slots["int-slot"] = models.SlotNode{
		ID:       "int-slot",
		Type:     "banner",
		Position: models.Position{Col: 1, Row: 9},
		IsCustom: true,
	}
	if _, err := slots.SaveDraft("store-int", "cart", tree, models.Revision(row.UpdatedAt)); err != nil {
		t.Fatalf("Failed to save draft: %v", err)
	}

	published, err := slots.Publish("store-int", "cart")
	if err != nil {
		t.Fatalf("Failed to publish: %v", err)
	}
	pubTree, err := models.DecodeConfiguration(published)
	if err != nil {
		t.Fatalf("Failed to decode published payload: %v", err)
	}
	if _, ok := pubTree.Slots["int-slot"]; !ok {
		t.Error("Expected published snapshot to carry the custom slot")
	}

	// Republish reuses the published row instead of violating the unique index
	again, err := slots.Publish("store-int", "cart")
	if err != nil {
		t.Fatalf("Failed to republish: %v", err)
	}
	if again.ConfigID != published.ConfigID {
		t.Errorf("Expected republish to keep row %d, got %d", published.ConfigID, again.ConfigID)
	}
}

// testStaleDraftRejected checks the compare-and-swap save path under MySQL
// DATETIME(6) timestamp precision.
func testStaleDraftRejected(t *testing.T, db *gorm.DB) {
	slots := services.NewSlotConfigurationStore(db)

	row, tree, err := slots.GetDraft("store-stale", "home")
	if err != nil {
		t.Fatalf("Failed to get draft: %v", err)
	}
	revision := models.Revision(row.UpdatedAt)

	if _, err := slots.SaveDraft("store-stale", "home", tree, revision); err != nil {
		t.Fatalf("First save failed: %v", err)
	}

	_, err = slots.SaveDraft("store-stale", "home", tree, revision)
	if !types.IsCode(err, types.CodeStaleWrite) {
		t.Errorf("Expected STALE_WRITE on revision replay, got %v", err)
	}
}
