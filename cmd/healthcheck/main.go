package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/database"
	"github.com/shopweave/plugin-engine/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Rebuild the widget catalog so the report reflects what a server boot
	// would register.
	widgets := services.NewWidgetRegistry()
	if _, err := widgets.RebuildFromStore(services.NewCodeArtifactStore(db)); err != nil {
		log.Printf("Widget registry rebuild failed: %v", err)
	}

	result := services.HealthCheck(cfg, db, widgets)

	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal health check result: %v", err)
	}

	fmt.Println(string(output))

	if result.Status != "healthy" {
		os.Exit(1)
	}
	os.Exit(0)
}
