package main

import (
	"fmt"
	"log"

	"github.com/shopweave/plugin-engine/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Dumps the DDL that AutoMigrate generates for the engine models, including
// the unique indexes the upsert and seeding paths depend on.
func main() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		log.Fatal(err)
	}

	if err := db.AutoMigrate(
		&models.Plugin{},
		&models.CodeArtifact{},
		&models.NavigationItem{},
		&models.SlotConfiguration{},
	); err != nil {
		log.Fatal(err)
	}

	type entry struct {
		Type string
		Name string
		SQL  string
	}
	var entries []entry
	db.Raw("SELECT type, name, sql FROM sqlite_master WHERE sql IS NOT NULL ORDER BY type DESC, name").Scan(&entries)

	for _, e := range entries {
		fmt.Printf("\n-- %s %s\n%s\n", e.Type, e.Name, e.SQL)
	}
}
