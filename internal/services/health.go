package services

import (
	"fmt"
	"log"
	"strings"

	"github.com/shopweave/plugin-engine/internal/config"
	"github.com/shopweave/plugin-engine/internal/utils"
	"gorm.io/gorm"
)

// HealthCheckResult reports component states for /healthz and the
// container healthcheck binary.
type HealthCheckResult struct {
	Status       string            `json:"status"`
	Database     string            `json:"database"`
	Authorizer   string            `json:"authorizer"`
	Widgets      int               `json:"widgets"`
	Details      map[string]string `json:"details,omitempty"`
	ErrorMessage string            `json:"error,omitempty"`
}

// HealthCheck probes the database and the Authorizer and reports the
// current widget catalog size.
func HealthCheck(cfg *config.Config, db *gorm.DB, widgets *WidgetRegistry) HealthCheckResult {
	result := HealthCheckResult{
		Status:  "healthy",
		Details: make(map[string]string),
	}
	var failures []string

	result.Database = checkDatabase(cfg, db, result.Details)
	if result.Database != "ok" {
		failures = append(failures, fmt.Sprintf("database %s: %s", result.Database, result.Details["database_error"]))
	}

	if err := utils.PingAuthorizer(cfg.AuthzURL); err != nil {
		result.Authorizer = "unreachable"
		result.Details["authorizer_error"] = err.Error()
		failures = append(failures, fmt.Sprintf("authorizer unreachable: %v", err))
	} else {
		result.Authorizer = "ok"
		result.Details["authorizer_url"] = cfg.AuthzURL
	}

	if widgets != nil {
		result.Widgets = widgets.Count()
	}

	if len(failures) > 0 {
		result.Status = "unhealthy"
		result.ErrorMessage = strings.Join(failures, "; ")
		log.Printf("Health check failed: %s", result.ErrorMessage)
	}

	return result
}

func checkDatabase(cfg *config.Config, db *gorm.DB, details map[string]string) string {
	sqlDB, err := db.DB()
	if err != nil {
		details["database_error"] = err.Error()
		return "error"
	}
	if err := sqlDB.Ping(); err != nil {
		details["database_error"] = err.Error()
		return "unreachable"
	}

	details["database_type"] = cfg.DBType
	details["database_name"] = cfg.DBDatabase
	return "ok"
}
