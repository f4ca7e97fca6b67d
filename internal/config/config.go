package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port   string
	AppEnv string // "production" hides placeholder markers in resolved trees

	// Database configuration
	DBType            string // mysql, postgres, sqlite, sqlserver, etc.
	DBHost            string
	DBPort            string
	DBDatabase        string
	DBAppUser         string
	DBAppPassword     string
	DBConnectionLimit int

	// Controller runtime configuration
	ControllerTimeoutMs int
	ControllerPoolSize  int

	// Authorizer configuration
	AuthzURL      string
	AuthzClientID string
}

// Load loads configuration from environment variables. A .env file in the
// working directory is applied first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "3000"),
		AppEnv:              getEnv("APP_ENV", "development"),
		DBType:              getEnv("DB_TYPE", "mysql"),
		DBHost:              getEnv("DB_HOST", "localhost"),
		DBPort:              getEnv("DB_PORT", "3306"),
		DBDatabase:          getEnv("DB_DATABASE", ""),
		DBAppUser:           getEnv("DB_APP_USER", ""),
		DBAppPassword:       getEnv("DB_APP_PASSWORD", ""),
		DBConnectionLimit:   getEnvAsInt("DB_CONNECTION_LIMIT", 5),
		ControllerTimeoutMs: getEnvAsInt("CONTROLLER_TIMEOUT_MS", 2000),
		ControllerPoolSize:  getEnvAsInt("CONTROLLER_POOL_SIZE", 32),
		AuthzURL:            getEnv("AUTHZ_URL", ""),
		AuthzClientID:       getEnv("AUTHZ_CLIENT_ID", ""),
	}

	// Validate required fields
	if cfg.DBDatabase == "" {
		return nil, fmt.Errorf("DB_DATABASE is required")
	}
	if cfg.DBAppUser == "" && cfg.DBType != "sqlite" {
		return nil, fmt.Errorf("DB_APP_USER is required")
	}
	if cfg.AuthzURL == "" {
		return nil, fmt.Errorf("AUTHZ_URL is required")
	}
	if cfg.AuthzClientID == "" {
		return nil, fmt.Errorf("AUTHZ_CLIENT_ID is required")
	}
	if cfg.ControllerTimeoutMs <= 0 {
		return nil, fmt.Errorf("CONTROLLER_TIMEOUT_MS must be positive")
	}
	if cfg.ControllerPoolSize <= 0 {
		return nil, fmt.Errorf("CONTROLLER_POOL_SIZE must be positive")
	}

	return cfg, nil
}

// Production reports whether the service runs with production behavior.
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
