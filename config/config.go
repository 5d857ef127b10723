// Package config materializes the service configuration from environment
// variables, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Reconcile ReconcileConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path string
}

// ReconcileConfig holds the periodic advance-balance sweep settings.
type ReconcileConfig struct {
	// CronSchedule is a standard 5-field cron expression. Empty disables
	// the sweep.
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("MILKBOOK_PORT", "8080"),
		},
		Database: DatabaseConfig{
			Path: getenvWithDefault("MILKBOOK_DB", "milkbook.db"),
		},
		Reconcile: ReconcileConfig{
			// Nightly sweep at 02:00 by default.
			CronSchedule: getenvWithDefault("MILKBOOK_RECONCILE_CRON", "0 2 * * *"),
		},
	}
	return cfg, nil
}

func getenvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
