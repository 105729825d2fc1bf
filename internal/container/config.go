// Package container provides dependency injection and lifecycle management
// for the back-office console following Clean Architecture principles.
package container

import (
	"fmt"
	"time"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// Storage configuration
	Storage StorageConfig

	// Session configuration for checklist working copies and wizard drafts
	Session SessionConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Path to SQLite database file
	Path string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// MigrationsDir reads migrations from disk instead of the embedded set
	MigrationsDir string
}

// StorageConfig holds file storage settings.
type StorageConfig struct {
	// AssetDir is the base directory for uploaded images
	AssetDir string
}

// SessionConfig holds checklist session and janitor settings.
type SessionConfig struct {
	IdleTTL            time.Duration
	WizardTTL          time.Duration
	AtomicFinal        bool
	LegacyNameMatching bool
	JanitorSchedule    string
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:         "data/console.db",
			MaxOpenConns: 1,
			MaxIdleConns: 1,
		},
		Storage: StorageConfig{
			AssetDir: "data/assets",
		},
		Session: SessionConfig{
			IdleTTL:            2 * time.Hour,
			WizardTTL:          7 * 24 * time.Hour,
			AtomicFinal:        true,
			LegacyNameMatching: true,
			JanitorSchedule:    "0 */5 * * * *",
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Storage.AssetDir == "" {
		return fmt.Errorf("storage.asset_dir is required")
	}
	if c.Session.IdleTTL <= 0 {
		return fmt.Errorf("session.idle_ttl must be positive")
	}
	if c.Session.WizardTTL <= 0 {
		return fmt.Errorf("session.wizard_ttl must be positive")
	}
	if c.Session.JanitorSchedule == "" {
		return fmt.Errorf("session.janitor_schedule is required")
	}
	return nil
}
