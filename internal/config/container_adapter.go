package config

import (
	"github.com/garyjia/backoffice-console/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Path:            c.Database.Path,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			MigrationsDir:   c.Database.MigrationsDir,
		},
		Storage: container.StorageConfig{
			AssetDir: c.Storage.AssetDir,
		},
		Session: container.SessionConfig{
			IdleTTL:            c.Session.IdleTTL,
			WizardTTL:          c.Session.WizardTTL,
			AtomicFinal:        c.Session.AtomicFinal,
			LegacyNameMatching: c.Session.LegacyNameMatching,
			JanitorSchedule:    c.Session.JanitorSchedule,
		},
	}
}
