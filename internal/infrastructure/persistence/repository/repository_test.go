package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/garyjia/backoffice-console/internal/infrastructure/persistence/sqlite"
	"github.com/garyjia/backoffice-console/migrations"
	"github.com/garyjia/backoffice-console/pkg/database"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupTestDB opens a migrated database in a temp dir
func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{Path: filepath.Join(t.TempDir(), "test.db")}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, database.NewMigrator(db, logger).RunMigrationsFS(migrations.FS))
	return db
}

func newTxManager(db *database.DB) *sqlite.DB {
	return sqlite.NewDB(db.DB, zap.NewNop())
}

func ctx() context.Context {
	return context.Background()
}
