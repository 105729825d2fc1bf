package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupDB(t *testing.T) *DB {
	t.Helper()
	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "tx.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	_, err = sqlDB.Exec(`CREATE TABLE items (id INTEGER PRIMARY KEY, name TEXT NOT NULL)`)
	require.NoError(t, err)
	return NewDB(sqlDB, zap.NewNop())
}

func countItems(t *testing.T, db *DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&n))
	return n
}

func TestWithTransaction_Commit(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		require.NotNil(t, TxFromContext(txCtx))
		_, err := ExecutorFor(txCtx, db.DB).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('a')`)
		return err
	})

	require.NoError(t, err)
	assert.Equal(t, 1, countItems(t, db))
}

func TestWithTransaction_RollbackOnError(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(txCtx context.Context) error {
		if _, err := ExecutorFor(txCtx, db.DB).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('a')`); err != nil {
			return err
		}
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, countItems(t, db))
}

func TestWithTransaction_NestedJoinsOuter(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()

	err := db.WithTransaction(ctx, func(outer context.Context) error {
		outerTx := TxFromContext(outer)
		return db.WithTransaction(outer, func(inner context.Context) error {
			assert.Same(t, outerTx, TxFromContext(inner))
			return nil
		})
	})

	require.NoError(t, err)
}

func TestWithTransaction_NestedFailureRollsBackToSavepoint(t *testing.T) {
	db := setupDB(t)
	ctx := context.Background()
	boom := errors.New("boom")

	err := db.WithTransaction(ctx, func(outer context.Context) error {
		if _, err := ExecutorFor(outer, db.DB).ExecContext(outer, `INSERT INTO items (name) VALUES ('kept')`); err != nil {
			return err
		}
		innerErr := db.WithTransaction(outer, func(inner context.Context) error {
			if _, err := ExecutorFor(inner, db.DB).ExecContext(inner, `INSERT INTO items (name) VALUES ('dropped')`); err != nil {
				return err
			}
			return boom
		})
		assert.ErrorIs(t, innerErr, boom)
		return nil
	})

	require.NoError(t, err)
	var names []string
	rows, err := db.Query(`SELECT name FROM items`)
	require.NoError(t, err)
	defer rows.Close()
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	assert.Equal(t, []string{"kept"}, names)
}

func TestWithTransaction_RollbackOnPanic(t *testing.T) {
	db := setupDB(t)

	assert.Panics(t, func() {
		_ = db.WithTransaction(context.Background(), func(txCtx context.Context) error {
			_, _ = ExecutorFor(txCtx, db.DB).ExecContext(txCtx, `INSERT INTO items (name) VALUES ('a')`)
			panic("boom")
		})
	})
	assert.Equal(t, 0, countItems(t, db))
}

func TestExecutorFor_WithoutTransaction(t *testing.T) {
	db := setupDB(t)
	assert.Nil(t, TxFromContext(context.Background()))
	assert.Equal(t, Executor(db.DB), ExecutorFor(context.Background(), db.DB))
}
