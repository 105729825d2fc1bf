package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"go.uber.org/zap"
)

type txKey struct{}

// txScope is the transaction carried in a context. depth counts the
// WithTransaction calls nested inside the outermost one.
type txScope struct {
	tx    *sql.Tx
	depth int
}

// DB implements port.TransactionManager over a SQLite connection pool.
// Nested WithTransaction calls share the outer transaction and run inside a
// SAVEPOINT, so an inner failure undoes only the inner writes.
type DB struct {
	*sql.DB
	logger *zap.Logger
}

// NewDB creates a transaction manager for sqlDB
func NewDB(sqlDB *sql.DB, logger *zap.Logger) *DB {
	return &DB{DB: sqlDB, logger: logger}
}

// WithTransaction runs fn with a context carrying the transaction
func (db *DB) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok {
		return db.withSavepoint(ctx, scope, fn)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		db.logger.Error("Failed to begin transaction", zap.Error(err))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			db.logger.Error("Failed to rollback transaction", zap.Error(rbErr))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, &txScope{tx: tx})); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		db.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

func (db *DB) withSavepoint(ctx context.Context, outer *txScope, fn func(ctx context.Context) error) error {
	inner := &txScope{tx: outer.tx, depth: outer.depth + 1}
	name := fmt.Sprintf("sp_%d", inner.depth)

	if _, err := outer.tx.ExecContext(ctx, "SAVEPOINT "+name); err != nil {
		return fmt.Errorf("failed to create savepoint: %w", err)
	}

	if err := fn(context.WithValue(ctx, txKey{}, inner)); err != nil {
		if _, rbErr := outer.tx.ExecContext(ctx, "ROLLBACK TO "+name); rbErr != nil {
			db.logger.Error("Failed to rollback savepoint", zap.String("savepoint", name), zap.Error(rbErr))
		}
		return err
	}

	if _, err := outer.tx.ExecContext(ctx, "RELEASE "+name); err != nil {
		return fmt.Errorf("failed to release savepoint: %w", err)
	}
	return nil
}

// TxFromContext returns the transaction started by WithTransaction, if any
func TxFromContext(ctx context.Context) *sql.Tx {
	if scope, ok := ctx.Value(txKey{}).(*txScope); ok {
		return scope.tx
	}
	return nil
}

// Executor covers both *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// ExecutorFor returns the transaction carried by ctx, or db when there is none
func ExecutorFor(ctx context.Context, db *sql.DB) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return db
}

var _ port.TransactionManager = (*DB)(nil)
