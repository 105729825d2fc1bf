package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"go.uber.org/zap"
)

// WizardRepository implements port.WizardRepository
type WizardRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWizardRepository creates a new wizard state repository
func NewWizardRepository(db *sql.DB, logger *zap.Logger) port.WizardRepository {
	return &WizardRepository{
		db:     db,
		logger: logger,
	}
}

// Get retrieves a wizard state by key
func (r *WizardRepository) Get(ctx context.Context, key string) (*entity.WizardState, error) {
	query := `
		SELECT state_key, employee_id, current_batch, payload, updated_at
		FROM wizard_states
		WHERE state_key = ?
	`

	var state entity.WizardState
	var employeeID sql.NullInt64
	var payload string

	err := executorFor(ctx, r.db).QueryRowContext(ctx, query, key).Scan(
		&state.Key,
		&employeeID,
		&state.CurrentBatch,
		&payload,
		&state.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get wizard state", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("failed to get wizard state: %w", err)
	}

	state.EmployeeID = employeeID.Int64
	state.Payload = []byte(payload)
	return &state, nil
}

// Upsert inserts or replaces a wizard state
func (r *WizardRepository) Upsert(ctx context.Context, state *entity.WizardState) error {
	query := `
		INSERT INTO wizard_states (state_key, employee_id, current_batch, payload, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(state_key) DO UPDATE SET
			employee_id = excluded.employee_id,
			current_batch = excluded.current_batch,
			payload = excluded.payload,
			updated_at = excluded.updated_at
	`

	payload := string(state.Payload)
	if payload == "" {
		payload = "{}"
	}

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		state.Key,
		nullInt64(state.EmployeeID),
		state.CurrentBatch,
		payload,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to save wizard state", zap.String("key", state.Key), zap.Error(err))
		return fmt.Errorf("failed to save wizard state: %w", err)
	}

	state.UpdatedAt = now
	return nil
}

// Delete removes a wizard state
func (r *WizardRepository) Delete(ctx context.Context, key string) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM wizard_states WHERE state_key = ?`, key); err != nil {
		r.logger.Error("Failed to delete wizard state", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete wizard state: %w", err)
	}
	return nil
}

// DeleteOlderThan removes wizard states not updated since cutoff
func (r *WizardRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := executorFor(ctx, r.db).ExecContext(ctx,
		`DELETE FROM wizard_states WHERE updated_at < ?`, cutoff.UTC())
	if err != nil {
		r.logger.Error("Failed to purge wizard states", zap.Time("cutoff", cutoff), zap.Error(err))
		return 0, fmt.Errorf("failed to purge wizard states: %w", err)
	}

	return result.RowsAffected()
}
