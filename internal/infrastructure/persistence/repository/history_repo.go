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

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Create creates a new history record
func (r *HistoryRepository) Create(ctx context.Context, history *entity.EmployeeHistory) error {
	query := `
		INSERT INTO employee_history (
			employee_id, previous_status, new_status, action, reason, created_at
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	if history.CreatedAt.IsZero() {
		history.CreatedAt = time.Now().UTC()
	}

	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		history.EmployeeID,
		nullString(history.PreviousStatus),
		history.NewStatus,
		history.Action,
		nullString(history.Reason),
		history.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create history record", zap.Error(err))
		return fmt.Errorf("failed to create history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	history.ID = id
	return nil
}

// GetByEmployeeID retrieves all history records for an employee
func (r *HistoryRepository) GetByEmployeeID(ctx context.Context, employeeID int64) ([]*entity.EmployeeHistory, error) {
	query := `
		SELECT id, employee_id, previous_status, new_status, action, reason, created_at
		FROM employee_history
		WHERE employee_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, employeeID)
	if err != nil {
		r.logger.Error("Failed to get history by employee ID", zap.Int64("employee_id", employeeID), zap.Error(err))
		return nil, fmt.Errorf("failed to get history: %w", err)
	}
	defer rows.Close()

	var records []*entity.EmployeeHistory
	for rows.Next() {
		var record entity.EmployeeHistory
		var previous, reason sql.NullString
		err := rows.Scan(
			&record.ID,
			&record.EmployeeID,
			&previous,
			&record.NewStatus,
			&record.Action,
			&reason,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history: %w", err)
		}
		record.PreviousStatus = previous.String
		record.Reason = reason.String
		records = append(records, &record)
	}

	return records, rows.Err()
}
