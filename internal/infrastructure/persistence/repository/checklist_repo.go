package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/pkg/utils"
	"go.uber.org/zap"
)

// ChecklistRepository implements port.ChecklistRepository
type ChecklistRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewChecklistRepository creates a new checklist repository
func NewChecklistRepository(db *sql.DB, logger *zap.Logger) port.ChecklistRepository {
	return &ChecklistRepository{
		db:     db,
		logger: logger,
	}
}

const checklistColumns = `
	id, kind, employee_id, employee_name, position, department, reference_date,
	status, tasks, idempotency_key, created_at, updated_at`

// Create creates a new checklist record
func (r *ChecklistRepository) Create(ctx context.Context, record *entity.ChecklistRecord) error {
	query := `
		INSERT INTO checklists (
			kind, employee_id, employee_name, name_key, position, department,
			reference_date, status, tasks, idempotency_key, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	tasks, err := json.Marshal(nonNilTasks(record.Tasks))
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		record.Kind,
		nullInt64(record.EmployeeID),
		record.EmployeeName,
		utils.NormalizeName(record.EmployeeName),
		nullString(record.Position),
		nullString(record.Department),
		nullString(record.ReferenceDate),
		record.Status,
		string(tasks),
		nullString(record.IdempotencyKey),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create checklist",
			zap.String("kind", record.Kind),
			zap.Int64("employee_id", record.EmployeeID),
			zap.Error(err))
		return wrapWriteErr("create checklist", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	record.ID = id
	record.CreatedAt = now
	record.UpdatedAt = now
	return nil
}

// Update overwrites a checklist record by ID
func (r *ChecklistRepository) Update(ctx context.Context, record *entity.ChecklistRecord) error {
	query := `
		UPDATE checklists SET
			employee_id = ?, employee_name = ?, name_key = ?, position = ?, department = ?,
			reference_date = ?, status = ?, tasks = ?, idempotency_key = ?, updated_at = ?
		WHERE id = ?
	`

	tasks, err := json.Marshal(nonNilTasks(record.Tasks))
	if err != nil {
		return fmt.Errorf("failed to marshal tasks: %w", err)
	}

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		nullInt64(record.EmployeeID),
		record.EmployeeName,
		utils.NormalizeName(record.EmployeeName),
		nullString(record.Position),
		nullString(record.Department),
		nullString(record.ReferenceDate),
		record.Status,
		string(tasks),
		nullString(record.IdempotencyKey),
		now,
		record.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update checklist", zap.Int64("id", record.ID), zap.Error(err))
		return wrapWriteErr("update checklist", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("failed to update checklist: no record with id %d", record.ID)
	}

	record.UpdatedAt = now
	return nil
}

// GetByID retrieves a checklist record by ID
func (r *ChecklistRepository) GetByID(ctx context.Context, id int64) (*entity.ChecklistRecord, error) {
	return r.getOne(ctx, `SELECT `+checklistColumns+` FROM checklists WHERE id = ?`, id)
}

// GetByIdempotencyKey retrieves the checklist record owning key
func (r *ChecklistRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.ChecklistRecord, error) {
	return r.getOne(ctx, `SELECT `+checklistColumns+` FROM checklists WHERE idempotency_key = ?`, key)
}

// ListByKind retrieves every record of a kind, most recently updated first
func (r *ChecklistRepository) ListByKind(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error) {
	query := `SELECT ` + checklistColumns + ` FROM checklists WHERE kind = ? ORDER BY updated_at DESC, id DESC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, kind)
	if err != nil {
		r.logger.Error("Failed to list checklists", zap.String("kind", kind), zap.Error(err))
		return nil, fmt.Errorf("failed to list checklists: %w", err)
	}
	defer rows.Close()

	var records []*entity.ChecklistRecord
	for rows.Next() {
		record, err := scanChecklist(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan checklist: %w", err)
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Detach clears the idempotency keys of an employee's checklists
func (r *ChecklistRepository) Detach(ctx context.Context, employeeID int64) error {
	query := `UPDATE checklists SET idempotency_key = NULL, updated_at = ? WHERE employee_id = ? AND idempotency_key IS NOT NULL`

	if _, err := executorFor(ctx, r.db).ExecContext(ctx, query, time.Now().UTC(), employeeID); err != nil {
		r.logger.Error("Failed to detach checklists", zap.Int64("employee_id", employeeID), zap.Error(err))
		return fmt.Errorf("failed to detach checklists: %w", err)
	}
	return nil
}

func (r *ChecklistRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.ChecklistRecord, error) {
	record, err := scanChecklist(executorFor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get checklist", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get checklist: %w", err)
	}
	return record, nil
}

func scanChecklist(row rowScanner) (*entity.ChecklistRecord, error) {
	var c entity.ChecklistRecord
	var employeeID sql.NullInt64
	var position, department, referenceDate, idempotencyKey sql.NullString
	var tasks string

	err := row.Scan(
		&c.ID,
		&c.Kind,
		&employeeID,
		&c.EmployeeName,
		&position,
		&department,
		&referenceDate,
		&c.Status,
		&tasks,
		&idempotencyKey,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tasks), &c.Tasks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tasks of checklist %d: %w", c.ID, err)
	}

	c.EmployeeID = employeeID.Int64
	c.Position = position.String
	c.Department = department.String
	c.ReferenceDate = referenceDate.String
	c.IdempotencyKey = idempotencyKey.String
	return &c, nil
}

func nonNilTasks(tasks []entity.ChecklistTask) []entity.ChecklistTask {
	if tasks == nil {
		return []entity.ChecklistTask{}
	}
	return tasks
}
