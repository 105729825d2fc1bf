package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"go.uber.org/zap"
)

// TemplateRepository implements port.TemplateRepository
type TemplateRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewTemplateRepository creates a new clearance template repository
func NewTemplateRepository(db *sql.DB, logger *zap.Logger) port.TemplateRepository {
	return &TemplateRepository{
		db:     db,
		logger: logger,
	}
}

// ListByDepartment retrieves a department's template in sequence order
func (r *TemplateRepository) ListByDepartment(ctx context.Context, department string) ([]*entity.ClearanceTemplate, error) {
	query := `
		SELECT id, department, sequence_number, task
		FROM clearance_templates
		WHERE department = ?
		ORDER BY sequence_number ASC, id ASC
	`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, department)
	if err != nil {
		r.logger.Error("Failed to list clearance templates", zap.String("department", department), zap.Error(err))
		return nil, fmt.Errorf("failed to list clearance templates: %w", err)
	}
	defer rows.Close()

	var templates []*entity.ClearanceTemplate
	for rows.Next() {
		var t entity.ClearanceTemplate
		if err := rows.Scan(&t.ID, &t.Department, &t.SequenceNumber, &t.Task); err != nil {
			return nil, fmt.Errorf("failed to scan clearance template: %w", err)
		}
		templates = append(templates, &t)
	}

	return templates, rows.Err()
}

// ListDepartments retrieves every department that has a template
func (r *TemplateRepository) ListDepartments(ctx context.Context) ([]string, error) {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx,
		`SELECT DISTINCT department FROM clearance_templates ORDER BY department ASC`)
	if err != nil {
		r.logger.Error("Failed to list template departments", zap.Error(err))
		return nil, fmt.Errorf("failed to list template departments: %w", err)
	}
	defer rows.Close()

	var departments []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}

	return departments, rows.Err()
}

// ReplaceDepartment deletes a department's template and inserts tasks in order.
// Callers wanting atomicity run it inside a transaction.
func (r *TemplateRepository) ReplaceDepartment(ctx context.Context, department string, tasks []string) error {
	exec := executorFor(ctx, r.db)

	if _, err := exec.ExecContext(ctx, `DELETE FROM clearance_templates WHERE department = ?`, department); err != nil {
		r.logger.Error("Failed to clear clearance template", zap.String("department", department), zap.Error(err))
		return fmt.Errorf("failed to clear clearance template: %w", err)
	}

	for i, task := range tasks {
		_, err := exec.ExecContext(ctx,
			`INSERT INTO clearance_templates (department, sequence_number, task) VALUES (?, ?, ?)`,
			department, i+1, task)
		if err != nil {
			r.logger.Error("Failed to insert clearance template task",
				zap.String("department", department),
				zap.String("task", task),
				zap.Error(err))
			return wrapWriteErr("insert clearance template task", err)
		}
	}

	return nil
}
