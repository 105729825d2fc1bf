package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"go.uber.org/zap"
)

// EmployeeRepository implements port.EmployeeRepository
type EmployeeRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewEmployeeRepository creates a new employee repository
func NewEmployeeRepository(db *sql.DB, logger *zap.Logger) port.EmployeeRepository {
	return &EmployeeRepository{
		db:     db,
		logger: logger,
	}
}

const employeeColumns = `
	id, first_name, middle_name, last_name, email, phone, position, department,
	hire_date, status, exit_type, exit_date, exit_reason, created_at, updated_at`

// Create creates a new employee
func (r *EmployeeRepository) Create(ctx context.Context, employee *entity.Employee) error {
	query := `
		INSERT INTO employees (
			first_name, middle_name, last_name, email, phone, position, department,
			hire_date, status, exit_type, exit_date, exit_reason, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	if employee.Status == "" {
		employee.Status = entity.EmployeeStatusOnboarding
	}

	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		employee.FirstName,
		nullString(employee.MiddleName),
		employee.LastName,
		employee.Email,
		nullString(employee.Phone),
		employee.Position,
		employee.Department,
		nullString(employee.HireDate),
		employee.Status,
		nullString(employee.ExitType),
		nullString(employee.ExitDate),
		nullString(employee.ExitReason),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create employee", zap.String("email", employee.Email), zap.Error(err))
		return wrapWriteErr("create employee", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	employee.ID = id
	employee.CreatedAt = now
	employee.UpdatedAt = now
	return nil
}

// GetByID retrieves an employee by ID
func (r *EmployeeRepository) GetByID(ctx context.Context, id int64) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = ?`
	return r.getOne(ctx, query, id)
}

// GetByEmail retrieves an employee by email, ignoring case
func (r *EmployeeRepository) GetByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE LOWER(email) = LOWER(?)`
	return r.getOne(ctx, query, strings.TrimSpace(email))
}

// FindByName retrieves employees whose first and last name match, ignoring case
func (r *EmployeeRepository) FindByName(ctx context.Context, firstName, lastName string) ([]*entity.Employee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees
		WHERE LOWER(TRIM(first_name)) = LOWER(TRIM(?)) AND LOWER(TRIM(last_name)) = LOWER(TRIM(?))
		ORDER BY id ASC`

	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, firstName, lastName)
	if err != nil {
		r.logger.Error("Failed to find employees by name", zap.Error(err))
		return nil, fmt.Errorf("failed to find employees: %w", err)
	}
	defer rows.Close()

	return r.scanAll(rows)
}

// List retrieves one page of employees plus the total matching count
func (r *EmployeeRepository) List(ctx context.Context, q entity.ListQuery, status string) ([]*entity.Employee, int, error) {
	q = q.Normalize()

	var where []string
	var args []interface{}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		where = append(where, `(LOWER(first_name || ' ' || last_name) LIKE ? ESCAPE '\'
			OR LOWER(email) LIKE ? ESCAPE '\'
			OR LOWER(position) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if status != "" {
		where = append(where, `status = ?`)
		args = append(args, strings.ToUpper(status))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := executorFor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM employees`+clause, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count employees", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query := `SELECT ` + employeeColumns + ` FROM employees` + clause +
		` ORDER BY last_name ASC, first_name ASC, id ASC LIMIT ? OFFSET ?`
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error("Failed to list employees", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees, err := r.scanAll(rows)
	if err != nil {
		return nil, 0, err
	}
	return employees, total, nil
}

// Update updates all mutable employee fields
func (r *EmployeeRepository) Update(ctx context.Context, employee *entity.Employee) error {
	query := `
		UPDATE employees SET
			first_name = ?, middle_name = ?, last_name = ?, email = ?, phone = ?,
			position = ?, department = ?, hire_date = ?, status = ?,
			exit_type = ?, exit_date = ?, exit_reason = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		employee.FirstName,
		nullString(employee.MiddleName),
		employee.LastName,
		employee.Email,
		nullString(employee.Phone),
		employee.Position,
		employee.Department,
		nullString(employee.HireDate),
		employee.Status,
		nullString(employee.ExitType),
		nullString(employee.ExitDate),
		nullString(employee.ExitReason),
		now,
		employee.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update employee", zap.Int64("id", employee.ID), zap.Error(err))
		return wrapWriteErr("update employee", err)
	}

	employee.UpdatedAt = now
	return nil
}

// UpdateStatus updates only the status column
func (r *EmployeeRepository) UpdateStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE employees SET status = ?, updated_at = ? WHERE id = ?`

	_, err := executorFor(ctx, r.db).ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		r.logger.Error("Failed to update employee status",
			zap.Int64("id", id),
			zap.String("status", status),
			zap.Error(err))
		return fmt.Errorf("failed to update employee status: %w", err)
	}

	return nil
}

// Delete deletes an employee
func (r *EmployeeRepository) Delete(ctx context.Context, id int64) error {
	_, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM employees WHERE id = ?`, id)
	if err != nil {
		r.logger.Error("Failed to delete employee", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.Employee, error) {
	employee, err := scanEmployee(executorFor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get employee", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee, nil
}

func (r *EmployeeRepository) scanAll(rows *sql.Rows) ([]*entity.Employee, error) {
	var employees []*entity.Employee
	for rows.Next() {
		employee, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, employee)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return employees, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEmployee(row rowScanner) (*entity.Employee, error) {
	var e entity.Employee
	var middleName, phone, hireDate, exitType, exitDate, exitReason sql.NullString

	err := row.Scan(
		&e.ID,
		&e.FirstName,
		&middleName,
		&e.LastName,
		&e.Email,
		&phone,
		&e.Position,
		&e.Department,
		&hireDate,
		&e.Status,
		&exitType,
		&exitDate,
		&exitReason,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.MiddleName = middleName.String
	e.Phone = phone.String
	e.HireDate = hireDate.String
	e.ExitType = exitType.String
	e.ExitDate = exitDate.String
	e.ExitReason = exitReason.String
	return &e, nil
}
