package port

import (
	"context"
	"errors"
	"time"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// Repositories return (nil, nil) from single-record lookups when the row does not exist.

// EmployeeRepository defines persistence operations for Employee
type EmployeeRepository interface {
	Create(ctx context.Context, employee *entity.Employee) error
	GetByID(ctx context.Context, id int64) (*entity.Employee, error)
	GetByEmail(ctx context.Context, email string) (*entity.Employee, error)

	// FindByName matches first and last name case-insensitively
	FindByName(ctx context.Context, firstName, lastName string) ([]*entity.Employee, error)

	// List filters by free-text search over name/email/position and an optional status
	List(ctx context.Context, q entity.ListQuery, status string) ([]*entity.Employee, int, error)

	Update(ctx context.Context, employee *entity.Employee) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	Delete(ctx context.Context, id int64) error
}

// HistoryRepository defines persistence operations for EmployeeHistory
type HistoryRepository interface {
	Create(ctx context.Context, history *entity.EmployeeHistory) error
	GetByEmployeeID(ctx context.Context, employeeID int64) ([]*entity.EmployeeHistory, error)
}

// ChecklistRepository defines persistence operations for ChecklistRecord
type ChecklistRepository interface {
	Create(ctx context.Context, record *entity.ChecklistRecord) error
	Update(ctx context.Context, record *entity.ChecklistRecord) error
	GetByID(ctx context.Context, id int64) (*entity.ChecklistRecord, error)
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.ChecklistRecord, error)

	// ListByKind returns every record of a kind, most recently updated first
	ListByKind(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error)

	// Detach clears the idempotency keys of an employee's records so the next
	// save starts a fresh checklist (used on rehire)
	Detach(ctx context.Context, employeeID int64) error
}

// TemplateRepository defines persistence operations for ClearanceTemplate
type TemplateRepository interface {
	ListByDepartment(ctx context.Context, department string) ([]*entity.ClearanceTemplate, error)
	ListDepartments(ctx context.Context) ([]string, error)

	// ReplaceDepartment swaps a department's template for tasks, in order
	ReplaceDepartment(ctx context.Context, department string, tasks []string) error
}

// WizardRepository defines persistence operations for WizardState
type WizardRepository interface {
	Get(ctx context.Context, key string) (*entity.WizardState, error)
	Upsert(ctx context.Context, state *entity.WizardState) error
	Delete(ctx context.Context, key string) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// AgencyRepository defines persistence operations for Agency with its
// contacts and process steps
type AgencyRepository interface {
	List(ctx context.Context, q entity.ListQuery) ([]*entity.Agency, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Agency, error)
	GetByName(ctx context.Context, name string) (*entity.Agency, error)

	// Create and Update write nested contacts and steps; Update replaces them
	Create(ctx context.Context, agency *entity.Agency) error
	Update(ctx context.Context, agency *entity.Agency) error
	Delete(ctx context.Context, id int64) error
}

// GeneralContactRepository defines persistence operations for GeneralContact
type GeneralContactRepository interface {
	List(ctx context.Context, q entity.ListQuery) ([]*entity.GeneralContact, int, error)
	GetByID(ctx context.Context, id int64) (*entity.GeneralContact, error)
	Create(ctx context.Context, contact *entity.GeneralContact) error
	Update(ctx context.Context, contact *entity.GeneralContact) error
	Delete(ctx context.Context, id int64) error
}

// BankRepository defines persistence operations for Bank with its contact channels
type BankRepository interface {
	List(ctx context.Context, q entity.ListQuery) ([]*entity.Bank, int, error)
	GetByID(ctx context.Context, id int64) (*entity.Bank, error)
	GetByCode(ctx context.Context, code string) (*entity.Bank, error)
	Create(ctx context.Context, bank *entity.Bank) error

	// Update replaces the bank's contact channels with bank.Channels
	Update(ctx context.Context, bank *entity.Bank) error
	Delete(ctx context.Context, id int64) error
}

// BankAccountRepository defines persistence operations for BankAccount
type BankAccountRepository interface {
	// List filters by search and, when bankID > 0, by bank
	List(ctx context.Context, q entity.ListQuery, bankID int64) ([]*entity.BankAccount, int, error)
	GetByID(ctx context.Context, id int64) (*entity.BankAccount, error)
	GetByAccountNumber(ctx context.Context, number string) (*entity.BankAccount, error)
	CountByBank(ctx context.Context, bankID int64) (int, error)
	Create(ctx context.Context, account *entity.BankAccount) error
	Update(ctx context.Context, account *entity.BankAccount) error
	Delete(ctx context.Context, id int64) error
}

// AssetRepository defines persistence operations for Asset metadata
type AssetRepository interface {
	Create(ctx context.Context, asset *entity.Asset) error
	GetByID(ctx context.Context, id string) (*entity.Asset, error)
	ListByFolder(ctx context.Context, folder string) ([]*entity.Asset, error)
	Delete(ctx context.Context, id string) error
}

// StatsRepository computes dashboard aggregates
type StatsRepository interface {
	Stats(ctx context.Context) (*entity.Stats, error)
}

// TransactionManager handles database transactions
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ErrDuplicate is returned by repositories when a unique constraint rejects a write
var ErrDuplicate = errors.New("duplicate record")
