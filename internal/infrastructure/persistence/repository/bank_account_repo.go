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

// BankAccountRepository implements port.BankAccountRepository
type BankAccountRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBankAccountRepository creates a new bank account repository
func NewBankAccountRepository(db *sql.DB, logger *zap.Logger) port.BankAccountRepository {
	return &BankAccountRepository{
		db:     db,
		logger: logger,
	}
}

const bankAccountSelect = `
	SELECT a.id, a.bank_id, b.name, a.account_number, a.account_name, a.account_type,
		a.currency, a.gl_code, a.is_active, a.created_at, a.updated_at
	FROM bank_accounts a
	JOIN banks b ON b.id = a.bank_id`

// List retrieves one page of accounts plus the total count
func (r *BankAccountRepository) List(ctx context.Context, q entity.ListQuery, bankID int64) ([]*entity.BankAccount, int, error) {
	q = q.Normalize()

	var where []string
	var args []interface{}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		where = append(where, `(LOWER(a.account_number) LIKE ? ESCAPE '\'
			OR LOWER(a.account_name) LIKE ? ESCAPE '\'
			OR LOWER(b.name) LIKE ? ESCAPE '\')`)
		args = append(args, pattern, pattern, pattern)
	}
	if bankID > 0 {
		where = append(where, `a.bank_id = ?`)
		args = append(args, bankID)
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM bank_accounts a JOIN banks b ON b.id = a.bank_id` + clause
	if err := executorFor(ctx, r.db).QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count bank accounts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count bank accounts: %w", err)
	}

	query := bankAccountSelect + clause + ` ORDER BY b.name ASC, a.account_number ASC LIMIT ? OFFSET ?`
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error("Failed to list bank accounts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*entity.BankAccount
	for rows.Next() {
		account, err := scanBankAccount(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan bank account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return accounts, total, nil
}

// GetByID retrieves an account by ID
func (r *BankAccountRepository) GetByID(ctx context.Context, id int64) (*entity.BankAccount, error) {
	return r.getOne(ctx, bankAccountSelect+` WHERE a.id = ?`, id)
}

// GetByAccountNumber retrieves an account by its number
func (r *BankAccountRepository) GetByAccountNumber(ctx context.Context, number string) (*entity.BankAccount, error) {
	return r.getOne(ctx, bankAccountSelect+` WHERE a.account_number = ?`, number)
}

// CountByBank counts accounts held at a bank
func (r *BankAccountRepository) CountByBank(ctx context.Context, bankID int64) (int, error) {
	var n int
	err := executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bank_accounts WHERE bank_id = ?`, bankID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count bank accounts: %w", err)
	}
	return n, nil
}

// Create creates a new account
func (r *BankAccountRepository) Create(ctx context.Context, account *entity.BankAccount) error {
	query := `
		INSERT INTO bank_accounts (
			bank_id, account_number, account_name, account_type, currency, gl_code,
			is_active, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		account.BankID,
		account.AccountNumber,
		account.AccountName,
		account.AccountType,
		account.Currency,
		nullString(account.GLCode),
		boolToInt(account.IsActive),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create bank account", zap.String("account_number", account.AccountNumber), zap.Error(err))
		return wrapWriteErr("create bank account", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	account.ID = id
	account.CreatedAt = now
	account.UpdatedAt = now
	return nil
}

// Update updates an account
func (r *BankAccountRepository) Update(ctx context.Context, account *entity.BankAccount) error {
	query := `
		UPDATE bank_accounts SET
			bank_id = ?, account_number = ?, account_name = ?, account_type = ?,
			currency = ?, gl_code = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		account.BankID,
		account.AccountNumber,
		account.AccountName,
		account.AccountType,
		account.Currency,
		nullString(account.GLCode),
		boolToInt(account.IsActive),
		now,
		account.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update bank account", zap.Int64("id", account.ID), zap.Error(err))
		return wrapWriteErr("update bank account", err)
	}

	account.UpdatedAt = now
	return nil
}

// Delete deletes an account
func (r *BankAccountRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM bank_accounts WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete bank account", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete bank account: %w", err)
	}
	return nil
}

func (r *BankAccountRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.BankAccount, error) {
	account, err := scanBankAccount(executorFor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bank account", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get bank account: %w", err)
	}
	return account, nil
}

func scanBankAccount(row rowScanner) (*entity.BankAccount, error) {
	var a entity.BankAccount
	var glCode sql.NullString

	err := row.Scan(
		&a.ID,
		&a.BankID,
		&a.BankName,
		&a.AccountNumber,
		&a.AccountName,
		&a.AccountType,
		&a.Currency,
		&glCode,
		&a.IsActive,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.GLCode = glCode.String
	return &a, nil
}
