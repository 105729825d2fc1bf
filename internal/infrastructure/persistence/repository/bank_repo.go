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

// BankRepository implements port.BankRepository
type BankRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBankRepository creates a new bank repository
func NewBankRepository(db *sql.DB, logger *zap.Logger) port.BankRepository {
	return &BankRepository{
		db:     db,
		logger: logger,
	}
}

const bankColumns = `id, code, name, branch, address, is_active, created_at, updated_at`

// List retrieves one page of banks with their channels plus the total count
func (r *BankRepository) List(ctx context.Context, q entity.ListQuery) ([]*entity.Bank, int, error) {
	q = q.Normalize()

	clause := ""
	var args []interface{}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		clause = ` WHERE LOWER(code) LIKE ? ESCAPE '\' OR LOWER(name) LIKE ? ESCAPE '\' OR LOWER(IFNULL(branch, '')) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := executorFor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM banks`+clause, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count banks", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count banks: %w", err)
	}

	query := `SELECT ` + bankColumns + ` FROM banks` + clause + ` ORDER BY name ASC, id ASC LIMIT ? OFFSET ?`
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error("Failed to list banks", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list banks: %w", err)
	}

	var banks []*entity.Bank
	for rows.Next() {
		bank, err := scanBank(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("failed to scan bank: %w", err)
		}
		banks = append(banks, bank)
	}
	// Close before loading channels; inside a transaction there is only one connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, bank := range banks {
		if err := r.loadChannels(ctx, bank); err != nil {
			return nil, 0, err
		}
	}

	return banks, total, nil
}

// GetByID retrieves a bank with its contact channels
func (r *BankRepository) GetByID(ctx context.Context, id int64) (*entity.Bank, error) {
	return r.getOne(ctx, `SELECT `+bankColumns+` FROM banks WHERE id = ?`, id)
}

// GetByCode retrieves a bank by code, ignoring case
func (r *BankRepository) GetByCode(ctx context.Context, code string) (*entity.Bank, error) {
	return r.getOne(ctx, `SELECT `+bankColumns+` FROM banks WHERE LOWER(code) = LOWER(?)`, code)
}

// Create creates a bank and its contact channels
func (r *BankRepository) Create(ctx context.Context, bank *entity.Bank) error {
	query := `
		INSERT INTO banks (code, name, branch, address, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		bank.Code,
		bank.Name,
		nullString(bank.Branch),
		nullString(bank.Address),
		boolToInt(bank.IsActive),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create bank", zap.String("code", bank.Code), zap.Error(err))
		return wrapWriteErr("create bank", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	bank.ID = id
	bank.CreatedAt = now
	bank.UpdatedAt = now
	return r.writeChannels(ctx, bank)
}

// Update updates a bank and replaces all of its contact channels
func (r *BankRepository) Update(ctx context.Context, bank *entity.Bank) error {
	query := `
		UPDATE banks SET code = ?, name = ?, branch = ?, address = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		bank.Code,
		bank.Name,
		nullString(bank.Branch),
		nullString(bank.Address),
		boolToInt(bank.IsActive),
		now,
		bank.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update bank", zap.Int64("id", bank.ID), zap.Error(err))
		return wrapWriteErr("update bank", err)
	}
	bank.UpdatedAt = now

	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM bank_contact_channels WHERE bank_id = ?`, bank.ID); err != nil {
		return fmt.Errorf("failed to clear bank contact channels: %w", err)
	}

	return r.writeChannels(ctx, bank)
}

// Delete deletes a bank; fails while accounts reference it
func (r *BankRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM banks WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete bank", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete bank: %w", err)
	}
	return nil
}

func (r *BankRepository) getOne(ctx context.Context, query string, arg interface{}) (*entity.Bank, error) {
	bank, err := scanBank(executorFor(ctx, r.db).QueryRowContext(ctx, query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bank", zap.Any("key", arg), zap.Error(err))
		return nil, fmt.Errorf("failed to get bank: %w", err)
	}

	if err := r.loadChannels(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

func (r *BankRepository) writeChannels(ctx context.Context, bank *entity.Bank) error {
	for i := range bank.Channels {
		ch := &bank.Channels[i]
		ch.BankID = bank.ID
		result, err := executorFor(ctx, r.db).ExecContext(ctx,
			`INSERT INTO bank_contact_channels (bank_id, kind, value, label) VALUES (?, ?, ?, ?)`,
			ch.BankID, ch.Kind, ch.Value, nullString(ch.Label))
		if err != nil {
			r.logger.Error("Failed to insert bank contact channel", zap.Int64("bank_id", bank.ID), zap.Error(err))
			return fmt.Errorf("failed to insert bank contact channel: %w", err)
		}
		if ch.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}
	return nil
}

func (r *BankRepository) loadChannels(ctx context.Context, bank *entity.Bank) error {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx,
		`SELECT id, bank_id, kind, value, label FROM bank_contact_channels WHERE bank_id = ? ORDER BY id ASC`,
		bank.ID)
	if err != nil {
		return fmt.Errorf("failed to load bank contact channels: %w", err)
	}
	defer rows.Close()

	bank.Channels = []entity.BankContactChannel{}
	for rows.Next() {
		var ch entity.BankContactChannel
		var label sql.NullString
		if err := rows.Scan(&ch.ID, &ch.BankID, &ch.Kind, &ch.Value, &label); err != nil {
			return fmt.Errorf("failed to scan bank contact channel: %w", err)
		}
		ch.Label = label.String
		bank.Channels = append(bank.Channels, ch)
	}

	return rows.Err()
}

func scanBank(row rowScanner) (*entity.Bank, error) {
	var b entity.Bank
	var branch, address sql.NullString

	if err := row.Scan(&b.ID, &b.Code, &b.Name, &branch, &address, &b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	b.Branch = branch.String
	b.Address = address.String
	return &b, nil
}
