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

// GeneralContactRepository implements port.GeneralContactRepository
type GeneralContactRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewGeneralContactRepository creates a new general contact repository
func NewGeneralContactRepository(db *sql.DB, logger *zap.Logger) port.GeneralContactRepository {
	return &GeneralContactRepository{
		db:     db,
		logger: logger,
	}
}

const contactColumns = `id, name, category, email, phone, notes, created_at, updated_at`

// List retrieves one page of contacts plus the total count
func (r *GeneralContactRepository) List(ctx context.Context, q entity.ListQuery) ([]*entity.GeneralContact, int, error) {
	q = q.Normalize()

	clause := ""
	var args []interface{}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		clause = ` WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(IFNULL(category, '')) LIKE ? ESCAPE '\' OR LOWER(IFNULL(email, '')) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern, pattern)
	}

	var total int
	if err := executorFor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM general_contacts`+clause, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count general contacts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count general contacts: %w", err)
	}

	query := `SELECT ` + contactColumns + ` FROM general_contacts` + clause + ` ORDER BY name ASC, id ASC LIMIT ? OFFSET ?`
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error("Failed to list general contacts", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list general contacts: %w", err)
	}
	defer rows.Close()

	var contacts []*entity.GeneralContact
	for rows.Next() {
		contact, err := scanContact(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan general contact: %w", err)
		}
		contacts = append(contacts, contact)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return contacts, total, nil
}

// GetByID retrieves a contact by ID
func (r *GeneralContactRepository) GetByID(ctx context.Context, id int64) (*entity.GeneralContact, error) {
	contact, err := scanContact(executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM general_contacts WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get general contact", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get general contact: %w", err)
	}
	return contact, nil
}

// Create creates a new contact
func (r *GeneralContactRepository) Create(ctx context.Context, contact *entity.GeneralContact) error {
	query := `
		INSERT INTO general_contacts (name, category, email, phone, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		contact.Name,
		nullString(contact.Category),
		nullString(contact.Email),
		nullString(contact.Phone),
		nullString(contact.Notes),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create general contact", zap.Error(err))
		return wrapWriteErr("create general contact", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	contact.ID = id
	contact.CreatedAt = now
	contact.UpdatedAt = now
	return nil
}

// Update updates a contact
func (r *GeneralContactRepository) Update(ctx context.Context, contact *entity.GeneralContact) error {
	query := `
		UPDATE general_contacts SET name = ?, category = ?, email = ?, phone = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		contact.Name,
		nullString(contact.Category),
		nullString(contact.Email),
		nullString(contact.Phone),
		nullString(contact.Notes),
		now,
		contact.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update general contact", zap.Int64("id", contact.ID), zap.Error(err))
		return wrapWriteErr("update general contact", err)
	}

	contact.UpdatedAt = now
	return nil
}

// Delete deletes a contact
func (r *GeneralContactRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM general_contacts WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete general contact", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete general contact: %w", err)
	}
	return nil
}

func scanContact(row rowScanner) (*entity.GeneralContact, error) {
	var c entity.GeneralContact
	var category, email, phone, notes sql.NullString

	if err := row.Scan(&c.ID, &c.Name, &category, &email, &phone, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}

	c.Category = category.String
	c.Email = email.String
	c.Phone = phone.String
	c.Notes = notes.String
	return &c, nil
}
