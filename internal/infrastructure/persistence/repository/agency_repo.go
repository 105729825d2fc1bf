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

// AgencyRepository implements port.AgencyRepository.
// Nested writes issue several statements; callers run them in a transaction.
type AgencyRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewAgencyRepository creates a new agency repository
func NewAgencyRepository(db *sql.DB, logger *zap.Logger) port.AgencyRepository {
	return &AgencyRepository{
		db:     db,
		logger: logger,
	}
}

const agencyColumns = `id, name, acronym, address, website, logo_url, notes, created_at, updated_at`

// List retrieves one page of agencies (without nested rows) plus the total count
func (r *AgencyRepository) List(ctx context.Context, q entity.ListQuery) ([]*entity.Agency, int, error) {
	q = q.Normalize()

	clause := ""
	var args []interface{}
	if q.Search != "" {
		pattern := likePattern(q.Search)
		clause = ` WHERE LOWER(name) LIKE ? ESCAPE '\' OR LOWER(IFNULL(acronym, '')) LIKE ? ESCAPE '\'`
		args = append(args, pattern, pattern)
	}

	var total int
	if err := executorFor(ctx, r.db).QueryRowContext(ctx, `SELECT COUNT(*) FROM agencies`+clause, args...).Scan(&total); err != nil {
		r.logger.Error("Failed to count agencies", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to count agencies: %w", err)
	}

	query := `SELECT ` + agencyColumns + ` FROM agencies` + clause + ` ORDER BY name ASC LIMIT ? OFFSET ?`
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		r.logger.Error("Failed to list agencies", zap.Error(err))
		return nil, 0, fmt.Errorf("failed to list agencies: %w", err)
	}
	defer rows.Close()

	var agencies []*entity.Agency
	for rows.Next() {
		agency, err := scanAgency(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan agency: %w", err)
		}
		agencies = append(agencies, agency)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return agencies, total, nil
}

// GetByID retrieves an agency with its contacts and process steps
func (r *AgencyRepository) GetByID(ctx context.Context, id int64) (*entity.Agency, error) {
	agency, err := scanAgency(executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+agencyColumns+` FROM agencies WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get agency", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}

	if err := r.loadNested(ctx, agency); err != nil {
		return nil, err
	}
	return agency, nil
}

// GetByName retrieves an agency by name, ignoring case (without nested rows)
func (r *AgencyRepository) GetByName(ctx context.Context, name string) (*entity.Agency, error) {
	agency, err := scanAgency(executorFor(ctx, r.db).QueryRowContext(ctx,
		`SELECT `+agencyColumns+` FROM agencies WHERE LOWER(name) = LOWER(?)`, name))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get agency by name", zap.String("name", name), zap.Error(err))
		return nil, fmt.Errorf("failed to get agency: %w", err)
	}
	return agency, nil
}

// Create creates an agency and its nested contacts and steps
func (r *AgencyRepository) Create(ctx context.Context, agency *entity.Agency) error {
	query := `
		INSERT INTO agencies (name, acronym, address, website, logo_url, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	now := time.Now().UTC()
	result, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		agency.Name,
		nullString(agency.Acronym),
		nullString(agency.Address),
		nullString(agency.Website),
		nullString(agency.LogoURL),
		nullString(agency.Notes),
		now,
		now,
	)
	if err != nil {
		r.logger.Error("Failed to create agency", zap.String("name", agency.Name), zap.Error(err))
		return wrapWriteErr("create agency", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	agency.ID = id
	agency.CreatedAt = now
	agency.UpdatedAt = now
	return r.writeNested(ctx, agency)
}

// Update updates an agency and replaces its contacts and steps
func (r *AgencyRepository) Update(ctx context.Context, agency *entity.Agency) error {
	query := `
		UPDATE agencies SET
			name = ?, acronym = ?, address = ?, website = ?, logo_url = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`

	now := time.Now().UTC()
	_, err := executorFor(ctx, r.db).ExecContext(ctx, query,
		agency.Name,
		nullString(agency.Acronym),
		nullString(agency.Address),
		nullString(agency.Website),
		nullString(agency.LogoURL),
		nullString(agency.Notes),
		now,
		agency.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update agency", zap.Int64("id", agency.ID), zap.Error(err))
		return wrapWriteErr("update agency", err)
	}
	agency.UpdatedAt = now

	exec := executorFor(ctx, r.db)
	if _, err := exec.ExecContext(ctx, `DELETE FROM agency_contacts WHERE agency_id = ?`, agency.ID); err != nil {
		return fmt.Errorf("failed to clear agency contacts: %w", err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM process_steps WHERE agency_id = ?`, agency.ID); err != nil {
		return fmt.Errorf("failed to clear process steps: %w", err)
	}

	return r.writeNested(ctx, agency)
}

// Delete deletes an agency; contacts and steps cascade
func (r *AgencyRepository) Delete(ctx context.Context, id int64) error {
	if _, err := executorFor(ctx, r.db).ExecContext(ctx, `DELETE FROM agencies WHERE id = ?`, id); err != nil {
		r.logger.Error("Failed to delete agency", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete agency: %w", err)
	}
	return nil
}

func (r *AgencyRepository) writeNested(ctx context.Context, agency *entity.Agency) error {
	exec := executorFor(ctx, r.db)

	for i := range agency.Contacts {
		c := &agency.Contacts[i]
		c.AgencyID = agency.ID
		result, err := exec.ExecContext(ctx,
			`INSERT INTO agency_contacts (agency_id, name, position, email, phone) VALUES (?, ?, ?, ?, ?)`,
			c.AgencyID, c.Name, nullString(c.Position), nullString(c.Email), nullString(c.Phone))
		if err != nil {
			r.logger.Error("Failed to insert agency contact", zap.Int64("agency_id", agency.ID), zap.Error(err))
			return fmt.Errorf("failed to insert agency contact: %w", err)
		}
		if c.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}

	for i := range agency.Steps {
		s := &agency.Steps[i]
		s.AgencyID = agency.ID
		if s.SequenceNumber == 0 {
			s.SequenceNumber = i + 1
		}
		result, err := exec.ExecContext(ctx,
			`INSERT INTO process_steps (agency_id, sequence_number, title, description, requirements) VALUES (?, ?, ?, ?, ?)`,
			s.AgencyID, s.SequenceNumber, s.Title, nullString(s.Description), nullString(s.Requirements))
		if err != nil {
			r.logger.Error("Failed to insert process step", zap.Int64("agency_id", agency.ID), zap.Error(err))
			return fmt.Errorf("failed to insert process step: %w", err)
		}
		if s.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to get last insert id: %w", err)
		}
	}

	return nil
}

func (r *AgencyRepository) loadNested(ctx context.Context, agency *entity.Agency) error {
	exec := executorFor(ctx, r.db)

	rows, err := exec.QueryContext(ctx,
		`SELECT id, agency_id, name, position, email, phone FROM agency_contacts WHERE agency_id = ? ORDER BY id ASC`,
		agency.ID)
	if err != nil {
		return fmt.Errorf("failed to load agency contacts: %w", err)
	}
	defer rows.Close()

	agency.Contacts = []entity.AgencyContact{}
	for rows.Next() {
		var c entity.AgencyContact
		var position, email, phone sql.NullString
		if err := rows.Scan(&c.ID, &c.AgencyID, &c.Name, &position, &email, &phone); err != nil {
			return fmt.Errorf("failed to scan agency contact: %w", err)
		}
		c.Position, c.Email, c.Phone = position.String, email.String, phone.String
		agency.Contacts = append(agency.Contacts, c)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	stepRows, err := exec.QueryContext(ctx,
		`SELECT id, agency_id, sequence_number, title, description, requirements
		FROM process_steps WHERE agency_id = ? ORDER BY sequence_number ASC, id ASC`,
		agency.ID)
	if err != nil {
		return fmt.Errorf("failed to load process steps: %w", err)
	}
	defer stepRows.Close()

	agency.Steps = []entity.ProcessStep{}
	for stepRows.Next() {
		var s entity.ProcessStep
		var description, requirements sql.NullString
		if err := stepRows.Scan(&s.ID, &s.AgencyID, &s.SequenceNumber, &s.Title, &description, &requirements); err != nil {
			return fmt.Errorf("failed to scan process step: %w", err)
		}
		s.Description, s.Requirements = description.String, requirements.String
		agency.Steps = append(agency.Steps, s)
	}

	return stepRows.Err()
}

func scanAgency(row rowScanner) (*entity.Agency, error) {
	var a entity.Agency
	var acronym, address, website, logoURL, notes sql.NullString

	err := row.Scan(
		&a.ID,
		&a.Name,
		&acronym,
		&address,
		&website,
		&logoURL,
		&notes,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	a.Acronym = acronym.String
	a.Address = address.String
	a.Website = website.String
	a.LogoURL = logoURL.String
	a.Notes = notes.String
	return &a, nil
}
