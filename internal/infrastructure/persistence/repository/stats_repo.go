package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"go.uber.org/zap"
)

// StatsRepository implements port.StatsRepository
type StatsRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStatsRepository creates a new dashboard stats repository
func NewStatsRepository(db *sql.DB, logger *zap.Logger) port.StatsRepository {
	return &StatsRepository{
		db:     db,
		logger: logger,
	}
}

// Stats computes the dashboard aggregates
func (r *StatsRepository) Stats(ctx context.Context) (*entity.Stats, error) {
	stats := &entity.Stats{
		EmployeesByStatus: map[string]int{
			entity.EmployeeStatusOnboarding: 0,
			entity.EmployeeStatusActive:     0,
			entity.EmployeeStatusTerminated: 0,
			entity.EmployeeStatusResigned:   0,
		},
		PendingChecklists: map[string]int{
			entity.ChecklistKindOnboarding: 0,
			entity.ChecklistKindClearance:  0,
		},
	}

	if err := r.groupCount(ctx, `SELECT status, COUNT(*) FROM employees GROUP BY status`, stats.EmployeesByStatus); err != nil {
		return nil, err
	}
	if err := r.groupCount(ctx,
		`SELECT kind, COUNT(*) FROM checklists WHERE status = 'PENDING' GROUP BY kind`,
		stats.PendingChecklists); err != nil {
		return nil, err
	}

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM agencies`, &stats.Agencies},
		{`SELECT COUNT(*) FROM general_contacts`, &stats.GeneralContacts},
		{`SELECT COUNT(*) FROM banks`, &stats.Banks},
		{`SELECT COUNT(*) FROM bank_accounts WHERE is_active = 1`, &stats.ActiveBankAccounts},
		{`SELECT COUNT(*) FROM wizard_states`, &stats.OpenWizardDrafts},
	}
	for _, c := range counts {
		if err := executorFor(ctx, r.db).QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			r.logger.Error("Failed to compute stats", zap.String("query", c.query), zap.Error(err))
			return nil, fmt.Errorf("failed to compute stats: %w", err)
		}
	}

	return stats, nil
}

func (r *StatsRepository) groupCount(ctx context.Context, query string, into map[string]int) error {
	rows, err := executorFor(ctx, r.db).QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to compute stats", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("failed to compute stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return fmt.Errorf("failed to scan stats row: %w", err)
		}
		into[key] = n
	}
	return rows.Err()
}
