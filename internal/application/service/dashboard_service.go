package service

import (
	"context"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// DashboardService computes the admin dashboard summary
type DashboardService interface {
	Stats(ctx context.Context) (*entity.Stats, error)
}

type dashboardServiceImpl struct {
	statsRepo port.StatsRepository
	sessions  *SessionStore
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(statsRepo port.StatsRepository, sessions *SessionStore) DashboardService {
	return &dashboardServiceImpl{statsRepo: statsRepo, sessions: sessions}
}

func (s *dashboardServiceImpl) Stats(ctx context.Context) (*entity.Stats, error) {
	stats, err := s.statsRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	if s.sessions != nil {
		stats.ActiveChecklistSessions = s.sessions.Len()
	}
	return stats, nil
}
