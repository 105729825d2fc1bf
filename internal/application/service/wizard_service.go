package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strconv"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

var wizardKeyRegex = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// WizardService persists onboarding wizard progress between batches
type WizardService interface {
	Get(ctx context.Context, key string) (*entity.WizardState, error)
	Save(ctx context.Context, key string, state *entity.WizardState) (*entity.WizardState, error)
	Delete(ctx context.Context, key string) error

	// Purge removes drafts untouched for longer than ttl
	Purge(ctx context.Context, ttl time.Duration) (int64, error)
}

type wizardServiceImpl struct {
	wizardRepo port.WizardRepository
	logger     Logger
	now        func() time.Time
}

// NewWizardService creates a new WizardService
func NewWizardService(wizardRepo port.WizardRepository, logger Logger) WizardService {
	return &wizardServiceImpl{
		wizardRepo: wizardRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// Get returns the saved state or ErrNotFound
func (s *wizardServiceImpl) Get(ctx context.Context, key string) (*entity.WizardState, error) {
	if err := validateWizardKey(key); err != nil {
		return nil, err
	}

	state, err := s.wizardRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, ErrNotFound
	}
	return state, nil
}

// Save stores state under key. A numeric key is an employee ID.
func (s *wizardServiceImpl) Save(ctx context.Context, key string, state *entity.WizardState) (*entity.WizardState, error) {
	if err := validateWizardKey(key); err != nil {
		return nil, err
	}

	v := NewValidationError()
	if state.CurrentBatch < 1 {
		v.Add("current_batch", "current batch must be at least 1")
	}
	if len(state.Payload) == 0 {
		state.Payload = json.RawMessage(`{}`)
	}
	var obj map[string]interface{}
	if err := json.Unmarshal(state.Payload, &obj); err != nil {
		v.Add("payload", "payload must be a JSON object")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	state.Key = key
	if id, err := strconv.ParseInt(key, 10, 64); err == nil && id > 0 {
		state.EmployeeID = id
	}

	if err := s.wizardRepo.Upsert(ctx, state); err != nil {
		s.logger.Error("Failed to save wizard state", "error", err, "key", key)
		return nil, err
	}
	return state, nil
}

// Delete removes the saved state; deleting a missing key is not an error
func (s *wizardServiceImpl) Delete(ctx context.Context, key string) error {
	if err := validateWizardKey(key); err != nil {
		return err
	}
	return s.wizardRepo.Delete(ctx, key)
}

// Purge removes stale drafts
func (s *wizardServiceImpl) Purge(ctx context.Context, ttl time.Duration) (int64, error) {
	n, err := s.wizardRepo.DeleteOlderThan(ctx, s.now().Add(-ttl))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("Stale wizard drafts purged", "count", n, "ttl", ttl.String())
	}
	return n, nil
}

func validateWizardKey(key string) error {
	if !wizardKeyRegex.MatchString(key) {
		return fieldError("key", "key must be 1-64 letters, digits, dashes or underscores")
	}
	return nil
}
