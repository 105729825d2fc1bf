package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

// DirectoryService manages government agencies and general contacts
type DirectoryService interface {
	ListAgencies(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.Agency], error)
	GetAgency(ctx context.Context, id int64) (*entity.Agency, error)
	CreateAgency(ctx context.Context, agency *entity.Agency) (*entity.Agency, error)
	UpdateAgency(ctx context.Context, id int64, agency *entity.Agency) (*entity.Agency, error)
	DeleteAgency(ctx context.Context, id int64) error

	ListContacts(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.GeneralContact], error)
	GetContact(ctx context.Context, id int64) (*entity.GeneralContact, error)
	CreateContact(ctx context.Context, contact *entity.GeneralContact) (*entity.GeneralContact, error)
	UpdateContact(ctx context.Context, id int64, contact *entity.GeneralContact) (*entity.GeneralContact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type directoryServiceImpl struct {
	agencyRepo  port.AgencyRepository
	contactRepo port.GeneralContactRepository
	txManager   port.TransactionManager
	logger      Logger
}

// NewDirectoryService creates a new DirectoryService
func NewDirectoryService(
	agencyRepo port.AgencyRepository,
	contactRepo port.GeneralContactRepository,
	txManager port.TransactionManager,
	logger Logger,
) DirectoryService {
	return &directoryServiceImpl{
		agencyRepo:  agencyRepo,
		contactRepo: contactRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// ListAgencies returns one page of agencies
func (s *directoryServiceImpl) ListAgencies(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.Agency], error) {
	q = q.Normalize()
	items, total, err := s.agencyRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.Agency{}
	}
	return &entity.Page[*entity.Agency]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// GetAgency returns an agency with contacts and steps
func (s *directoryServiceImpl) GetAgency(ctx context.Context, id int64) (*entity.Agency, error) {
	agency, err := s.agencyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if agency == nil {
		return nil, fmt.Errorf("%w: agency %d", ErrNotFound, id)
	}
	return agency, nil
}

// CreateAgency validates and stores an agency with its nested rows
func (s *directoryServiceImpl) CreateAgency(ctx context.Context, agency *entity.Agency) (*entity.Agency, error) {
	normalizeAgency(agency)
	if err := s.validateAgency(ctx, agency, 0); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.agencyRepo.Create(txCtx, agency)
	})
	if err != nil {
		return nil, s.writeFailed("create agency", err)
	}

	s.logger.Info("Agency created", "id", agency.ID, "name", agency.Name)
	return s.GetAgency(ctx, agency.ID)
}

// UpdateAgency replaces an agency's fields, contacts and steps
func (s *directoryServiceImpl) UpdateAgency(ctx context.Context, id int64, agency *entity.Agency) (*entity.Agency, error) {
	if _, err := s.GetAgency(ctx, id); err != nil {
		return nil, err
	}

	agency.ID = id
	normalizeAgency(agency)
	if err := s.validateAgency(ctx, agency, id); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.agencyRepo.Update(txCtx, agency)
	})
	if err != nil {
		return nil, s.writeFailed("update agency", err)
	}

	s.logger.Info("Agency updated", "id", id)
	return s.GetAgency(ctx, id)
}

// DeleteAgency removes an agency and its nested rows
func (s *directoryServiceImpl) DeleteAgency(ctx context.Context, id int64) error {
	if _, err := s.GetAgency(ctx, id); err != nil {
		return err
	}
	if err := s.agencyRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Agency deleted", "id", id)
	return nil
}

// ListContacts returns one page of general contacts
func (s *directoryServiceImpl) ListContacts(ctx context.Context, q entity.ListQuery) (*entity.Page[*entity.GeneralContact], error) {
	q = q.Normalize()
	items, total, err := s.contactRepo.List(ctx, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*entity.GeneralContact{}
	}
	return &entity.Page[*entity.GeneralContact]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// GetContact returns a general contact
func (s *directoryServiceImpl) GetContact(ctx context.Context, id int64) (*entity.GeneralContact, error) {
	contact, err := s.contactRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, fmt.Errorf("%w: contact %d", ErrNotFound, id)
	}
	return contact, nil
}

// CreateContact validates and stores a general contact
func (s *directoryServiceImpl) CreateContact(ctx context.Context, contact *entity.GeneralContact) (*entity.GeneralContact, error) {
	normalizeContact(contact)
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Create(ctx, contact); err != nil {
		return nil, s.writeFailed("create contact", err)
	}
	s.logger.Info("General contact created", "id", contact.ID)
	return s.GetContact(ctx, contact.ID)
}

// UpdateContact replaces a general contact's fields
func (s *directoryServiceImpl) UpdateContact(ctx context.Context, id int64, contact *entity.GeneralContact) (*entity.GeneralContact, error) {
	if _, err := s.GetContact(ctx, id); err != nil {
		return nil, err
	}

	contact.ID = id
	normalizeContact(contact)
	if err := validateContact(contact); err != nil {
		return nil, err
	}
	if err := s.contactRepo.Update(ctx, contact); err != nil {
		return nil, s.writeFailed("update contact", err)
	}
	return s.GetContact(ctx, id)
}

// DeleteContact removes a general contact
func (s *directoryServiceImpl) DeleteContact(ctx context.Context, id int64) error {
	if _, err := s.GetContact(ctx, id); err != nil {
		return err
	}
	return s.contactRepo.Delete(ctx, id)
}

func (s *directoryServiceImpl) validateAgency(ctx context.Context, a *entity.Agency, selfID int64) error {
	v := NewValidationError()
	if a.Name == "" {
		v.Add("name", "name is required")
	} else {
		existing, err := s.agencyRepo.GetByName(ctx, a.Name)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			v.Add("name", "an agency with this name already exists")
		}
	}
	if a.Website != "" && !validURL(a.Website) {
		v.Add("website", "website must be an http or https URL")
	}
	if a.LogoURL != "" && !validURL(a.LogoURL) && !strings.HasPrefix(a.LogoURL, "/") {
		v.Add("logo_url", "logo url must be an http(s) URL or an asset path")
	}

	for i, c := range a.Contacts {
		field := fmt.Sprintf("contacts[%d]", i)
		if c.Name == "" {
			v.Add(field+".name", "name is required")
		}
		if c.Email != "" && utils.ValidateEmail(c.Email) != nil {
			v.Add(field+".email", "invalid email address")
		}
		if c.Phone != "" && utils.ValidatePhone(c.Phone) != nil {
			v.Add(field+".phone", "invalid phone number")
		}
	}
	for i, step := range a.Steps {
		if step.Title == "" {
			v.Add(fmt.Sprintf("process_steps[%d].title", i), "title is required")
		}
	}

	return v.OrNil()
}

func (s *directoryServiceImpl) writeFailed(op string, err error) error {
	if errors.Is(err, port.ErrDuplicate) {
		return fieldError("name", "a record with this name already exists")
	}
	s.logger.Error("Directory write failed", "op", op, "error", err)
	return err
}

func validateContact(c *entity.GeneralContact) error {
	v := NewValidationError()
	if c.Name == "" {
		v.Add("name", "name is required")
	}
	if c.Email != "" && utils.ValidateEmail(c.Email) != nil {
		v.Add("email", "invalid email address")
	}
	if c.Phone != "" && utils.ValidatePhone(c.Phone) != nil {
		v.Add("phone", "invalid phone number")
	}
	return v.OrNil()
}

func normalizeAgency(a *entity.Agency) {
	a.Name = utils.SanitizeString(a.Name)
	a.Acronym = strings.ToUpper(utils.SanitizeString(a.Acronym))
	a.Address = utils.SanitizeString(a.Address)
	a.Website = strings.TrimSpace(a.Website)
	a.LogoURL = strings.TrimSpace(a.LogoURL)
	a.Notes = strings.TrimSpace(a.Notes)

	for i := range a.Contacts {
		c := &a.Contacts[i]
		c.ID = 0
		c.Name = utils.SanitizeString(c.Name)
		c.Position = utils.SanitizeString(c.Position)
		c.Email = strings.ToLower(strings.TrimSpace(c.Email))
		c.Phone = strings.TrimSpace(c.Phone)
	}
	for i := range a.Steps {
		step := &a.Steps[i]
		step.ID = 0
		step.SequenceNumber = i + 1
		step.Title = utils.SanitizeString(step.Title)
		step.Description = strings.TrimSpace(step.Description)
		step.Requirements = strings.TrimSpace(step.Requirements)
	}
}

func normalizeContact(c *entity.GeneralContact) {
	c.Name = utils.SanitizeString(c.Name)
	c.Category = utils.SanitizeString(c.Category)
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))
	c.Phone = strings.TrimSpace(c.Phone)
	c.Notes = strings.TrimSpace(c.Notes)
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
