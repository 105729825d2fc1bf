package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/internal/domain/event"
	"github.com/garyjia/backoffice-console/internal/domain/workflow"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DateLayout is the wire format of calendar dates (hire, exit, reference)
const DateLayout = "2006-01-02"

// ExitRequest is a termination or resignation submission
type ExitRequest struct {
	Type   string `json:"exit_type"`
	Date   string `json:"exit_date"`
	Reason string `json:"exit_reason"`
}

// EmployeeService manages employees and their lifecycle
type EmployeeService interface {
	Create(ctx context.Context, employee *entity.Employee) (*entity.Employee, error)
	Get(ctx context.Context, id int64) (*entity.Employee, error)
	List(ctx context.Context, q entity.ListQuery, status string) (*entity.Page[*entity.Employee], error)
	Update(ctx context.Context, id int64, employee *entity.Employee) (*entity.Employee, error)
	Delete(ctx context.Context, id int64) error

	// CheckEmail and CheckName report whether another employee (not excludeID) uses the value
	CheckEmail(ctx context.Context, email string, excludeID int64) (bool, error)
	CheckName(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error)

	// SubmitExit records a pending termination or resignation. The status
	// changes when the clearance checklist is finalized.
	SubmitExit(ctx context.Context, id int64, req ExitRequest) (*entity.Employee, error)

	// Rehire moves an exited employee back to onboarding and starts fresh checklists
	Rehire(ctx context.Context, id int64, hireDate string) (*entity.Employee, error)

	History(ctx context.Context, id int64) ([]*entity.EmployeeHistory, error)
}

type employeeServiceImpl struct {
	employeeRepo  port.EmployeeRepository
	historyRepo   port.HistoryRepository
	checklistRepo port.ChecklistRepository
	txManager     port.TransactionManager
	publisher     port.EventPublisher
	logger        Logger
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(
	employeeRepo port.EmployeeRepository,
	historyRepo port.HistoryRepository,
	checklistRepo port.ChecklistRepository,
	txManager port.TransactionManager,
	publisher port.EventPublisher,
	logger Logger,
) EmployeeService {
	return &employeeServiceImpl{
		employeeRepo:  employeeRepo,
		historyRepo:   historyRepo,
		checklistRepo: checklistRepo,
		txManager:     txManager,
		publisher:     publisher,
		logger:        logger,
	}
}

// Create validates and stores a new employee in ONBOARDING
func (s *employeeServiceImpl) Create(ctx context.Context, employee *entity.Employee) (*entity.Employee, error) {
	normalizeEmployee(employee)
	employee.Status = entity.EmployeeStatusOnboarding
	employee.ExitType, employee.ExitDate, employee.ExitReason = "", "", ""

	if err := s.validate(ctx, employee, 0); err != nil {
		return nil, err
	}

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.employeeRepo.Create(txCtx, employee); err != nil {
			return fmt.Errorf("create employee: %w", err)
		}
		return s.historyRepo.Create(txCtx, &entity.EmployeeHistory{
			EmployeeID: employee.ID,
			NewStatus:  employee.Status,
			Action:     "CREATED",
		})
	})
	if err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fieldError("email", "email is already registered")
		}
		s.logger.Error("Failed to create employee", "error", err, "email", employee.Email)
		return nil, err
	}

	s.logger.Info("Employee created", "id", employee.ID, "email", employee.Email)
	s.publish(ctx, event.NewEvent(event.TypeEmployeeCreated, employee.ID, map[string]interface{}{
		"name": employee.FullName(),
	}))
	return employee, nil
}

// Get retrieves an employee or ErrNotFound
func (s *employeeServiceImpl) Get(ctx context.Context, id int64) (*entity.Employee, error) {
	return loadEmployee(ctx, s.employeeRepo, id)
}

// List retrieves one page of employees
func (s *employeeServiceImpl) List(ctx context.Context, q entity.ListQuery, status string) (*entity.Page[*entity.Employee], error) {
	q = q.Normalize()
	if status != "" && !workflow.State(strings.ToUpper(status)).IsValid() {
		return nil, fieldError("status", "unknown status")
	}

	items, total, err := s.employeeRepo.List(ctx, q, status)
	if err != nil {
		s.logger.Error("Failed to list employees", "error", err)
		return nil, err
	}
	if items == nil {
		items = []*entity.Employee{}
	}

	return &entity.Page[*entity.Employee]{Items: items, Total: total, Limit: q.Limit, Offset: q.Offset}, nil
}

// Update replaces the editable profile fields; status and exit details are
// only changed through the lifecycle operations
func (s *employeeServiceImpl) Update(ctx context.Context, id int64, changes *entity.Employee) (*entity.Employee, error) {
	current, err := loadEmployee(ctx, s.employeeRepo, id)
	if err != nil {
		return nil, err
	}

	normalizeEmployee(changes)
	current.FirstName = changes.FirstName
	current.MiddleName = changes.MiddleName
	current.LastName = changes.LastName
	current.Email = changes.Email
	current.Phone = changes.Phone
	current.Position = changes.Position
	current.Department = changes.Department
	current.HireDate = changes.HireDate

	if err := s.validate(ctx, current, id); err != nil {
		return nil, err
	}

	if err := s.employeeRepo.Update(ctx, current); err != nil {
		if errors.Is(err, port.ErrDuplicate) {
			return nil, fieldError("email", "email is already registered")
		}
		s.logger.Error("Failed to update employee", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Employee updated", "id", id)
	return current, nil
}

// Delete removes an employee; their checklists are kept with the employee link cleared
func (s *employeeServiceImpl) Delete(ctx context.Context, id int64) error {
	if _, err := loadEmployee(ctx, s.employeeRepo, id); err != nil {
		return err
	}
	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete employee", "error", err, "id", id)
		return err
	}
	s.logger.Info("Employee deleted", "id", id)
	s.publish(ctx, event.NewEvent(event.TypeEmployeeDeleted, id, nil))
	return nil
}

// CheckEmail reports whether email is used by an employee other than excludeID
func (s *employeeServiceImpl) CheckEmail(ctx context.Context, email string, excludeID int64) (bool, error) {
	email = strings.TrimSpace(email)
	if utils.ValidateEmail(email) != nil {
		return false, fieldError("email", "invalid email address")
	}

	existing, err := s.employeeRepo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return existing != nil && existing.ID != excludeID, nil
}

// CheckName reports whether the first/last name pair is used by an employee other than excludeID
func (s *employeeServiceImpl) CheckName(ctx context.Context, firstName, lastName string, excludeID int64) (bool, error) {
	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	v := NewValidationError()
	if firstName == "" {
		v.Add("first_name", "first name is required")
	}
	if lastName == "" {
		v.Add("last_name", "last name is required")
	}
	if err := v.OrNil(); err != nil {
		return false, err
	}

	matches, err := s.employeeRepo.FindByName(ctx, firstName, lastName)
	if err != nil {
		return false, err
	}
	for _, m := range matches {
		if m.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// SubmitExit validates and records exit details without changing status
func (s *employeeServiceImpl) SubmitExit(ctx context.Context, id int64, req ExitRequest) (*entity.Employee, error) {
	employee, err := loadEmployee(ctx, s.employeeRepo, id)
	if err != nil {
		return nil, err
	}

	req.Type = strings.ToLower(strings.TrimSpace(req.Type))
	req.Date = strings.TrimSpace(req.Date)
	req.Reason = utils.SanitizeString(req.Reason)

	v := NewValidationError()
	trigger, ok := exitTrigger(req.Type)
	if !ok {
		v.Add("exit_type", "exit type must be terminated or resigned")
	}
	if !validDate(req.Date) {
		v.Add("exit_date", "exit date must be YYYY-MM-DD")
	}
	if err := v.OrNil(); err != nil {
		return nil, err
	}

	if !workflow.NewEmployeeLifecycle(workflow.State(employee.Status)).CanFire(trigger) {
		return nil, fmt.Errorf("%w: employee is %s", ErrConflict, employee.Status)
	}

	employee.ExitType = req.Type
	employee.ExitDate = req.Date
	employee.ExitReason = req.Reason

	if err := s.employeeRepo.Update(ctx, employee); err != nil {
		s.logger.Error("Failed to record exit", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Exit submitted", "id", id, "exit_type", req.Type, "exit_date", req.Date)
	s.publish(ctx, event.NewEvent(event.TypeExitSubmitted, id, map[string]interface{}{
		"exit_type": req.Type,
		"exit_date": req.Date,
	}))
	return employee, nil
}

// Rehire moves an exited employee back to ONBOARDING
func (s *employeeServiceImpl) Rehire(ctx context.Context, id int64, hireDate string) (*entity.Employee, error) {
	employee, err := loadEmployee(ctx, s.employeeRepo, id)
	if err != nil {
		return nil, err
	}

	hireDate = strings.TrimSpace(hireDate)
	if hireDate != "" && !validDate(hireDate) {
		return nil, fieldError("hire_date", "hire date must be YYYY-MM-DD")
	}

	var transition *statusTransition
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		t, err := fireTransition(txCtx, s.employeeRepo, s.historyRepo, employee, workflow.TriggerRehire, "")
		if err != nil {
			return err
		}
		transition = t

		employee.ExitType, employee.ExitDate, employee.ExitReason = "", "", ""
		if hireDate != "" {
			employee.HireDate = hireDate
		}
		if err := s.employeeRepo.Update(txCtx, employee); err != nil {
			return fmt.Errorf("update employee: %w", err)
		}

		return s.checklistRepo.Detach(txCtx, employee.ID)
	})
	if err != nil {
		if errors.Is(err, workflow.ErrInvalidTransition) {
			return nil, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		s.logger.Error("Failed to rehire employee", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Employee rehired", "id", id)
	statusEvt := transition.event()
	s.publish(ctx, statusEvt)
	s.publish(ctx, statusEvt.Follow(event.TypeEmployeeRehired, nil))
	return employee, nil
}

// History lists the status transitions of an employee
func (s *employeeServiceImpl) History(ctx context.Context, id int64) ([]*entity.EmployeeHistory, error) {
	if _, err := loadEmployee(ctx, s.employeeRepo, id); err != nil {
		return nil, err
	}
	records, err := s.historyRepo.GetByEmployeeID(ctx, id)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.EmployeeHistory{}
	}
	return records, nil
}

func (s *employeeServiceImpl) validate(ctx context.Context, e *entity.Employee, selfID int64) error {
	v := NewValidationError()
	if e.FirstName == "" {
		v.Add("first_name", "first name is required")
	}
	if e.LastName == "" {
		v.Add("last_name", "last name is required")
	}
	if utils.ValidateEmail(e.Email) != nil {
		v.Add("email", "invalid email address")
	}
	if e.Phone != "" && utils.ValidatePhone(e.Phone) != nil {
		v.Add("phone", "invalid phone number")
	}
	if e.Position == "" {
		v.Add("position", "position is required")
	}
	if e.Department == "" {
		v.Add("department", "department is required")
	}
	if e.HireDate != "" && !validDate(e.HireDate) {
		v.Add("hire_date", "hire date must be YYYY-MM-DD")
	}

	if _, bad := v.Fields["email"]; !bad {
		existing, err := s.employeeRepo.GetByEmail(ctx, e.Email)
		if err != nil {
			return err
		}
		if existing != nil && existing.ID != selfID {
			v.Add("email", "email is already registered")
		}
	}

	return v.OrNil()
}

func (s *employeeServiceImpl) publish(ctx context.Context, evt *event.Event) {
	if err := s.publisher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", evt.Type, "employee_id", evt.EmployeeID)
	}
}

// statusTransition describes one applied lifecycle transition
type statusTransition struct {
	EmployeeID int64
	From       string
	To         string
	Trigger    workflow.Trigger
}

func (t *statusTransition) event() *event.Event {
	return event.NewEvent(event.TypeEmployeeStatus, t.EmployeeID, map[string]interface{}{
		"from":    t.From,
		"to":      t.To,
		"trigger": t.Trigger.String(),
	})
}

// fireTransition runs trigger through the lifecycle machine, persists the new
// status and writes a history row. employee.Status is updated in place.
func fireTransition(
	ctx context.Context,
	employeeRepo port.EmployeeRepository,
	historyRepo port.HistoryRepository,
	employee *entity.Employee,
	trigger workflow.Trigger,
	reason string,
) (*statusTransition, error) {
	machine := workflow.NewEmployeeLifecycle(workflow.State(employee.Status))
	if err := machine.Fire(ctx, trigger); err != nil {
		return nil, err
	}

	from := employee.Status
	to := machine.State().String()
	if err := employeeRepo.UpdateStatus(ctx, employee.ID, to); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}

	err := historyRepo.Create(ctx, &entity.EmployeeHistory{
		EmployeeID:     employee.ID,
		PreviousStatus: from,
		NewStatus:      to,
		Action:         trigger.String(),
		Reason:         reason,
	})
	if err != nil {
		return nil, fmt.Errorf("create history: %w", err)
	}

	employee.Status = to
	return &statusTransition{EmployeeID: employee.ID, From: from, To: to, Trigger: trigger}, nil
}

func loadEmployee(ctx context.Context, repo port.EmployeeRepository, id int64) (*entity.Employee, error) {
	employee, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, fmt.Errorf("%w: employee %d", ErrNotFound, id)
	}
	return employee, nil
}

func exitTrigger(exitType string) (workflow.Trigger, bool) {
	switch exitType {
	case entity.ExitTypeTerminated:
		return workflow.TriggerTerminate, true
	case entity.ExitTypeResigned:
		return workflow.TriggerResign, true
	default:
		return "", false
	}
}

func normalizeEmployee(e *entity.Employee) {
	e.FirstName = utils.SanitizeString(e.FirstName)
	e.MiddleName = utils.SanitizeString(e.MiddleName)
	e.LastName = utils.SanitizeString(e.LastName)
	e.Email = strings.ToLower(strings.TrimSpace(e.Email))
	e.Phone = strings.TrimSpace(e.Phone)
	e.Position = utils.SanitizeString(e.Position)
	e.Department = utils.SanitizeString(e.Department)
	e.HireDate = strings.TrimSpace(e.HireDate)
}

func validDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
