package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/checklist"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/internal/domain/event"
	"github.com/garyjia/backoffice-console/internal/domain/workflow"
	"github.com/garyjia/backoffice-console/pkg/utils"
)

// ChecklistView is the read model returned by every checklist operation
type ChecklistView struct {
	Kind          string               `json:"kind"`
	EmployeeID    int64                `json:"employee_id"`
	EmployeeName  string               `json:"employee_name"`
	Department    string               `json:"department,omitempty"`
	ReferenceDate string               `json:"reference_date,omitempty"`
	RecordID      int64                `json:"record_id,omitempty"`
	Status        string               `json:"status"`
	Percentage    int                  `json:"percentage"`
	Completed     int                  `json:"completed"`
	Locked        int                  `json:"locked"`
	Total         int                  `json:"total"`
	Unsaved       bool                 `json:"unsaved"`
	Tasks         []checklist.TaskView `json:"tasks"`
}

// SaveResult describes a successful (or partially successful) save
type SaveResult struct {
	Checklist      *ChecklistView `json:"checklist"`
	Created        bool           `json:"created"`
	Finalized      bool           `json:"finalized"`
	EmployeeStatus string         `json:"employee_status,omitempty"`
}

// ChecklistOptions tunes ChecklistService behaviour
type ChecklistOptions struct {
	// AtomicFinal runs the checklist write and the status transition of a
	// final save in one transaction. When false the two are committed
	// separately and a failed transition yields a *PartialSaveError.
	AtomicFinal bool

	// LegacyNameMatching resolves records saved without an idempotency key
	// by employee name and reference date.
	LegacyNameMatching bool
}

// ChecklistService manages onboarding and clearance checklists
type ChecklistService interface {
	// Open returns the working copy, hydrating it from the database on first access
	Open(ctx context.Context, kind string, employeeID int64) (*ChecklistView, error)

	// Toggle and ToggleAll change the working copy only. On checklist.ErrTaskLocked
	// the unchanged view is returned together with the error.
	Toggle(ctx context.Context, kind string, employeeID int64, task string) (*ChecklistView, error)
	ToggleAll(ctx context.Context, kind string, employeeID int64) (*ChecklistView, error)

	// Save persists the working copy. A final save requires every task to be
	// complete and also transitions the employee's status.
	Save(ctx context.Context, kind string, employeeID int64, final bool) (*SaveResult, error)

	// Discard drops unsaved changes; the next Open reloads from the database
	Discard(kind string, employeeID int64)

	// List returns the persisted records of a kind, most recent first
	List(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error)
}

type checklistServiceImpl struct {
	checklistRepo port.ChecklistRepository
	employeeRepo  port.EmployeeRepository
	historyRepo   port.HistoryRepository
	templateRepo  port.TemplateRepository
	txManager     port.TransactionManager
	publisher     port.EventPublisher
	sessions      *SessionStore
	opts          ChecklistOptions
	logger        Logger
	now           func() time.Time
}

// NewChecklistService creates a new ChecklistService
func NewChecklistService(
	checklistRepo port.ChecklistRepository,
	employeeRepo port.EmployeeRepository,
	historyRepo port.HistoryRepository,
	templateRepo port.TemplateRepository,
	txManager port.TransactionManager,
	publisher port.EventPublisher,
	sessions *SessionStore,
	opts ChecklistOptions,
	logger Logger,
) ChecklistService {
	return &checklistServiceImpl{
		checklistRepo: checklistRepo,
		employeeRepo:  employeeRepo,
		historyRepo:   historyRepo,
		templateRepo:  templateRepo,
		txManager:     txManager,
		publisher:     publisher,
		sessions:      sessions,
		opts:          opts,
		logger:        logger,
		now:           time.Now,
	}
}

// IdempotencyKey returns the key that ties a checklist record to one employee
func IdempotencyKey(kind string, employeeID int64) string {
	return fmt.Sprintf("%s:%d", kind, employeeID)
}

// Open returns the current working copy
func (s *checklistServiceImpl) Open(ctx context.Context, kind string, employeeID int64) (*ChecklistView, error) {
	sess, employee, err := s.session(ctx, kind, employeeID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	refreshIdentity(sess, employee)
	return buildView(sess), nil
}

// Toggle flips one task in the working copy
func (s *checklistServiceImpl) Toggle(ctx context.Context, kind string, employeeID int64, task string) (*ChecklistView, error) {
	sess, employee, err := s.session(ctx, kind, employeeID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	refreshIdentity(sess, employee)

	if err := sess.tracker.Toggle(task, s.now()); err != nil {
		if errors.Is(err, checklist.ErrUnknownTask) {
			return nil, fieldError("task", err.Error())
		}
		return buildView(sess), err
	}
	return buildView(sess), nil
}

// ToggleAll completes every pending task, or clears unsaved completions when all are done
func (s *checklistServiceImpl) ToggleAll(ctx context.Context, kind string, employeeID int64) (*ChecklistView, error) {
	sess, employee, err := s.session(ctx, kind, employeeID)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	refreshIdentity(sess, employee)

	if err := sess.tracker.ToggleAll(s.now()); err != nil {
		return buildView(sess), err
	}
	return buildView(sess), nil
}

// Save writes the working copy to the database
func (s *checklistServiceImpl) Save(ctx context.Context, kind string, employeeID int64, final bool) (*SaveResult, error) {
	sess, employee, err := s.session(ctx, kind, employeeID)
	if err != nil {
		return nil, err
	}

	// Held across the database calls so the saved set equals the snapshot.
	sess.mu.Lock()
	defer sess.mu.Unlock()
	refreshIdentity(sess, employee)

	var trigger workflow.Trigger
	if final {
		if !sess.tracker.IsComplete() {
			return nil, fmt.Errorf("%w: %d%% done", ErrIncomplete, sess.tracker.Percentage())
		}
		if trigger, err = finalTrigger(kind, employee); err != nil {
			return nil, err
		}
	}

	record := sess.record
	record.ID = sess.recordID
	record.Tasks = sess.tracker.Snapshot()
	record.Status = sess.tracker.Status()
	created := record.ID == 0

	var transition *statusTransition
	if final && s.opts.AtomicFinal {
		err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := s.upsert(txCtx, &record); err != nil {
				return err
			}
			t, err := s.finalize(txCtx, employee, trigger)
			transition = t
			return err
		})
		if err != nil {
			return nil, s.saveFailed(err, sess.key)
		}
		s.commit(sess, &record)
	} else {
		if err := s.upsert(ctx, &record); err != nil {
			return nil, s.saveFailed(err, sess.key)
		}
		s.commit(sess, &record)

		if final {
			err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
				t, err := s.finalize(txCtx, employee, trigger)
				transition = t
				return err
			})
			if err != nil {
				s.logger.Error("Checklist saved but status transition failed",
					"error", err, "kind", kind, "employee_id", employeeID, "record_id", record.ID)
				result := &SaveResult{Checklist: buildView(sess), Created: created, EmployeeStatus: employee.Status}
				return result, &PartialSaveError{RecordID: record.ID, Err: err}
			}
		}
	}

	s.logger.Info("Checklist saved",
		"kind", kind,
		"employee_id", employeeID,
		"record_id", record.ID,
		"created", created,
		"final", final,
		"percentage", sess.tracker.Percentage(),
	)

	saved := event.NewEvent(event.TypeChecklistSaved, employeeID, map[string]interface{}{
		"kind":       kind,
		"record_id":  record.ID,
		"status":     record.Status,
		"percentage": sess.tracker.Percentage(),
	})
	s.publish(ctx, saved)

	result := &SaveResult{Checklist: buildView(sess), Created: created, Finalized: final}
	if final {
		result.EmployeeStatus = employee.Status
	}
	if transition != nil {
		s.publish(ctx, saved.Follow(event.TypeEmployeeStatus, transition.event().Payload))
	}
	if final {
		s.publish(ctx, saved.Follow(event.TypeChecklistCompleted, map[string]interface{}{"kind": kind}))
	}
	return result, nil
}

// Discard drops the cached working copy
func (s *checklistServiceImpl) Discard(kind string, employeeID int64) {
	s.sessions.Delete(SessionKey{Kind: kind, EmployeeID: employeeID})
}

// List returns persisted records of a kind
func (s *checklistServiceImpl) List(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	records, err := s.checklistRepo.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []*entity.ChecklistRecord{}
	}
	return records, nil
}

// session returns the cached session or hydrates a new one, together with
// the employee as currently stored. Sessions of a missing employee are dropped.
func (s *checklistServiceImpl) session(ctx context.Context, kind string, employeeID int64) (*Session, *entity.Employee, error) {
	if err := validateKind(kind); err != nil {
		return nil, nil, err
	}

	employee, err := loadEmployee(ctx, s.employeeRepo, employeeID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.sessions.ResetEmployee(employeeID)
		}
		return nil, nil, err
	}

	key := SessionKey{Kind: kind, EmployeeID: employeeID}
	if sess, ok := s.sessions.Get(key); ok {
		return sess, employee, nil
	}

	labels, err := s.labels(ctx, kind, employee)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.resolve(ctx, kind, employee)
	if err != nil {
		return nil, nil, err
	}

	sess := &Session{key: key}
	if record != nil {
		sess.tracker = checklist.Restore(labels, record.Tasks)
		sess.recordID = record.ID
		sess.record = *record
		sess.record.Tasks = nil
	} else {
		sess.tracker = checklist.NewTracker(labels)
		sess.record = entity.ChecklistRecord{Kind: kind}
	}
	sess.record.IdempotencyKey = IdempotencyKey(kind, employee.ID)

	return s.sessions.PutIfAbsent(sess), employee, nil
}

// refreshIdentity copies the employee's current profile onto the session
// record. Callers hold sess.mu.
func refreshIdentity(sess *Session, employee *entity.Employee) {
	sess.record.EmployeeID = employee.ID
	sess.record.EmployeeName = employee.FullName()
	sess.record.Position = employee.Position
	sess.record.Department = employee.Department
	sess.record.ReferenceDate = referenceDate(sess.key.Kind, employee)
}

// resolve finds the persisted record for the employee: first by idempotency
// key, then (for records saved before keys existed) by name and date
func (s *checklistServiceImpl) resolve(ctx context.Context, kind string, employee *entity.Employee) (*entity.ChecklistRecord, error) {
	record, err := s.checklistRepo.GetByIdempotencyKey(ctx, IdempotencyKey(kind, employee.ID))
	if err != nil {
		return nil, err
	}
	if record != nil || !s.opts.LegacyNameMatching {
		return record, nil
	}

	all, err := s.checklistRepo.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}
	// Records detached on rehire keep their employee link and are skipped.
	legacy := make([]*entity.ChecklistRecord, 0, len(all))
	for _, r := range all {
		if r.IdempotencyKey == "" && r.EmployeeID == 0 {
			legacy = append(legacy, r)
		}
	}

	date := referenceDate(kind, employee)
	match := checklist.ResolveByName(legacy, employee.FullName(), date)
	if match == nil && employee.MiddleName != "" {
		match = checklist.ResolveByName(legacy, utils.FullName(employee.FirstName, employee.LastName), date)
	}
	if match != nil {
		s.logger.Info("Resolved legacy checklist by name",
			"kind", kind, "employee_id", employee.ID, "record_id", match.ID)
	}
	return match, nil
}

func (s *checklistServiceImpl) labels(ctx context.Context, kind string, employee *entity.Employee) ([]string, error) {
	if kind == entity.ChecklistKindOnboarding {
		return checklist.OnboardingTasks(), nil
	}
	labels, _, err := clearanceLabels(ctx, s.templateRepo, employee.Department)
	return labels, err
}

func (s *checklistServiceImpl) upsert(ctx context.Context, record *entity.ChecklistRecord) error {
	if record.ID == 0 {
		if err := s.checklistRepo.Create(ctx, record); err != nil {
			return fmt.Errorf("create checklist: %w", err)
		}
		return nil
	}
	if err := s.checklistRepo.Update(ctx, record); err != nil {
		return fmt.Errorf("update checklist: %w", err)
	}
	return nil
}

// finalize applies the status transition of a final save. An employee
// already in the target state is left alone so repeated final saves are no-ops.
func (s *checklistServiceImpl) finalize(ctx context.Context, employee *entity.Employee, trigger workflow.Trigger) (*statusTransition, error) {
	machine := workflow.NewEmployeeLifecycle(workflow.State(employee.Status))
	if target, ok := triggerTarget(trigger); ok && machine.State() == target {
		return nil, nil
	}
	return fireTransition(ctx, s.employeeRepo, s.historyRepo, employee, trigger, employee.ExitReason)
}

// commit applies a successful write to the session
func (s *checklistServiceImpl) commit(sess *Session, record *entity.ChecklistRecord) {
	sess.recordID = record.ID
	sess.record = *record
	sess.record.Tasks = nil
	sess.tracker.MarkSaved()
}

func (s *checklistServiceImpl) saveFailed(err error, key SessionKey) error {
	s.logger.Error("Failed to save checklist", "error", err, "kind", key.Kind, "employee_id", key.EmployeeID)
	if errors.Is(err, workflow.ErrInvalidTransition) {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	if errors.Is(err, port.ErrDuplicate) {
		// Another writer created the record first; reload before retrying.
		s.sessions.Delete(key)
		return fmt.Errorf("%w: checklist was created concurrently, reload and retry", ErrConflict)
	}
	return err
}

func (s *checklistServiceImpl) publish(ctx context.Context, evt *event.Event) {
	if err := s.publisher.Dispatch(ctx, evt); err != nil {
		s.logger.Error("Failed to publish event", "error", err, "event_type", evt.Type, "employee_id", evt.EmployeeID)
	}
}

func buildView(sess *Session) *ChecklistView {
	t := sess.tracker
	return &ChecklistView{
		Kind:          sess.key.Kind,
		EmployeeID:    sess.key.EmployeeID,
		EmployeeName:  sess.record.EmployeeName,
		Department:    sess.record.Department,
		ReferenceDate: sess.record.ReferenceDate,
		RecordID:      sess.recordID,
		Status:        t.Status(),
		Percentage:    t.Percentage(),
		Completed:     t.CompletedCount(),
		Locked:        t.LockedCount(),
		Total:         t.Total(),
		Unsaved:       t.CompletedCount() > t.LockedCount(),
		Tasks:         t.Tasks(),
	}
}

// finalTrigger picks the lifecycle trigger fired by a final save
func finalTrigger(kind string, employee *entity.Employee) (workflow.Trigger, error) {
	if kind == entity.ChecklistKindOnboarding {
		return workflow.TriggerCompleteOnboarding, nil
	}
	trigger, ok := exitTrigger(employee.ExitType)
	if !ok {
		return "", fieldError("exit_type", "no exit has been submitted for this employee")
	}
	return trigger, nil
}

func triggerTarget(trigger workflow.Trigger) (workflow.State, bool) {
	switch trigger {
	case workflow.TriggerCompleteOnboarding:
		return workflow.StateActive, true
	case workflow.TriggerTerminate:
		return workflow.StateTerminated, true
	case workflow.TriggerResign:
		return workflow.StateResigned, true
	default:
		return "", false
	}
}

func referenceDate(kind string, employee *entity.Employee) string {
	if kind == entity.ChecklistKindClearance {
		return employee.ExitDate
	}
	return employee.HireDate
}

func validateKind(kind string) error {
	switch kind {
	case entity.ChecklistKindOnboarding, entity.ChecklistKindClearance:
		return nil
	default:
		return fieldError("kind", "checklist kind must be onboarding or clearance")
	}
}
