package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/checklist"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/internal/domain/event"
)

var fixedNow = time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC)

type checklistFixture struct {
	employee   entity.Employee
	employees  *mockEmployeeRepo
	checklists *mockChecklistRepo
	publisher  *mockPublisher
	sessions   *SessionStore
	calls      []string
	svc        *checklistServiceImpl
}

func newChecklistFixture(employee entity.Employee, opts ChecklistOptions) *checklistFixture {
	f := &checklistFixture{employee: employee, publisher: &mockPublisher{}, sessions: NewSessionStore()}

	f.employees = &mockEmployeeRepo{
		getByIDFunc: func(ctx context.Context, id int64) (*entity.Employee, error) {
			if id != f.employee.ID {
				return nil, nil
			}
			cp := f.employee
			return &cp, nil
		},
		updateStatusFunc: func(ctx context.Context, id int64, status string) error {
			f.calls = append(f.calls, "update_status:"+status)
			f.employee.Status = status
			return nil
		},
	}
	f.checklists = &mockChecklistRepo{
		createFunc: func(ctx context.Context, record *entity.ChecklistRecord) error {
			f.calls = append(f.calls, "create")
			record.ID = 42
			return nil
		},
		updateFunc: func(ctx context.Context, record *entity.ChecklistRecord) error {
			f.calls = append(f.calls, "update")
			return nil
		},
	}
	templates := &mockTemplateRepo{templates: map[string][]string{
		entity.DefaultTemplateDepartment: {"Return laptop", "Turn over files", "Final pay computed"},
	}}

	svc := NewChecklistService(f.checklists, f.employees, &mockHistoryRepo{}, templates,
		&mockTxManager{}, f.publisher, f.sessions, opts, &mockLogger{})
	f.svc = svc.(*checklistServiceImpl)
	f.svc.now = func() time.Time { return fixedNow }
	return f
}

func onboardingEmployee() entity.Employee {
	return entity.Employee{
		ID:         1,
		FirstName:  "Maria",
		LastName:   "Dela Cruz",
		Email:      "maria@example.com",
		Position:   "Analyst",
		Department: "Finance",
		HireDate:   "2024-03-01",
		Status:     entity.EmployeeStatusOnboarding,
	}
}

func TestChecklistService_OpenHydratesEmptySession(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})

	view, err := f.svc.Open(context.Background(), entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	assert.Equal(t, 16, view.Total)
	assert.Equal(t, 0, view.Percentage)
	assert.Equal(t, entity.ChecklistStatusPending, view.Status)
	assert.Equal(t, int64(0), view.RecordID)
	assert.Equal(t, "Maria Dela Cruz", view.EmployeeName)
	assert.Equal(t, "2024-03-01", view.ReferenceDate)
	assert.Equal(t, 1, f.sessions.Len())
}

func TestChecklistService_OpenErrors(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{})

	_, err := f.svc.Open(context.Background(), "offboarding", 1)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Open(context.Background(), entity.ChecklistKindOnboarding, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChecklistService_ToggleIsLocalUntilSave(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()
	task := checklist.OnboardingTasks()[0]

	view, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, task)
	require.NoError(t, err)
	assert.Equal(t, 1, view.Completed)
	assert.True(t, view.Unsaved)
	assert.Empty(t, f.calls)

	result, err := f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.False(t, result.Finalized)
	assert.Equal(t, int64(42), result.Checklist.RecordID)
	assert.Equal(t, 1, result.Checklist.Locked)
	assert.False(t, result.Checklist.Unsaved)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "update"}, f.calls)
}

func TestChecklistService_ToggleLockedTaskReturnsUnchangedView(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()
	task := checklist.OnboardingTasks()[2]

	_, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, task)
	require.NoError(t, err)
	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	require.NoError(t, err)

	before, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	view, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, task)
	assert.ErrorIs(t, err, checklist.ErrTaskLocked)
	require.NotNil(t, view)
	assert.Equal(t, before, view)
	assert.Equal(t, "locked", view.Tasks[2].State)
}

func TestChecklistService_ToggleUnknownTask(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{})

	_, err := f.svc.Toggle(context.Background(), entity.ChecklistKindOnboarding, 1, "Does not exist")

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "task")
}

func TestChecklistService_FinalSaveUpsertsThenTransitions(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()

	_, err := f.svc.ToggleAll(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	result, err := f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "update_status:" + entity.EmployeeStatusActive}, f.calls)
	assert.True(t, result.Finalized)
	assert.Equal(t, entity.EmployeeStatusActive, result.EmployeeStatus)
	assert.Equal(t, 100, result.Checklist.Percentage)
	assert.Equal(t, entity.ChecklistStatusDone, result.Checklist.Status)
	assert.Equal(t, 16, result.Checklist.Locked)
	assert.Equal(t, []event.Type{
		event.TypeChecklistSaved,
		event.TypeEmployeeStatus,
		event.TypeChecklistCompleted,
	}, f.publisher.types())
}

func TestChecklistService_FinalSaveRequiresCompletion(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, checklist.OnboardingTasks()[0])
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, true)
	assert.ErrorIs(t, err, ErrIncomplete)
	assert.Empty(t, f.calls)
}

func TestChecklistService_FinalSaveWhenAlreadyActiveSkipsTransition(t *testing.T) {
	employee := onboardingEmployee()
	employee.Status = entity.EmployeeStatusActive
	f := newChecklistFixture(employee, ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()

	_, err := f.svc.ToggleAll(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	result, err := f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"create"}, f.calls)
	assert.Equal(t, entity.EmployeeStatusActive, result.EmployeeStatus)
	assert.NotContains(t, f.publisher.types(), event.TypeEmployeeStatus)
}

func TestChecklistService_FailedSaveLeavesSessionUnchanged(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	f.checklists.createFunc = func(ctx context.Context, record *entity.ChecklistRecord) error {
		record.ID = 77
		return errors.New("disk full")
	}
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, checklist.OnboardingTasks()[0])
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	require.Error(t, err)

	view, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(0), view.RecordID)
	assert.Equal(t, 1, view.Completed)
	assert.Equal(t, 0, view.Locked)
	assert.True(t, view.Unsaved)
	assert.Empty(t, f.publisher.types())
}

func TestChecklistService_AtomicFinalFailureLeavesSessionUnchanged(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	f.employees.updateStatusFunc = func(ctx context.Context, id int64, status string) error {
		return errors.New("database is locked")
	}
	ctx := context.Background()

	_, err := f.svc.ToggleAll(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, true)
	require.Error(t, err)
	var partial *PartialSaveError
	assert.False(t, errors.As(err, &partial))

	view, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Locked)
	assert.Equal(t, int64(0), view.RecordID)
}

func TestChecklistService_NonAtomicFinalReportsPartialSave(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: false})
	f.employees.updateStatusFunc = func(ctx context.Context, id int64, status string) error {
		return errors.New("database is locked")
	}
	ctx := context.Background()

	_, err := f.svc.ToggleAll(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	result, err := f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, true)

	var partial *PartialSaveError
	require.True(t, errors.As(err, &partial))
	assert.Equal(t, int64(42), partial.RecordID)
	require.NotNil(t, result)
	assert.False(t, result.Finalized)
	assert.Equal(t, entity.EmployeeStatusOnboarding, result.EmployeeStatus)
	assert.Equal(t, 16, result.Checklist.Locked)
	assert.Equal(t, []string{"create"}, f.calls)
}

func TestChecklistService_DuplicateCreateIsConflict(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	f.checklists.createFunc = func(ctx context.Context, record *entity.ChecklistRecord) error {
		return port.ErrDuplicate
	}
	ctx := context.Background()

	_, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, 0, f.sessions.Len())
}

func TestChecklistService_ClearanceFinalSave(t *testing.T) {
	tests := []struct {
		name       string
		exitType   string
		wantStatus string
		wantErr    error
	}{
		{name: "resigned", exitType: entity.ExitTypeResigned, wantStatus: entity.EmployeeStatusResigned},
		{name: "terminated", exitType: entity.ExitTypeTerminated, wantStatus: entity.EmployeeStatusTerminated},
		{name: "no exit submitted", wantErr: ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			employee := onboardingEmployee()
			employee.Status = entity.EmployeeStatusActive
			employee.Department = "Engineering"
			employee.ExitType = tt.exitType
			employee.ExitDate = "2024-06-30"
			f := newChecklistFixture(employee, ChecklistOptions{AtomicFinal: true})
			ctx := context.Background()

			view, err := f.svc.ToggleAll(ctx, entity.ChecklistKindClearance, 1)
			require.NoError(t, err)
			assert.Equal(t, 3, view.Total)

			result, err := f.svc.Save(ctx, entity.ChecklistKindClearance, 1, true)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, f.calls)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.EmployeeStatus)
			assert.Equal(t, "2024-06-30", result.Checklist.ReferenceDate)
			assert.Equal(t, []string{"create", "update_status:" + tt.wantStatus}, f.calls)
		})
	}
}

func TestChecklistService_ResolvesByIdempotencyKey(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	tasks := checklist.OnboardingTasks()
	f.checklists.getByIdempotencyKeyFunc = func(ctx context.Context, key string) (*entity.ChecklistRecord, error) {
		assert.Equal(t, "onboarding:1", key)
		return &entity.ChecklistRecord{
			ID:   7,
			Kind: entity.ChecklistKindOnboarding,
			Tasks: []entity.ChecklistTask{
				{Task: tasks[0], Status: entity.ChecklistStatusDone, Date: "2024-03-02T10:00:00Z"},
				{Task: tasks[1], Status: entity.ChecklistStatusPending},
			},
			IdempotencyKey: key,
		}, nil
	}
	ctx := context.Background()

	view, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), view.RecordID)
	assert.Equal(t, 1, view.Locked)
	assert.False(t, view.Unsaved)

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"update"}, f.calls)
}

func TestChecklistService_LegacyNameMatching(t *testing.T) {
	legacy := []*entity.ChecklistRecord{
		{ID: 3, EmployeeName: "Maria Dela Cruz", IdempotencyKey: "onboarding:9", EmployeeID: 9},
		{ID: 4, EmployeeName: "maria dela cruz", EmployeeID: 1},
		{ID: 5, EmployeeName: "  MARIA   dela cruz ", ReferenceDate: "2024-03-01",
			UpdatedAt: fixedNow.Add(-time.Hour)},
		{ID: 6, EmployeeName: "Maria Dela Cruz", ReferenceDate: "2023-01-01", UpdatedAt: fixedNow},
	}

	t.Run("enabled", func(t *testing.T) {
		f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true, LegacyNameMatching: true})
		f.checklists.listByKindFunc = func(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error) {
			return legacy, nil
		}
		var saved *entity.ChecklistRecord
		f.checklists.updateFunc = func(ctx context.Context, record *entity.ChecklistRecord) error {
			saved = record
			return nil
		}
		ctx := context.Background()

		view, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(5), view.RecordID)

		_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, "onboarding:1", saved.IdempotencyKey)
		assert.Equal(t, int64(1), saved.EmployeeID)
	})

	t.Run("disabled", func(t *testing.T) {
		f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
		f.checklists.listByKindFunc = func(ctx context.Context, kind string) ([]*entity.ChecklistRecord, error) {
			return legacy, nil
		}

		view, err := f.svc.Open(context.Background(), entity.ChecklistKindOnboarding, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), view.RecordID)
	})
}

func TestChecklistService_DiscardReloads(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{})
	ctx := context.Background()

	_, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, checklist.OnboardingTasks()[0])
	require.NoError(t, err)

	f.svc.Discard(entity.ChecklistKindOnboarding, 1)

	view, err := f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, view.Completed)
}

func TestChecklistService_SaveUsesCurrentEmployeeProfile(t *testing.T) {
	employee := onboardingEmployee()
	employee.Status = entity.EmployeeStatusActive
	f := newChecklistFixture(employee, ChecklistOptions{AtomicFinal: true})
	var saved []entity.ChecklistRecord
	f.checklists.createFunc = func(ctx context.Context, record *entity.ChecklistRecord) error {
		record.ID = 42
		saved = append(saved, *record)
		return nil
	}
	f.checklists.updateFunc = func(ctx context.Context, record *entity.ChecklistRecord) error {
		saved = append(saved, *record)
		return nil
	}
	ctx := context.Background()

	view, err := f.svc.Open(ctx, entity.ChecklistKindClearance, 1)
	require.NoError(t, err)
	assert.Empty(t, view.ReferenceDate)

	// Profile edit and exit submission after the checklist was opened.
	f.employee.Position = "Senior Analyst"
	_, err = f.svc.Save(ctx, entity.ChecklistKindClearance, 1, false)
	require.NoError(t, err)

	f.employee.ExitType = entity.ExitTypeResigned
	f.employee.ExitDate = "2024-06-30"
	_, err = f.svc.ToggleAll(ctx, entity.ChecklistKindClearance, 1)
	require.NoError(t, err)
	result, err := f.svc.Save(ctx, entity.ChecklistKindClearance, 1, true)
	require.NoError(t, err)

	require.Len(t, saved, 2)
	assert.Equal(t, "Senior Analyst", saved[0].Position)
	assert.Empty(t, saved[0].ReferenceDate)
	assert.Equal(t, "2024-06-30", saved[1].ReferenceDate)
	assert.Equal(t, entity.ChecklistStatusDone, saved[1].Status)
	assert.Equal(t, "2024-06-30", result.Checklist.ReferenceDate)
	assert.Equal(t, entity.EmployeeStatusResigned, result.EmployeeStatus)
}

func TestChecklistService_MissingEmployeeDropsSession(t *testing.T) {
	f := newChecklistFixture(onboardingEmployee(), ChecklistOptions{AtomicFinal: true})
	ctx := context.Background()
	task := checklist.OnboardingTasks()[0]

	_, err := f.svc.Toggle(ctx, entity.ChecklistKindOnboarding, 1, task)
	require.NoError(t, err)
	require.Equal(t, 1, f.sessions.Len())

	f.employees.getByIDFunc = func(ctx context.Context, id int64) (*entity.Employee, error) {
		return nil, nil
	}

	_, err = f.svc.Open(ctx, entity.ChecklistKindOnboarding, 1)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, f.sessions.Len())

	_, err = f.svc.Save(ctx, entity.ChecklistKindOnboarding, 1, false)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Empty(t, f.calls)
}
