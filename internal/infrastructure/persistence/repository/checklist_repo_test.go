package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestChecklistRepository_CreateUpdateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChecklistRepository(db.DB, zap.NewNop())

	record := &entity.ChecklistRecord{
		Kind:           entity.ChecklistKindOnboarding,
		EmployeeName:   "Ana  Reyes",
		ReferenceDate:  "2024-03-01",
		Status:         entity.ChecklistStatusPending,
		IdempotencyKey: "onboarding:1",
		Tasks: []entity.ChecklistTask{
			{Task: "Signed contract", Status: entity.ChecklistStatusDone, Date: "2024-03-01T09:00:00Z"},
			{Task: "Issued ID", Status: entity.ChecklistStatusPending},
		},
	}
	require.NoError(t, repo.Create(ctx(), record))
	assert.NotZero(t, record.ID)

	got, err := repo.GetByIdempotencyKey(ctx(), "onboarding:1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, record.ID, got.ID)
	assert.Equal(t, record.Tasks, got.Tasks)
	assert.Zero(t, got.EmployeeID)

	record.Tasks[1].Status = entity.ChecklistStatusDone
	record.Status = entity.ChecklistStatusDone
	require.NoError(t, repo.Update(ctx(), record))

	got, err = repo.GetByID(ctx(), record.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ChecklistStatusDone, got.Status)
	assert.Equal(t, entity.ChecklistStatusDone, got.Tasks[1].Status)

	missing, err := repo.GetByIdempotencyKey(ctx(), "onboarding:2")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestChecklistRepository_UpdateUnknownID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewChecklistRepository(db.DB, zap.NewNop())

	err := repo.Update(ctx(), &entity.ChecklistRecord{ID: 42, Kind: entity.ChecklistKindClearance, Status: entity.ChecklistStatusPending})
	assert.Error(t, err)
}

func TestChecklistRepository_ListByKindAndDetach(t *testing.T) {
	db := setupTestDB(t)
	employees := NewEmployeeRepository(db.DB, zap.NewNop())
	repo := NewChecklistRepository(db.DB, zap.NewNop())

	emp := newEmployee("Ana", "Reyes", "ana@example.com")
	require.NoError(t, employees.Create(ctx(), emp))

	first := &entity.ChecklistRecord{Kind: entity.ChecklistKindClearance, EmployeeID: emp.ID, EmployeeName: "Ana Reyes",
		Status: entity.ChecklistStatusPending, IdempotencyKey: "clearance:1"}
	legacy := &entity.ChecklistRecord{Kind: entity.ChecklistKindClearance, EmployeeName: "Ana Reyes",
		Status: entity.ChecklistStatusPending}
	other := &entity.ChecklistRecord{Kind: entity.ChecklistKindOnboarding, EmployeeName: "Ana Reyes",
		Status: entity.ChecklistStatusPending}
	require.NoError(t, repo.Create(ctx(), first))
	require.NoError(t, repo.Create(ctx(), legacy))
	require.NoError(t, repo.Create(ctx(), other))

	// touch first so it becomes the most recent
	require.NoError(t, repo.Update(ctx(), first))

	records, err := repo.ListByKind(ctx(), entity.ChecklistKindClearance)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, first.ID, records[0].ID)
	assert.NotNil(t, records[1].Tasks)

	require.NoError(t, repo.Detach(ctx(), emp.ID))
	detached, err := repo.GetByIdempotencyKey(ctx(), "clearance:1")
	require.NoError(t, err)
	assert.Nil(t, detached)

	kept, err := repo.GetByID(ctx(), first.ID)
	require.NoError(t, err)
	assert.Empty(t, kept.IdempotencyKey)
	assert.Equal(t, emp.ID, kept.EmployeeID)
}

func TestChecklistRepository_TransactionRollback(t *testing.T) {
	db := setupTestDB(t)
	tx := newTxManager(db)
	repo := NewChecklistRepository(db.DB, zap.NewNop())
	boom := errors.New("status update failed")

	err := tx.WithTransaction(ctx(), func(txCtx context.Context) error {
		record := &entity.ChecklistRecord{Kind: entity.ChecklistKindOnboarding, EmployeeName: "Ana Reyes",
			Status: entity.ChecklistStatusDone, IdempotencyKey: "onboarding:7"}
		if err := repo.Create(txCtx, record); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := repo.GetByIdempotencyKey(ctx(), "onboarding:7")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestTemplateRepository_SeededAndReplace(t *testing.T) {
	db := setupTestDB(t)
	repo := NewTemplateRepository(db.DB, zap.NewNop())

	defaults, err := repo.ListByDepartment(ctx(), entity.DefaultTemplateDepartment)
	require.NoError(t, err)
	require.NotEmpty(t, defaults)
	assert.Equal(t, 1, defaults[0].SequenceNumber)

	departments, err := repo.ListDepartments(ctx())
	require.NoError(t, err)
	assert.Contains(t, departments, entity.DefaultTemplateDepartment)

	require.NoError(t, repo.ReplaceDepartment(ctx(), "Legal", []string{"Files archived", "Returned ID"}))
	legal, err := repo.ListByDepartment(ctx(), "Legal")
	require.NoError(t, err)
	require.Len(t, legal, 2)
	assert.Equal(t, "Files archived", legal[0].Task)
	assert.Equal(t, 2, legal[1].SequenceNumber)

	require.NoError(t, repo.ReplaceDepartment(ctx(), "Legal", []string{"Returned ID"}))
	legal, err = repo.ListByDepartment(ctx(), "Legal")
	require.NoError(t, err)
	require.Len(t, legal, 1)
	assert.Equal(t, 1, legal[0].SequenceNumber)
}
