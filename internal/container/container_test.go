package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
	"github.com/garyjia/backoffice-console/internal/domain/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig(t *testing.T) *Config {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Database.Path = filepath.Join(dir, "console.db")
	cfg.Storage.AssetDir = filepath.Join(dir, "assets")
	return cfg
}

func TestNewContainer_RequiresConfigAndLogger(t *testing.T) {
	_, err := NewContainer(nil, zap.NewNop())
	assert.Error(t, err)

	_, err = NewContainer(DefaultConfig(), nil)
	assert.Error(t, err)

	cfg := DefaultConfig()
	cfg.Storage.AssetDir = ""
	_, err = NewContainer(cfg, zap.NewNop())
	assert.Error(t, err)
}

func TestContainer_Lifecycle(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, c.Start(context.Background()))
	assert.True(t, c.Ready())
	assert.Error(t, c.Start(context.Background()), "second start must fail")

	health := c.Health()
	assert.True(t, health.Overall)
	assert.True(t, health.Components["database"].Healthy)
	assert.True(t, health.Components["workers"].Healthy)

	services := c.Services()
	require.NotNil(t, services)
	assert.NotNil(t, services.Employees)
	assert.NotNil(t, services.Checklists)
	assert.NotNil(t, services.Export)

	// migrations ran: the default clearance template is seeded
	view, err := services.Templates.Get(context.Background(), "default")
	require.NoError(t, err)
	assert.NotEmpty(t, view.Tasks)

	assert.NotEmpty(t, c.Dispatcher().ListHandlers(event.TypeEmployeeRehired))

	require.NoError(t, c.Close())
	assert.False(t, c.Ready())
	assert.Error(t, c.Close())
}

func TestContainer_OnboardingFlow(t *testing.T) {
	c, err := NewContainer(testConfig(t), zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, c.Start(context.Background()))
	defer c.Close()

	ctx := context.Background()
	svc := c.Services()

	emp, err := svc.Employees.Create(ctx, &entity.Employee{
		FirstName:  "Maria",
		LastName:   "Dela Cruz",
		Email:      "maria@example.com",
		Position:   "Agent",
		Department: "Sales",
		HireDate:   "2024-03-01",
	})
	require.NoError(t, err)

	view, err := svc.Checklists.ToggleAll(ctx, entity.ChecklistKindOnboarding, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, view.Percentage)

	result, err := svc.Checklists.Save(ctx, entity.ChecklistKindOnboarding, emp.ID, true)
	require.NoError(t, err)
	assert.True(t, result.Finalized)
	assert.Equal(t, entity.EmployeeStatusActive, result.EmployeeStatus)

	stored, err := svc.Employees.Get(ctx, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmployeeStatusActive, stored.Status)

	stats, err := svc.Dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.ActiveChecklistSessions)
}
