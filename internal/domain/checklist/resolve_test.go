package checklist

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

func record(id int64, name, date string, updated time.Time) *entity.ChecklistRecord {
	return &entity.ChecklistRecord{ID: id, EmployeeName: name, ReferenceDate: date, UpdatedAt: updated}
}

func TestResolveByName_NoMatch(t *testing.T) {
	records := []*entity.ChecklistRecord{record(1, "Ana Reyes", "", t0)}
	assert.Nil(t, ResolveByName(records, "Ben Cruz", ""))
	assert.Nil(t, ResolveByName(records, "   ", ""))
	assert.Nil(t, ResolveByName(nil, "Ana Reyes", ""))
}

func TestResolveByName_NormalizesNames(t *testing.T) {
	records := []*entity.ChecklistRecord{record(7, "  ANA   reyes ", "", t0)}
	got := ResolveByName(records, "Ana Reyes", "")
	require.NotNil(t, got)
	assert.Equal(t, int64(7), got.ID)
}

func TestResolveByName_PrefersDateMatch(t *testing.T) {
	records := []*entity.ChecklistRecord{
		record(1, "Ana Reyes", "2026-01-05", t0.Add(2*time.Hour)),
		record(2, "Ana Reyes", "2026-02-10", t0),
	}
	got := ResolveByName(records, "ana reyes", "2026-02-10")
	require.NotNil(t, got)
	assert.Equal(t, int64(2), got.ID)
}

// Two different employees share a normalized name and the date filter matches
// neither: the most recently updated record wins even though it may belong to
// the other employee.
func TestResolveByName_SharedNameMostRecentWins(t *testing.T) {
	records := []*entity.ChecklistRecord{
		record(10, "Jose Santos", "2025-11-01", t0),
		record(11, "jose  santos", "2026-01-15", t0.Add(48*time.Hour)),
		record(12, "Jose Santos", "2025-06-30", t0.Add(-time.Hour)),
	}

	got := ResolveByName(records, "Jose Santos", "2026-03-01")
	require.NotNil(t, got)
	assert.Equal(t, int64(11), got.ID)

	got = ResolveByName(records, "Jose Santos", "")
	require.NotNil(t, got)
	assert.Equal(t, int64(11), got.ID)
}
