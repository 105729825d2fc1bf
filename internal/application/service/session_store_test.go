package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/garyjia/backoffice-console/internal/domain/checklist"
)

func TestSessionStore_PutIfAbsentKeepsFirst(t *testing.T) {
	store := NewSessionStore()
	key := SessionKey{Kind: "onboarding", EmployeeID: 1}

	first := store.PutIfAbsent(&Session{key: key, tracker: checklist.NewTracker([]string{"a"})})
	second := store.PutIfAbsent(&Session{key: key, tracker: checklist.NewTracker([]string{"b"})})

	assert.Same(t, first, second)
	assert.Equal(t, 1, store.Len())
}

func TestSessionStore_ResetEmployee(t *testing.T) {
	store := NewSessionStore()
	store.PutIfAbsent(&Session{key: SessionKey{Kind: "onboarding", EmployeeID: 1}})
	store.PutIfAbsent(&Session{key: SessionKey{Kind: "clearance", EmployeeID: 1}})
	store.PutIfAbsent(&Session{key: SessionKey{Kind: "onboarding", EmployeeID: 2}})

	assert.Equal(t, 2, store.ResetEmployee(1))
	assert.Equal(t, 1, store.Len())

	_, ok := store.Get(SessionKey{Kind: "onboarding", EmployeeID: 2})
	assert.True(t, ok)
}

func TestSessionStore_EvictIdle(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewSessionStore()
	store.now = func() time.Time { return now }

	stale := SessionKey{Kind: "onboarding", EmployeeID: 1}
	fresh := SessionKey{Kind: "onboarding", EmployeeID: 2}
	store.PutIfAbsent(&Session{key: stale})
	store.PutIfAbsent(&Session{key: fresh})

	now = now.Add(45 * time.Minute)
	_, ok := store.Get(fresh)
	assert.True(t, ok)

	now = now.Add(20 * time.Minute)
	assert.Equal(t, 1, store.EvictIdle(time.Hour))

	_, ok = store.Get(stale)
	assert.False(t, ok)
	_, ok = store.Get(fresh)
	assert.True(t, ok)
}
