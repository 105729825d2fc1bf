package service

import (
	"sync"
	"time"

	"github.com/garyjia/backoffice-console/internal/domain/checklist"
	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// SessionKey identifies one employee's checklist of one kind
type SessionKey struct {
	Kind       string
	EmployeeID int64
}

// Session is the in-memory working copy of a checklist. Toggles mutate it
// locally; only Save writes to the database.
type Session struct {
	mu sync.Mutex

	key      SessionKey
	tracker  *checklist.Tracker
	recordID int64
	record   entity.ChecklistRecord // identity fields written on save

	lastAccess time.Time
}

// SessionStore caches checklist sessions in memory
type SessionStore struct {
	mu       sync.Mutex
	sessions map[SessionKey]*Session
	now      func() time.Time
}

// NewSessionStore creates an empty store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[SessionKey]*Session),
		now:      time.Now,
	}
}

// Get returns the cached session for key and marks it as accessed
func (s *SessionStore) Get(key SessionKey) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[key]
	if ok {
		sess.lastAccess = s.now()
	}
	return sess, ok
}

// PutIfAbsent stores sess unless another session for the same key won the
// race, in which case that one is returned
func (s *SessionStore) PutIfAbsent(sess *Session) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[sess.key]; ok {
		existing.lastAccess = s.now()
		return existing
	}
	sess.lastAccess = s.now()
	s.sessions[sess.key] = sess
	return sess
}

// Delete drops the session for key
func (s *SessionStore) Delete(key SessionKey) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, key)
}

// ResetEmployee drops every session of an employee and returns how many were dropped
func (s *SessionStore) ResetEmployee(employeeID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for key := range s.sessions {
		if key.EmployeeID == employeeID {
			delete(s.sessions, key)
			n++
		}
	}
	return n
}

// EvictIdle drops sessions not accessed within ttl. Unsaved toggles in an
// evicted session are lost.
func (s *SessionStore) EvictIdle(ttl time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-ttl)
	n := 0
	for key, sess := range s.sessions {
		if sess.lastAccess.Before(cutoff) {
			delete(s.sessions, key)
			n++
		}
	}
	return n
}

// Len returns the number of cached sessions
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
