package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Worker is a background job owned by the Manager
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// Status describes one registered worker
type Status struct {
	Name      string    `json:"name"`
	Running   bool      `json:"running"`
	StartedAt time.Time `json:"started_at,omitempty"`
	Error     string    `json:"error,omitempty"`
}

type entry struct {
	worker    Worker
	running   bool
	startedAt time.Time
	err       error
}

// Manager starts registered workers in order and stops them in reverse.
// A worker that fails to start is recorded and skipped; the others keep running.
type Manager struct {
	entries []*entry
	logger  *zap.Logger

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
}

// NewManager creates an empty manager
func NewManager(logger *zap.Logger) *Manager {
	return &Manager{logger: logger}
}

// Register adds a worker; call before StartAll
func (m *Manager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = append(m.entries, &entry{worker: w})
	m.logger.Info("Worker registered", zap.String("worker_name", w.Name()))
}

// StartAll starts every registered worker under a context derived from ctx
func (m *Manager) StartAll(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return fmt.Errorf("workers already running")
	}

	var workerCtx context.Context
	workerCtx, m.cancel = context.WithCancel(ctx)
	m.running = true

	for _, e := range m.entries {
		e.err = e.worker.Start(workerCtx)
		if e.err != nil {
			m.logger.Error("Failed to start worker",
				zap.String("worker_name", e.worker.Name()),
				zap.Error(e.err))
			continue
		}
		e.running = true
		e.startedAt = time.Now()
	}
	m.logger.Info("Workers started",
		zap.Int("registered", len(m.entries)),
		zap.Int("running", m.runningCount()))
	return nil
}

// StopAll stops the running workers in reverse start order
func (m *Manager) StopAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}
	m.running = false
	if m.cancel != nil {
		m.cancel()
	}

	var errs []error
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if !e.running {
			continue
		}
		e.running = false
		if err := e.worker.Stop(); err != nil {
			e.err = err
			errs = append(errs, fmt.Errorf("%s: %w", e.worker.Name(), err))
			continue
		}
		m.logger.Info("Worker stopped", zap.String("worker_name", e.worker.Name()))
	}
	return errors.Join(errs...)
}

// Statuses reports every registered worker in registration order
func (m *Manager) Statuses() []Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Status, 0, len(m.entries))
	for _, e := range m.entries {
		s := Status{Name: e.worker.Name(), Running: e.running, StartedAt: e.startedAt}
		if e.err != nil {
			s.Error = e.err.Error()
		}
		out = append(out, s)
	}
	return out
}

// Healthy is true when the manager runs and no worker failed to start
func (m *Manager) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running && m.runningCount() == len(m.entries)
}

// IsRunning reports whether StartAll has been called without StopAll
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// Count returns the number of registered workers
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

func (m *Manager) runningCount() int {
	n := 0
	for _, e := range m.entries {
		if e.running {
			n++
		}
	}
	return n
}
