package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// SessionEvictor drops idle checklist sessions
type SessionEvictor interface {
	EvictIdle(ttl time.Duration) int
}

// WizardPurger removes stale onboarding wizard drafts
type WizardPurger interface {
	Purge(ctx context.Context, ttl time.Duration) (int64, error)
}

// JanitorConfig holds the session janitor settings
type JanitorConfig struct {
	// Schedule is a cron spec with a seconds field, e.g. "0 */5 * * * *"
	Schedule   string
	SessionTTL time.Duration
	WizardTTL  time.Duration
}

// DefaultJanitorConfig returns default configuration
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		Schedule:   "0 */5 * * * *",
		SessionTTL: 2 * time.Hour,
		WizardTTL:  7 * 24 * time.Hour,
	}
}

// JanitorStats is a snapshot of janitor activity
type JanitorStats struct {
	Runs            int       `json:"runs"`
	SessionsEvicted int       `json:"sessions_evicted"`
	DraftsPurged    int64     `json:"drafts_purged"`
	LastRun         time.Time `json:"last_run"`
	LastError       string    `json:"last_error,omitempty"`
}

// SessionJanitor periodically evicts idle checklist sessions and purges
// stale wizard drafts on a cron schedule
type SessionJanitor struct {
	config   JanitorConfig
	sessions SessionEvictor
	wizards  WizardPurger
	logger   *zap.Logger

	mu      sync.Mutex
	cron    *cron.Cron
	ctx     context.Context
	stats   JanitorStats
	running bool
}

// NewSessionJanitor creates a new janitor; wizards may be nil
func NewSessionJanitor(config JanitorConfig, sessions SessionEvictor, wizards WizardPurger, logger *zap.Logger) *SessionJanitor {
	return &SessionJanitor{
		config:   config,
		sessions: sessions,
		wizards:  wizards,
		logger:   logger,
	}
}

// Name returns the worker name
func (j *SessionJanitor) Name() string {
	return "session-janitor"
}

// Start schedules the janitor
func (j *SessionJanitor) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.running {
		return fmt.Errorf("session janitor already running")
	}

	c := cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	if _, err := c.AddFunc(j.config.Schedule, func() { j.RunOnce(j.context()) }); err != nil {
		return fmt.Errorf("invalid janitor schedule %q: %w", j.config.Schedule, err)
	}

	j.cron = c
	j.ctx = ctx
	j.running = true
	c.Start()

	j.logger.Info("Session janitor started",
		zap.String("schedule", j.config.Schedule),
		zap.Duration("session_ttl", j.config.SessionTTL),
		zap.Duration("wizard_ttl", j.config.WizardTTL))
	return nil
}

// Stop halts scheduling and waits for a running pass to finish
func (j *SessionJanitor) Stop() error {
	j.mu.Lock()
	if !j.running {
		j.mu.Unlock()
		return nil
	}
	j.running = false
	c := j.cron
	j.mu.Unlock()

	<-c.Stop().Done()
	j.logger.Info("Session janitor stopped")
	return nil
}

// RunOnce performs one cleanup pass
func (j *SessionJanitor) RunOnce(ctx context.Context) {
	evicted := 0
	if j.config.SessionTTL > 0 {
		evicted = j.sessions.EvictIdle(j.config.SessionTTL)
	}

	var purged int64
	var lastErr string
	if j.wizards != nil && j.config.WizardTTL > 0 {
		n, err := j.wizards.Purge(ctx, j.config.WizardTTL)
		if err != nil {
			j.logger.Error("Failed to purge wizard drafts", zap.Error(err))
			lastErr = err.Error()
		}
		purged = n
	}

	j.mu.Lock()
	j.stats.Runs++
	j.stats.SessionsEvicted += evicted
	j.stats.DraftsPurged += purged
	j.stats.LastRun = time.Now()
	j.stats.LastError = lastErr
	j.mu.Unlock()

	if evicted > 0 || purged > 0 {
		j.logger.Info("Session janitor pass",
			zap.Int("sessions_evicted", evicted),
			zap.Int64("drafts_purged", purged))
	}
}

// Stats returns a copy of the janitor counters
func (j *SessionJanitor) Stats() JanitorStats {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.stats
}

func (j *SessionJanitor) context() context.Context {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.ctx == nil {
		return context.Background()
	}
	return j.ctx
}
