package checklist

import (
	"fmt"
	"math"
	"time"

	"github.com/garyjia/backoffice-console/internal/domain/entity"
)

// DateLayout is the timestamp format written into persisted task entries.
const DateLayout = time.RFC3339

// Tracker holds the ordered task labels of one checklist and the state of each.
// It is not safe for concurrent use; callers serialize access per session.
type Tracker struct {
	labels []string
	states map[string]TaskState
}

// TaskView is the read model of a single task.
type TaskView struct {
	Task  string     `json:"task"`
	State string     `json:"state"`
	At    *time.Time `json:"at,omitempty"`
}

// NewTracker creates a tracker with every task pending. Duplicate and empty
// labels are dropped; order is preserved.
func NewTracker(labels []string) *Tracker {
	t := &Tracker{states: make(map[string]TaskState, len(labels))}
	for _, label := range labels {
		t.addLabel(label)
	}
	return t
}

// Restore builds a tracker from a persisted task array. Entries with status
// DONE become Locked. Persisted labels missing from labels are appended so a
// template change never drops saved progress.
func Restore(labels []string, entries []entity.ChecklistTask) *Tracker {
	t := NewTracker(labels)
	for _, entry := range entries {
		t.addLabel(entry.Task)
		if entry.Status != entity.ChecklistStatusDone {
			continue
		}
		at, err := time.Parse(DateLayout, entry.Date)
		if err != nil {
			at = time.Time{}
		}
		t.states[entry.Task] = Locked(at)
	}
	return t
}

func (t *Tracker) addLabel(label string) {
	if label == "" {
		return
	}
	if _, exists := t.states[label]; exists {
		return
	}
	t.labels = append(t.labels, label)
	t.states[label] = Pending()
}

// Toggle flips one task. Locked tasks are rejected with ErrTaskLocked and left
// unchanged; Completed becomes Pending; Pending becomes Completed at now.
func (t *Tracker) Toggle(label string, now time.Time) error {
	state, ok := t.states[label]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownTask, label)
	}

	switch state.Phase {
	case PhaseLocked:
		return fmt.Errorf("%w: %q", ErrTaskLocked, label)
	case PhaseCompleted:
		t.states[label] = Pending()
	default:
		t.states[label] = Completed(now)
	}
	return nil
}

// ToggleAll completes every pending task with one shared timestamp. When the
// checklist is already complete it instead clears every unlocked completion;
// if every task is locked nothing changes and ErrTaskLocked is returned.
func (t *Tracker) ToggleAll(now time.Time) error {
	if !t.IsComplete() {
		for _, label := range t.labels {
			if t.states[label].Phase == PhasePending {
				t.states[label] = Completed(now)
			}
		}
		return nil
	}

	cleared := 0
	for _, label := range t.labels {
		if t.states[label].Phase == PhaseCompleted {
			t.states[label] = Pending()
			cleared++
		}
	}
	if cleared == 0 && len(t.labels) > 0 {
		return ErrTaskLocked
	}
	return nil
}

// MarkSaved locks every completed task. Afterwards the locked set equals the
// completed set.
func (t *Tracker) MarkSaved() {
	for label, state := range t.states {
		if state.Phase == PhaseCompleted {
			t.states[label] = Locked(state.At)
		}
	}
}

// Snapshot returns the persisted form of every task in order.
func (t *Tracker) Snapshot() []entity.ChecklistTask {
	tasks := make([]entity.ChecklistTask, 0, len(t.labels))
	for _, label := range t.labels {
		state := t.states[label]
		entry := entity.ChecklistTask{Task: label, Status: entity.ChecklistStatusPending}
		if state.Done() {
			entry.Status = entity.ChecklistStatusDone
			if !state.At.IsZero() {
				entry.Date = state.At.UTC().Format(DateLayout)
			}
		}
		tasks = append(tasks, entry)
	}
	return tasks
}

// Tasks returns the read model of every task in order.
func (t *Tracker) Tasks() []TaskView {
	views := make([]TaskView, 0, len(t.labels))
	for _, label := range t.labels {
		state := t.states[label]
		view := TaskView{Task: label, State: state.Phase.String()}
		if state.Done() && !state.At.IsZero() {
			at := state.At
			view.At = &at
		}
		views = append(views, view)
	}
	return views
}

// State returns the state of one task.
func (t *Tracker) State(label string) (TaskState, bool) {
	state, ok := t.states[label]
	return state, ok
}

// Labels returns the task labels in order.
func (t *Tracker) Labels() []string {
	return append([]string(nil), t.labels...)
}

// Total returns the number of tasks.
func (t *Tracker) Total() int {
	return len(t.labels)
}

// CompletedCount returns the number of completed or locked tasks.
func (t *Tracker) CompletedCount() int {
	n := 0
	for _, state := range t.states {
		if state.Done() {
			n++
		}
	}
	return n
}

// LockedCount returns the number of locked tasks.
func (t *Tracker) LockedCount() int {
	n := 0
	for _, state := range t.states {
		if state.Phase == PhaseLocked {
			n++
		}
	}
	return n
}

// IsComplete reports whether every task is done. An empty checklist is not complete.
func (t *Tracker) IsComplete() bool {
	return len(t.labels) > 0 && t.CompletedCount() == len(t.labels)
}

// Percentage returns completed/total*100 rounded to the nearest integer.
func (t *Tracker) Percentage() int {
	if len(t.labels) == 0 {
		return 0
	}
	return int(math.Round(float64(t.CompletedCount()) / float64(len(t.labels)) * 100))
}

// Status returns DONE when every task is complete, PENDING otherwise.
func (t *Tracker) Status() string {
	if t.IsComplete() {
		return entity.ChecklistStatusDone
	}
	return entity.ChecklistStatusPending
}
