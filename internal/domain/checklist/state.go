// Package checklist tracks progress of an onboarding or clearance checklist.
//
// Every task is in exactly one of three states: Pending, Completed (checked in
// the current session, not yet persisted) or Locked (persisted by a successful
// save). Locked tasks cannot be unchecked.
package checklist

import "time"

// Phase is the tag of a TaskState.
type Phase int

const (
	PhasePending Phase = iota
	PhaseCompleted
	PhaseLocked
)

// String returns the lowercase name used in API payloads.
func (p Phase) String() string {
	switch p {
	case PhaseCompleted:
		return "completed"
	case PhaseLocked:
		return "locked"
	default:
		return "pending"
	}
}

// TaskState is Pending | Completed{At} | Locked{At}.
type TaskState struct {
	Phase Phase
	At    time.Time
}

// Pending returns the state of an unchecked task.
func Pending() TaskState {
	return TaskState{Phase: PhasePending}
}

// Completed returns the state of a task checked at t but not yet saved.
func Completed(t time.Time) TaskState {
	return TaskState{Phase: PhaseCompleted, At: t}
}

// Locked returns the state of a task whose completion at t has been saved.
func Locked(t time.Time) TaskState {
	return TaskState{Phase: PhaseLocked, At: t}
}

// Done reports whether the task counts as complete.
func (s TaskState) Done() bool {
	return s.Phase != PhasePending
}
