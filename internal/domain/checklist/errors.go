package checklist

import "errors"

var (
	// ErrTaskLocked is returned when a saved task would be unchecked.
	ErrTaskLocked = errors.New("saved progress cannot be undone")

	// ErrUnknownTask is returned for a label that is not part of the checklist.
	ErrUnknownTask = errors.New("unknown checklist task")
)
