package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound is returned when the addressed record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a write would violate a business rule
	// such as deleting a bank that still holds accounts
	ErrConflict = errors.New("conflict")

	// ErrIncomplete is returned by a final checklist save below 100%
	ErrIncomplete = errors.New("checklist is not complete")

	// ErrValidation matches every *ValidationError via errors.Is
	ErrValidation = errors.New("validation failed")
)

// ValidationError carries field-level input failures
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError creates an empty ValidationError
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

// Add records a failure for field; the first message per field wins
func (e *ValidationError) Add(field, message string) {
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

// OrNil returns e when it holds failures, else nil
func (e *ValidationError) OrNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func fieldError(field, message string) error {
	v := NewValidationError()
	v.Add(field, message)
	return v
}

// PartialSaveError reports a checklist that was saved while the follow-up
// employee status transition failed
type PartialSaveError struct {
	RecordID int64
	Err      error
}

func (e *PartialSaveError) Error() string {
	return fmt.Sprintf("checklist %d saved but status update failed: %v", e.RecordID, e.Err)
}

func (e *PartialSaveError) Unwrap() error {
	return e.Err
}
