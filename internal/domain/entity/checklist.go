package entity

import "time"

// ChecklistRecord is the persisted form of an onboarding or clearance checklist.
type ChecklistRecord struct {
	ID             int64           `json:"id"`
	Kind           string          `json:"kind"`
	EmployeeID     int64           `json:"employee_id,omitempty"`
	EmployeeName   string          `json:"employee_name"`
	Position       string          `json:"position,omitempty"`
	Department     string          `json:"department,omitempty"`
	ReferenceDate  string          `json:"reference_date,omitempty"` // YYYY-MM-DD
	Status         string          `json:"status"`
	Tasks          []ChecklistTask `json:"tasks"`
	IdempotencyKey string          `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ChecklistTask is one row of the persisted task array.
type ChecklistTask struct {
	Task   string `json:"task"`
	Status string `json:"status"`
	Date   string `json:"date,omitempty"`
}

// Checklist kinds
const (
	ChecklistKindOnboarding = "onboarding"
	ChecklistKindClearance  = "clearance"
)

// Checklist and task status constants
const (
	ChecklistStatusPending = "PENDING"
	ChecklistStatusDone    = "DONE"
)

// ClearanceTemplate is one department-specific clearance task.
type ClearanceTemplate struct {
	ID             int64  `json:"id"`
	Department     string `json:"department"`
	SequenceNumber int    `json:"sequence_number"`
	Task           string `json:"task"`
}

// DefaultTemplateDepartment is used when a department has no template of its own.
const DefaultTemplateDepartment = "default"
