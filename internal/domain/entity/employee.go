package entity

import "time"

// Employee is a staff member tracked from onboarding through exit.
type Employee struct {
	ID         int64  `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	Position   string `json:"position"`
	Department string `json:"department"`
	HireDate   string `json:"hire_date,omitempty"` // YYYY-MM-DD

	Status string `json:"status"`

	// Exit details are filled by terminate/resign and cleared on rehire.
	ExitType   string `json:"exit_type,omitempty"`
	ExitDate   string `json:"exit_date,omitempty"`
	ExitReason string `json:"exit_reason,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns "First Middle Last" with empty parts skipped.
func (e *Employee) FullName() string {
	name := e.FirstName
	if e.MiddleName != "" {
		name += " " + e.MiddleName
	}
	if e.LastName != "" {
		name += " " + e.LastName
	}
	return name
}

// Employee status constants
const (
	EmployeeStatusOnboarding = "ONBOARDING"
	EmployeeStatusActive     = "ACTIVE"
	EmployeeStatusTerminated = "TERMINATED"
	EmployeeStatusResigned   = "RESIGNED"
)

// Exit type constants
const (
	ExitTypeTerminated = "terminated"
	ExitTypeResigned   = "resigned"
)

// EmployeeHistory records one status transition.
type EmployeeHistory struct {
	ID             int64     `json:"id"`
	EmployeeID     int64     `json:"employee_id"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	NewStatus      string    `json:"new_status"`
	Action         string    `json:"action"`
	Reason         string    `json:"reason,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
