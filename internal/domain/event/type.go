package event

// Type identifies the type of domain event
type Type string

const (
	TypeEmployeeCreated    Type = "employee.created"
	TypeEmployeeStatus     Type = "employee.status_changed"
	TypeEmployeeRehired    Type = "employee.rehired"
	TypeEmployeeDeleted    Type = "employee.deleted"
	TypeExitSubmitted      Type = "employee.exit_submitted"
	TypeChecklistSaved     Type = "checklist.saved"
	TypeChecklistCompleted Type = "checklist.completed"
)

// String returns the string representation of the event type
func (t Type) String() string {
	return string(t)
}

// IsValid checks if the event type is one of the defined constants
func (t Type) IsValid() bool {
	switch t {
	case TypeEmployeeCreated,
		TypeEmployeeStatus,
		TypeEmployeeRehired,
		TypeEmployeeDeleted,
		TypeExitSubmitted,
		TypeChecklistSaved,
		TypeChecklistCompleted:
		return true
	default:
		return false
	}
}
