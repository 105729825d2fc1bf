package workflow

import "github.com/garyjia/backoffice-console/internal/domain/entity"

// State is an employee lifecycle state
type State string

const (
	StateOnboarding State = entity.EmployeeStatusOnboarding
	StateActive     State = entity.EmployeeStatusActive
	StateTerminated State = entity.EmployeeStatusTerminated
	StateResigned   State = entity.EmployeeStatusResigned
)

var validStates = map[State]bool{
	StateOnboarding: true,
	StateActive:     true,
	StateTerminated: true,
	StateResigned:   true,
}

var exitStates = map[State]bool{
	StateTerminated: true,
	StateResigned:   true,
}

// IsExited returns true once the employee has left (terminated or resigned)
func (s State) IsExited() bool {
	return exitStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a known lifecycle state
func (s State) IsValid() bool {
	return validStates[s]
}
