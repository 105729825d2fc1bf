package workflow

// Trigger is an action that moves an employee between lifecycle states
type Trigger string

const (
	TriggerCompleteOnboarding Trigger = "COMPLETE_ONBOARDING"
	TriggerTerminate          Trigger = "TERMINATE"
	TriggerResign             Trigger = "RESIGN"
	TriggerRehire             Trigger = "REHIRE"
)

// String returns the string representation of the trigger
func (t Trigger) String() string {
	return string(t)
}
