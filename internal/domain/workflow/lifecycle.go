package workflow

// NewEmployeeLifecycle returns the employee lifecycle machine positioned at current.
//
//	ONBOARDING --COMPLETE_ONBOARDING--> ACTIVE
//	ACTIVE     --TERMINATE-->           TERMINATED
//	ACTIVE     --RESIGN-->              RESIGNED
//	TERMINATED --REHIRE-->              ONBOARDING
//	RESIGNED   --REHIRE-->              ONBOARDING
//
// An employee still onboarding may also be terminated or resign.
func NewEmployeeLifecycle(current State) StateMachine {
	b := NewBuilder()

	b.Configure(StateOnboarding).
		Permit(TriggerCompleteOnboarding, StateActive).
		Permit(TriggerTerminate, StateTerminated).
		Permit(TriggerResign, StateResigned)

	b.Configure(StateActive).
		Permit(TriggerTerminate, StateTerminated).
		Permit(TriggerResign, StateResigned)

	b.Configure(StateTerminated).
		Permit(TriggerRehire, StateOnboarding)

	b.Configure(StateResigned).
		Permit(TriggerRehire, StateOnboarding)

	return b.Build(current)
}
