package checklist

// onboardingTasks is the fixed onboarding checklist, in display order.
var onboardingTasks = []string{
	"Signed employment contract",
	"Submitted government IDs",
	"SSS registration",
	"PhilHealth registration",
	"Pag-IBIG registration",
	"TIN verification",
	"NBI clearance",
	"Pre-employment medical exam",
	"Payroll bank account opened",
	"Company email created",
	"System accounts provisioned",
	"Company ID issued",
	"Equipment issued",
	"Orientation completed",
	"Company policies acknowledged",
	"Introduced to team",
}

// OnboardingTasks returns a copy of the 16 fixed onboarding task labels.
func OnboardingTasks() []string {
	return append([]string(nil), onboardingTasks...)
}
