package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestState_IsExited(t *testing.T) {
	tests := []struct {
		state    State
		expected bool
	}{
		{StateOnboarding, false},
		{StateActive, false},
		{StateTerminated, true},
		{StateResigned, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			if got := tt.state.IsExited(); got != tt.expected {
				t.Errorf("State.IsExited() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		expected bool
	}{
		{"onboarding", StateOnboarding, true},
		{"resigned", StateResigned, true},
		{"unknown", State("ON_LEAVE"), false},
		{"empty", State(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.expected {
				t.Errorf("State.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestBuilder_ConfigurePanicsOnInvalidState(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Configure() should panic on invalid state")
		}
	}()

	NewBuilder().Configure(State("INVALID"))
}

func TestBuilder_PermitPanicsOnInvalidTarget(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Permit() should panic on invalid target state")
		}
	}()

	NewBuilder().Configure(StateActive).Permit(TriggerResign, State("GONE"))
}

func TestBuilder_BuildIsolatesMachines(t *testing.T) {
	b := NewBuilder()
	b.Configure(StateActive).Permit(TriggerResign, StateResigned)
	m := b.Build(StateActive)

	// configuring after Build must not affect the built machine
	b.Configure(StateActive).Permit(TriggerTerminate, StateTerminated)

	if m.CanFire(TriggerTerminate) {
		t.Error("machine picked up a transition configured after Build()")
	}
	if !m.CanFire(TriggerResign) {
		t.Error("machine lost a transition configured before Build()")
	}
}

func TestStateMachine_GuardedTransitions(t *testing.T) {
	ctx := context.Background()
	allow := false

	b := NewBuilder()
	b.Configure(StateOnboarding).
		PermitIf(TriggerCompleteOnboarding, StateActive, func(ctx context.Context) bool { return allow })
	m := b.Build(StateOnboarding)

	err := m.Fire(ctx, TriggerCompleteOnboarding)
	if !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() error = %v, want ErrGuardFailed", err)
	}
	if m.State() != StateOnboarding {
		t.Errorf("state changed despite failed guard: %s", m.State())
	}

	allow = true
	if err := m.Fire(ctx, TriggerCompleteOnboarding); err != nil {
		t.Fatalf("Fire() unexpected error: %v", err)
	}
	if m.State() != StateActive {
		t.Errorf("State() = %s, want %s", m.State(), StateActive)
	}
}

func TestEmployeeLifecycle_Transitions(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		trigger Trigger
		want    State
		wantErr bool
	}{
		{"complete onboarding", StateOnboarding, TriggerCompleteOnboarding, StateActive, false},
		{"terminate active", StateActive, TriggerTerminate, StateTerminated, false},
		{"resign active", StateActive, TriggerResign, StateResigned, false},
		{"resign while onboarding", StateOnboarding, TriggerResign, StateResigned, false},
		{"rehire terminated", StateTerminated, TriggerRehire, StateOnboarding, false},
		{"rehire resigned", StateResigned, TriggerRehire, StateOnboarding, false},
		{"rehire active", StateActive, TriggerRehire, StateActive, true},
		{"terminate twice", StateTerminated, TriggerTerminate, StateTerminated, true},
		{"complete onboarding when active", StateActive, TriggerCompleteOnboarding, StateActive, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEmployeeLifecycle(tt.from)
			err := m.Fire(context.Background(), tt.trigger)

			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Fire() error = %v, want ErrInvalidTransition", err)
				}
			} else if err != nil {
				t.Errorf("Fire() unexpected error: %v", err)
			}

			if m.State() != tt.want {
				t.Errorf("State() = %s, want %s", m.State(), tt.want)
			}
		})
	}
}

func TestEmployeeLifecycle_PermittedTriggers(t *testing.T) {
	m := NewEmployeeLifecycle(StateActive)
	got := m.PermittedTriggers()
	want := []Trigger{TriggerResign, TriggerTerminate}

	if len(got) != len(want) {
		t.Fatalf("PermittedTriggers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PermittedTriggers()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
