package entity

import (
	"encoding/json"
	"time"
)

// WizardState is the saved progress of the multi-batch onboarding wizard.
type WizardState struct {
	Key          string          `json:"key"`
	EmployeeID   int64           `json:"employee_id,omitempty"`
	CurrentBatch int             `json:"current_batch"`
	Payload      json.RawMessage `json:"payload"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
