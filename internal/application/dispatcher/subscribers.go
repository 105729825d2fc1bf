package dispatcher

import (
	"context"

	"github.com/garyjia/backoffice-console/internal/domain/event"
)

// SessionResetter drops cached checklist sessions of an employee
type SessionResetter interface {
	ResetEmployee(employeeID int64) int
}

// RegisterSubscribers wires the in-process reactions to domain events
func RegisterSubscribers(d Dispatcher, sessions SessionResetter, logger Logger) {
	// Rehired employees start fresh checklists; deleted ones have none to edit.
	for _, t := range []event.Type{event.TypeEmployeeRehired, event.TypeEmployeeDeleted} {
		d.Subscribe(t, "reset-checklist-sessions", func(ctx context.Context, evt *event.Event) error {
			dropped := sessions.ResetEmployee(evt.EmployeeID)
			logger.Info("Checklist sessions reset",
				"event_type", evt.Type,
				"employee_id", evt.EmployeeID,
				"sessions", dropped,
			)
			return nil
		})
	}

	d.Subscribe(AnyType, "audit-log", func(ctx context.Context, evt *event.Event) error {
		logger.Info("Domain event",
			"event_type", evt.Type,
			"event_id", evt.ID,
			"correlation_id", evt.CorrelationID,
			"employee_id", evt.EmployeeID,
			"payload", evt.Payload,
		)
		return nil
	})
}
