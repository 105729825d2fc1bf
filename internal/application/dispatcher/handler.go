package dispatcher

import (
	"context"

	"github.com/garyjia/backoffice-console/internal/domain/event"
)

// Handler reacts to one domain event
type Handler func(ctx context.Context, evt *event.Event) error

// HandlerInfo is a subscription. ListHandlers leaves Handler nil.
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}

// AnyType subscribes a handler to every event type
const AnyType event.Type = "*"
