package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/garyjia/backoffice-console/internal/application/port"
	"github.com/garyjia/backoffice-console/internal/domain/event"
)

// ErrClosed is returned by Dispatch after Close
var ErrClosed = errors.New("dispatcher is closed")

// Dispatcher delivers domain events to in-process subscribers
type Dispatcher interface {
	// Subscribe adds a named handler for eventType, or for every type with AnyType
	Subscribe(eventType event.Type, name string, handler Handler)

	// Dispatch runs the handlers of evt.Type, then the AnyType handlers, in
	// subscription order. The first failing handler stops delivery.
	Dispatch(ctx context.Context, evt *event.Event) error

	// ListHandlers describes the handlers subscribed to eventType
	ListHandlers(eventType event.Type) []HandlerInfo

	Close() error
}

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

type eventDispatcher struct {
	mu     sync.RWMutex
	routes map[event.Type][]HandlerInfo
	closed bool
	logger Logger
}

// Option configures the dispatcher
type Option func(*eventDispatcher)

// WithLogger sets a logger for the dispatcher
func WithLogger(logger Logger) Option {
	return func(d *eventDispatcher) {
		d.logger = logger
	}
}

// NewDispatcher creates a dispatcher with no subscribers
func NewDispatcher(opts ...Option) Dispatcher {
	d := &eventDispatcher{routes: make(map[event.Type][]HandlerInfo)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *eventDispatcher) Subscribe(eventType event.Type, name string, handler Handler) {
	d.mu.Lock()
	d.routes[eventType] = append(d.routes[eventType], HandlerInfo{Name: name, EventType: eventType, Handler: handler})
	d.mu.Unlock()

	d.info("Handler subscribed", "event_type", eventType, "handler_name", name)
}

func (d *eventDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		return ErrClosed
	}
	handlers := make([]HandlerInfo, 0, len(d.routes[evt.Type])+len(d.routes[AnyType]))
	handlers = append(handlers, d.routes[evt.Type]...)
	if evt.Type != AnyType {
		handlers = append(handlers, d.routes[AnyType]...)
	}
	d.mu.RUnlock()

	for _, h := range handlers {
		if err := d.run(ctx, evt, h); err != nil {
			d.error("Event handler failed",
				"event_type", evt.Type,
				"event_id", evt.ID,
				"employee_id", evt.EmployeeID,
				"handler_name", h.Name,
				"error", err,
			)
			return fmt.Errorf("handler %s: %w", h.Name, err)
		}
	}
	return nil
}

func (d *eventDispatcher) ListHandlers(eventType event.Type) []HandlerInfo {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]HandlerInfo, len(d.routes[eventType]))
	for i, h := range d.routes[eventType] {
		out[i] = HandlerInfo{Name: h.Name, EventType: h.EventType}
	}
	return out
}

// Close makes later dispatches fail with ErrClosed
func (d *eventDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return ErrClosed
	}
	d.closed = true
	return nil
}

// run converts a handler panic into an error
func (d *eventDispatcher) run(ctx context.Context, evt *event.Event, h HandlerInfo) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return h.Handler(ctx, evt)
}

func (d *eventDispatcher) info(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Info(msg, keysAndValues...)
	}
}

func (d *eventDispatcher) error(msg string, keysAndValues ...interface{}) {
	if d.logger != nil {
		d.logger.Error(msg, keysAndValues...)
	}
}

var _ port.EventPublisher = (Dispatcher)(nil)
