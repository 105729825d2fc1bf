package dispatcher

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/garyjia/backoffice-console/internal/domain/event"
)

type recordingLogger struct {
	mu      sync.Mutex
	entries []map[string]interface{}
}

func (l *recordingLogger) Info(msg string, keysAndValues ...interface{}) {
	l.record("info", msg, keysAndValues)
}

func (l *recordingLogger) Error(msg string, keysAndValues ...interface{}) {
	l.record("error", msg, keysAndValues)
}

func (l *recordingLogger) record(level, msg string, keysAndValues []interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := map[string]interface{}{"level": level, "msg": msg}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		entry[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	l.entries = append(l.entries, entry)
}

func (l *recordingLogger) count(msg string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.entries {
		if e["msg"] == msg {
			n++
		}
	}
	return n
}

type recordingResetter struct {
	reset []int64
}

func (r *recordingResetter) ResetEmployee(employeeID int64) int {
	r.reset = append(r.reset, employeeID)
	return 2
}

func statusEvent(employeeID int64) *event.Event {
	return event.NewEvent(event.TypeEmployeeStatus, employeeID, map[string]interface{}{"to": "ACTIVE"})
}

func TestDispatch_Order(t *testing.T) {
	d := NewDispatcher()
	var order []string
	track := func(name string) Handler {
		return func(ctx context.Context, evt *event.Event) error {
			order = append(order, name)
			return nil
		}
	}

	d.Subscribe(AnyType, "audit", track("audit"))
	d.Subscribe(event.TypeEmployeeStatus, "first", track("first"))
	d.Subscribe(event.TypeChecklistSaved, "other", track("other"))
	d.Subscribe(event.TypeEmployeeStatus, "second", track("second"))

	require.NoError(t, d.Dispatch(context.Background(), statusEvent(1)))
	assert.Equal(t, []string{"first", "second", "audit"}, order)

	infos := d.ListHandlers(event.TypeEmployeeStatus)
	require.Len(t, infos, 2)
	assert.Equal(t, "first", infos[0].Name)
	assert.Nil(t, infos[0].Handler)
}

func TestDispatch_FirstErrorStops(t *testing.T) {
	logger := &recordingLogger{}
	d := NewDispatcher(WithLogger(logger))
	boom := errors.New("boom")
	called := false

	d.Subscribe(event.TypeEmployeeStatus, "failing", func(ctx context.Context, evt *event.Event) error {
		return boom
	})
	d.Subscribe(event.TypeEmployeeStatus, "after", func(ctx context.Context, evt *event.Event) error {
		called = true
		return nil
	})

	err := d.Dispatch(context.Background(), statusEvent(1))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "failing")
	assert.False(t, called)
	assert.Equal(t, 1, logger.count("Event handler failed"))
}

func TestDispatch_RecoversPanic(t *testing.T) {
	d := NewDispatcher()
	d.Subscribe(event.TypeEmployeeStatus, "panics", func(ctx context.Context, evt *event.Event) error {
		panic("nil map")
	})

	err := d.Dispatch(context.Background(), statusEvent(1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic: nil map")
}

func TestDispatcher_Close(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, d.Close())

	assert.ErrorIs(t, d.Dispatch(context.Background(), statusEvent(1)), ErrClosed)
	assert.ErrorIs(t, d.Close(), ErrClosed)
}

func TestRegisterSubscribers(t *testing.T) {
	logger := &recordingLogger{}
	resetter := &recordingResetter{}
	d := NewDispatcher()
	RegisterSubscribers(d, resetter, logger)
	ctx := context.Background()

	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeEmployeeRehired, 9, nil)))
	require.NoError(t, d.Dispatch(ctx, statusEvent(3)))
	require.NoError(t, d.Dispatch(ctx, event.NewEvent(event.TypeEmployeeDeleted, 5, nil)))

	assert.Equal(t, []int64{9, 5}, resetter.reset)
	assert.Equal(t, 3, logger.count("Domain event"))
	assert.Equal(t, 2, logger.count("Checklist sessions reset"))
}
