package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

func TestDispatcherRunsEveryHandler(t *testing.T) {
	d := NewInMemoryDispatcher()
	var calls []string

	d.Subscribe(EventTicketStarted, func(context.Context, Event) error {
		calls = append(calls, "first")
		return errors.New("first failed")
	})
	d.Subscribe(EventTicketStarted, func(context.Context, Event) error {
		calls = append(calls, "second")
		return nil
	})
	d.Subscribe(EventTicketResolved, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := d.Publish(context.Background(), New(EventTicketStarted, 1, domain.Principal{EmployeeID: 101, Role: domain.RoleAgent}, nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ticket_started: first failed")
	assert.Equal(t, []string{"first", "second"}, calls)
}

func TestDispatcherNoHandlers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated}))
}

func TestNewStampsEvent(t *testing.T) {
	principal := domain.Principal{EmployeeID: 301, Role: domain.RoleSupervisor}
	event := New(EventTicketAssigned, 9, principal, TicketAssignedPayload{AgentID: 101})

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, int64(9), event.TicketID)
	assert.Equal(t, int64(301), event.Actor.EmployeeID)
	assert.False(t, event.Timestamp.IsZero())
}

func TestSubscribeAllCoversEveryType(t *testing.T) {
	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, eventType := range AllEventTypes {
		require.NoError(t, d.Publish(context.Background(), Event{Type: eventType}))
	}
	assert.Len(t, seen, len(AllEventTypes))
}
