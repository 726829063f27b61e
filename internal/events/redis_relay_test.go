package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	args := m.Called(ctx, channel, message)
	return args.Get(0).(*redis.IntCmd)
}

func TestRedisRelayPublishesJSON(t *testing.T) {
	pub := &publisherMock{}
	var sent []byte
	pub.On("Publish", mock.Anything, "helpdesk.events", mock.Anything).
		Run(func(args mock.Arguments) { sent = args.Get(2).([]byte) }).
		Return(redis.NewIntResult(2, nil))

	relay := NewRedisRelay(pub, "helpdesk.events", zap.NewNop())
	event := New(EventTicketStarted, 5, domain.Principal{EmployeeID: 101, Role: domain.RoleAgent}, TicketStartedPayload{AgentID: 101})

	require.NoError(t, relay.Handle(context.Background(), event))
	pub.AssertExpectations(t)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(sent, &decoded))
	assert.Equal(t, "ticket_started", decoded["type"])
	assert.EqualValues(t, 5, decoded["ticketId"])
}

func TestRedisRelayReportsFailure(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).
		Return(redis.NewIntResult(0, errors.New("connection refused")))

	relay := NewRedisRelay(pub, "helpdesk.events", zap.NewNop())
	err := relay.Handle(context.Background(), Event{ID: "e1", Type: EventTicketCreated})
	assert.ErrorContains(t, err, "connection refused")
}

func TestRedisRelayRegister(t *testing.T) {
	pub := &publisherMock{}
	pub.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(redis.NewIntResult(1, nil))

	d := NewInMemoryDispatcher()
	NewRedisRelay(pub, "c", zap.NewNop()).Register(d)

	for _, eventType := range AllEventTypes {
		require.NoError(t, d.Publish(context.Background(), Event{Type: eventType}))
	}
	pub.AssertNumberOfCalls(t, "Publish", len(AllEventTypes))
}
