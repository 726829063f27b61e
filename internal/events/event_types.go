package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated  EventType = "ticket_created"
	EventTicketAssigned EventType = "ticket_assigned"
	EventTicketStarted  EventType = "ticket_started"
	EventTicketResolved EventType = "ticket_resolved"
)

// AllEventTypes lists every event the workflow emits.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketAssigned,
	EventTicketStarted,
	EventTicketResolved,
}

// Actor is the principal that caused the event.
type Actor struct {
	EmployeeID int64       `json:"employeeId"`
	Role       domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	TicketID  int64     `json:"ticketId"`
	Actor     Actor     `json:"actor"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with a fresh id and the current time.
func New(eventType EventType, ticketID int64, principal domain.Principal, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticketID,
		Actor:     Actor{EmployeeID: principal.EmployeeID, Role: principal.Role},
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Department   string `json:"department"`
	ReporterID   int64  `json:"userId"`
	SupervisorID int64  `json:"supervisorId"`
}

// TicketAssignedPayload payload.
type TicketAssignedPayload struct {
	AgentID int64   `json:"agentId"`
	Remarks *string `json:"remarks,omitempty"`
}

// TicketStartedPayload payload.
type TicketStartedPayload struct {
	AgentID int64 `json:"agentId"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	AgentID     int64              `json:"agentId"`
	AgentAction domain.AgentAction `json:"agentAction"`
	ResolvedAt  time.Time          `json:"resolvedAt"`
}
