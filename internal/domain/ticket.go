package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusRejected   TicketStatus = "rejected"
	TicketStatusExpired    TicketStatus = "expired"
)

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProgress, TicketStatusResolved, TicketStatusRejected, TicketStatusExpired:
		return true
	}
	return false
}

// AgentAction records how an agent closed out a ticket.
type AgentAction string

const (
	AgentActionResolved AgentAction = "resolved"
	AgentActionRejected AgentAction = "rejected"
)

// Valid reports whether a is resolved or rejected.
func (a AgentAction) Valid() bool {
	return a == AgentActionResolved || a == AgentActionRejected
}

// Ticket is the unit of work routed from reporter to supervisor to agent.
// UserID, SupervisorID and AgentID hold employee identifiers.
type Ticket struct {
	ID           int64
	UserID       int64
	SupervisorID int64
	AgentID      *int64
	Department   string
	Description  string
	Remarks      *string
	Status       TicketStatus
	AgentAction  *AgentAction
	CreatedAt    time.Time
	ResolvedAt   *time.Time
	// Expired is advisory; nothing in the service sets it.
	Expired bool
}

// Reporter carries the identity fields of the person who filed a ticket.
type Reporter struct {
	EmployeeID  int64
	FullName    string
	Email       string
	Phone       string
	Department  string
	Designation string
}

// SupervisorTicket is a ticket row joined with its reporter for display.
type SupervisorTicket struct {
	Ticket
	Reporter Reporter
}
