package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateTicketRequest payload. UserID defaults to the caller.
type CreateTicketRequest struct {
	UserID      int64  `json:"userId" validate:"omitempty,gt=0"`
	Department  string `json:"department" validate:"required,min=1,max=50"`
	Description string `json:"description" validate:"required,notblank,max=255"`
}

// UpdateTicketRequest payload; omitted fields are left unchanged.
type UpdateTicketRequest struct {
	Status      *domain.TicketStatus `json:"status" validate:"omitempty,oneof=open in_progress resolved rejected expired"`
	AgentAction *domain.AgentAction  `json:"agentAction" validate:"omitempty,oneof=resolved rejected"`
	Remarks     *string              `json:"remarks" validate:"omitempty,max=255"`
}

// TicketResponse is the ticket row as the front end reads it.
type TicketResponse struct {
	ID           int64               `json:"id"`
	UserID       int64               `json:"userId"`
	SupervisorID int64               `json:"supervisorId"`
	AgentID      *int64              `json:"agentId"`
	Department   string              `json:"department"`
	Description  string              `json:"description"`
	Remarks      *string             `json:"remarks"`
	Status       domain.TicketStatus `json:"status"`
	AgentAction  *domain.AgentAction `json:"agentAction"`
	CreatedAt    time.Time           `json:"createdAt"`
	ResolvedAt   *time.Time          `json:"resolvedAt"`
	Expired      bool                `json:"expired"`
}

// NewTicketResponse maps a domain ticket.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:           ticket.ID,
		UserID:       ticket.UserID,
		SupervisorID: ticket.SupervisorID,
		AgentID:      ticket.AgentID,
		Department:   ticket.Department,
		Description:  ticket.Description,
		Remarks:      ticket.Remarks,
		Status:       ticket.Status,
		AgentAction:  ticket.AgentAction,
		CreatedAt:    ticket.CreatedAt,
		ResolvedAt:   ticket.ResolvedAt,
		Expired:      ticket.Expired,
	}
}

// NewTicketResponses maps a slice of tickets, never returning nil.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	items := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		items = append(items, NewTicketResponse(&tickets[i]))
	}
	return items
}
