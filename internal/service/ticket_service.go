package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// TicketService serves ticket reads and administrative edits.
type TicketService struct {
	tickets repository.TicketRepository
	logger  *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Logger     *zap.Logger
}

// TicketUpdateInput lists the editable fields; nil means unchanged.
type TicketUpdateInput struct {
	Status      *domain.TicketStatus
	AgentAction *domain.AgentAction
	Remarks     *string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets: deps.TicketRepo,
		logger:  nopIfNil(deps.Logger),
	}
}

// ListTickets returns every ticket.
func (s *TicketService) ListTickets(ctx context.Context, principal domain.Principal) ([]domain.Ticket, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, principal domain.Principal, ticketID int64) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
	}
	return ticket, nil
}

// UpdateTicket overwrites the provided fields without a transition check.
func (s *TicketService) UpdateTicket(ctx context.Context, principal domain.Principal, ticketID int64, input TicketUpdateInput) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapManage); err != nil {
		return nil, err
	}
	if input.Status != nil && !input.Status.Valid() {
		return nil, apperrors.NewInvalidInput("invalid status", map[string]any{"status": *input.Status})
	}
	if input.AgentAction != nil && !input.AgentAction.Valid() {
		return nil, apperrors.NewInvalidInput("agentAction must be resolved or rejected", map[string]any{"agentAction": *input.AgentAction})
	}

	patch := repository.TicketPatch{
		Status:      input.Status,
		AgentAction: input.AgentAction,
		Remarks:     input.Remarks,
		RemarksSet:  input.Remarks != nil,
	}
	if err := s.tickets.UpdateFields(ctx, ticketID, patch); err != nil {
		return nil, lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
	}

	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
	}
	s.logger.Info("ticket updated", zap.Int64("ticket_id", ticketID), zap.String("status", string(ticket.Status)))
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, principal domain.Principal, ticketID int64) error {
	if err := authorize(principal, domain.CapManage); err != nil {
		return err
	}
	if err := s.tickets.Delete(ctx, ticketID); err != nil {
		return lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
	}
	s.logger.Info("ticket deleted", zap.Int64("ticket_id", ticketID))
	return nil
}

// ListAgentTickets returns the tickets bound to an agent.
func (s *TicketService) ListAgentTickets(ctx context.Context, principal domain.Principal, agentEmployeeID int64) ([]domain.Ticket, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	if agentEmployeeID <= 0 {
		return nil, apperrors.NewInvalidInput("Invalid Employee ID", nil)
	}
	tickets, err := s.tickets.ListByAgent(ctx, agentEmployeeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}

// ListSupervisorTickets returns a supervisor's tickets joined with reporter details.
func (s *TicketService) ListSupervisorTickets(ctx context.Context, principal domain.Principal, supervisorEmployeeID int64) ([]domain.SupervisorTicket, error) {
	if err := authorize(principal, domain.CapReadTickets); err != nil {
		return nil, err
	}
	if supervisorEmployeeID <= 0 {
		return nil, apperrors.NewInvalidInput("Employee ID must be a valid number", nil)
	}
	tickets, err := s.tickets.ListBySupervisorWithReporter(ctx, supervisorEmployeeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tickets, nil
}
