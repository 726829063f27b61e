package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// LifecycleService drives ticket status transitions and the agent
// availability flips paired with them.
type LifecycleService struct {
	tickets repository.TicketRepository
	uow     repository.UnitOfWork
	routing *RoutingService
	logger  *zap.Logger
	events  workflowNotifier
	now     func() time.Time
}

// LifecycleDependencies bundles collaborators for the lifecycle service.
type LifecycleDependencies struct {
	TicketRepo repository.TicketRepository
	UnitOfWork repository.UnitOfWork
	Routing    *RoutingService
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// CreateTicketInput describes a filed ticket. A zero UserID files on behalf
// of the caller.
type CreateTicketInput struct {
	UserID      int64
	Department  string
	Description string
}

// ResolveTicketInput closes out a ticket. ResolvedAt is an RFC 3339 timestamp.
type ResolveTicketInput struct {
	TicketID        int64
	AgentEmployeeID int64
	AgentAction     domain.AgentAction
	ResolvedAt      string
}

// NewLifecycleService constructs the service.
func NewLifecycleService(deps LifecycleDependencies) *LifecycleService {
	logger := nopIfNil(deps.Logger)
	return &LifecycleService{
		tickets: deps.TicketRepo,
		uow:     deps.UnitOfWork,
		routing: deps.Routing,
		logger:  logger,
		events:  workflowNotifier{dispatcher: deps.Dispatcher, metrics: deps.Metrics, logger: logger},
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// CreateTicket files an open, unassigned ticket owned by the department's supervisor.
func (s *LifecycleService) CreateTicket(ctx context.Context, principal domain.Principal, input CreateTicketInput) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapFileTicket); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewInvalidInput("Description is required", nil)
	}
	if input.UserID < 0 {
		return nil, apperrors.NewInvalidInput("User ID must be a positive integer", nil)
	}
	reporter := input.UserID
	if reporter == 0 {
		reporter = principal.EmployeeID
	}

	supervisor, err := s.routing.ResolveSupervisor(ctx, input.Department)
	if err != nil {
		return nil, err
	}

	ticket := &domain.Ticket{
		UserID:       reporter,
		SupervisorID: supervisor.EmployeeID,
		Department:   strings.TrimSpace(input.Department),
		Description:  description,
		Status:       domain.TicketStatusOpen,
		CreatedAt:    s.now(),
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.logger.Info("ticket created",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("user_employee_id", ticket.UserID),
		zap.Int64("supervisor_employee_id", ticket.SupervisorID),
		zap.String("department", ticket.Department))
	s.events.notify(ctx, "created", events.New(events.EventTicketCreated, ticket.ID, principal, events.TicketCreatedPayload{
		Department:   ticket.Department,
		ReporterID:   ticket.UserID,
		SupervisorID: ticket.SupervisorID,
	}))
	return ticket, nil
}

// StartTicket moves the ticket to in_progress and marks the named agent busy
// in one unit of work. Neither the prior status nor the bound agent is checked.
func (s *LifecycleService) StartTicket(ctx context.Context, principal domain.Principal, ticketID, agentEmployeeID int64) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapWorkTickets); err != nil {
		return nil, err
	}
	if ticketID <= 0 || agentEmployeeID <= 0 {
		return nil, apperrors.NewInvalidInput("ticketId and agentEmployeeId are required", nil)
	}

	status := domain.TicketStatusInProgress
	ticket, err := s.transition(ctx, ticketID, agentEmployeeID,
		repository.TicketPatch{Status: &status}, domain.AvailabilityBusy)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket started",
		zap.Int64("ticket_id", ticketID),
		zap.Int64("agent_employee_id", agentEmployeeID))
	s.events.notify(ctx, "started", events.New(events.EventTicketStarted, ticketID, principal, events.TicketStartedPayload{
		AgentID: agentEmployeeID,
	}))
	return ticket, nil
}

// ResolveTicket records the agent's outcome and frees the agent. The status
// becomes resolved for both outcomes; only AgentAction tells them apart.
func (s *LifecycleService) ResolveTicket(ctx context.Context, principal domain.Principal, input ResolveTicketInput) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapWorkTickets); err != nil {
		return nil, err
	}
	if input.TicketID <= 0 || input.AgentEmployeeID <= 0 || input.AgentAction == "" || strings.TrimSpace(input.ResolvedAt) == "" {
		return nil, apperrors.NewInvalidInput("All fields are required", nil)
	}
	if !input.AgentAction.Valid() {
		return nil, apperrors.NewInvalidInput("agentAction must be resolved or rejected", map[string]any{"agentAction": input.AgentAction})
	}
	resolvedAt, err := ParseTimestamp(input.ResolvedAt)
	if err != nil {
		return nil, apperrors.NewInvalidInput("resolvedAt must be a valid date", map[string]any{"resolvedAt": input.ResolvedAt})
	}

	status := domain.TicketStatusResolved
	action := input.AgentAction
	ticket, err := s.transition(ctx, input.TicketID, input.AgentEmployeeID, repository.TicketPatch{
		Status:      &status,
		AgentAction: &action,
		ResolvedAt:  &resolvedAt,
	}, domain.AvailabilityAvailable)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ticket resolved",
		zap.Int64("ticket_id", input.TicketID),
		zap.Int64("agent_employee_id", input.AgentEmployeeID),
		zap.String("agent_action", string(action)))
	s.events.notify(ctx, "resolved", events.New(events.EventTicketResolved, input.TicketID, principal, events.TicketResolvedPayload{
		AgentID:     input.AgentEmployeeID,
		AgentAction: action,
		ResolvedAt:  resolvedAt,
	}))
	return ticket, nil
}

// transition writes the ticket patch and the agent availability together and
// returns the ticket as committed.
func (s *LifecycleService) transition(ctx context.Context, ticketID, agentEmployeeID int64, patch repository.TicketPatch, availability domain.Availability) (*domain.Ticket, error) {
	var updated *domain.Ticket
	err := s.uow.Do(ctx, func(stores repository.WorkflowStores) error {
		if err := stores.Tickets.UpdateFields(ctx, ticketID, patch); err != nil {
			return lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
		}
		if err := stores.Users.UpdateAvailability(ctx, agentEmployeeID, availability); err != nil {
			return lookupError(err, "Agent not found", map[string]any{"agentEmployeeId": agentEmployeeID})
		}
		ticket, err := stores.Tickets.GetByID(ctx, ticketID)
		if err != nil {
			return lookupError(err, "Ticket not found", map[string]any{"ticketId": ticketID})
		}
		updated = ticket
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return updated, nil
}

// ParseTimestamp reads an RFC 3339 timestamp, fractional seconds optional,
// and normalizes it to UTC.
func ParseTimestamp(value string) (time.Time, error) {
	ts, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return ts.UTC(), nil
}
