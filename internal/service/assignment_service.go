package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AssignmentService surfaces candidate agents and binds them to tickets.
type AssignmentService struct {
	tickets repository.TicketRepository
	users   repository.UserRepository
	logger  *zap.Logger
	events  workflowNotifier
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	TicketRepo repository.TicketRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// AssignTicketInput carries an assignment request. A nil Remarks clears the
// ticket's remarks.
type AssignTicketInput struct {
	TicketID        int64
	AgentEmployeeID int64
	Remarks         *string
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := nopIfNil(deps.Logger)
	return &AssignmentService{
		tickets: deps.TicketRepo,
		users:   deps.UserRepo,
		logger:  logger,
		events:  workflowNotifier{dispatcher: deps.Dispatcher, metrics: deps.Metrics, logger: logger},
	}
}

// ListAgentsForSupervisor returns every agent in the supervisor's department,
// availability included.
func (s *AssignmentService) ListAgentsForSupervisor(ctx context.Context, principal domain.Principal, supervisorEmployeeID int64) ([]domain.User, error) {
	if err := authorize(principal, domain.CapRouteTickets); err != nil {
		return nil, err
	}
	if supervisorEmployeeID <= 0 {
		return nil, apperrors.NewInvalidInput("Invalid Employee ID", nil)
	}

	supervisor, err := s.users.GetByEmployeeID(ctx, supervisorEmployeeID)
	if err != nil {
		return nil, lookupError(err, "Supervisor not found", map[string]any{"employeeId": supervisorEmployeeID})
	}

	agents, err := s.users.ListByDepartmentAndRole(ctx, supervisor.Department, domain.RoleAgent, 0)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return agents, nil
}

// AssignTicket binds an agent to a ticket. Status and availability are left
// alone; the agent may be busy. Concurrent assignments race and the last
// writer wins.
func (s *AssignmentService) AssignTicket(ctx context.Context, principal domain.Principal, input AssignTicketInput) (*domain.Ticket, error) {
	if err := authorize(principal, domain.CapRouteTickets); err != nil {
		return nil, err
	}
	if input.TicketID <= 0 || input.AgentEmployeeID <= 0 {
		return nil, apperrors.NewInvalidInput("ticketId and agentEmployeeId are required", nil)
	}

	agent, err := s.users.GetByEmployeeID(ctx, input.AgentEmployeeID)
	if err != nil {
		return nil, lookupError(err, "Agent not found", map[string]any{"agentEmployeeId": input.AgentEmployeeID})
	}

	patch := repository.TicketPatch{
		AgentID:    &agent.EmployeeID,
		Remarks:    input.Remarks,
		RemarksSet: true,
	}
	if err := s.tickets.UpdateFields(ctx, input.TicketID, patch); err != nil {
		return nil, lookupError(err, "Ticket not found", map[string]any{"ticketId": input.TicketID})
	}

	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		return nil, lookupError(err, "Ticket not found", map[string]any{"ticketId": input.TicketID})
	}

	s.logger.Info("ticket assigned",
		zap.Int64("ticket_id", ticket.ID),
		zap.Int64("agent_employee_id", agent.EmployeeID),
		zap.String("agent_availability", string(agent.Availability)))
	s.events.notify(ctx, "assigned", events.New(events.EventTicketAssigned, ticket.ID, principal, events.TicketAssignedPayload{
		AgentID: agent.EmployeeID,
		Remarks: ticket.Remarks,
	}))
	return ticket, nil
}
