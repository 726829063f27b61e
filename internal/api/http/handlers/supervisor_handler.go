package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// SupervisorHandler serves routing, assignment and directory lookups.
type SupervisorHandler struct {
	tickets    *service.TicketService
	assignment *service.AssignmentService
	directory  *service.DirectoryService
}

// SupervisorHandlerDependencies bundles services.
type SupervisorHandlerDependencies struct {
	Tickets    *service.TicketService
	Assignment *service.AssignmentService
	Directory  *service.DirectoryService
}

// NewSupervisorHandler constructs handler.
func NewSupervisorHandler(deps SupervisorHandlerDependencies) *SupervisorHandler {
	return &SupervisorHandler{
		tickets:    deps.Tickets,
		assignment: deps.Assignment,
		directory:  deps.Directory,
	}
}

// ListSupervisors POST /api/supervisor/:departmentName.
func (h *SupervisorHandler) ListSupervisors(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	users, err := h.directory.ListSupervisorsByDepartment(c.UserContext(), principal, c.Params("departmentName"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Supervisors fetched successfully",
		"users":   dto.NewSupervisorSummaries(users),
	})
}

// GetUser GET /api/supervisor/user/:employeeId.
func (h *SupervisorHandler) GetUser(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	employeeID, err := paramID(c, "employeeId", "Employee ID must be a valid number")
	if err != nil {
		return err
	}
	user, err := h.directory.GetUserByEmployeeID(c.UserContext(), principal, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User fetched successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// ListDepartments GET /api/supervisor/departments.
func (h *SupervisorHandler) ListDepartments(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	departments, err := h.directory.ListDepartments(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "Departments fetched successfully",
		"departments": dto.NewDepartmentResponses(departments),
	})
}

// ListTickets GET /api/supervisor/tickets/:employeeId.
func (h *SupervisorHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	employeeID, err := paramID(c, "employeeId", "Employee ID must be a valid number")
	if err != nil {
		return err
	}
	rows, err := h.tickets.ListSupervisorTickets(c.UserContext(), principal, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Supervisor tickets fetched successfully",
		"tickets": dto.NewSupervisorTicketResponses(rows),
	})
}

// ListAgents GET /api/supervisor/agents/:employeeId.
func (h *SupervisorHandler) ListAgents(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	employeeID, err := paramID(c, "employeeId", "Invalid Employee ID")
	if err != nil {
		return err
	}
	agents, err := h.assignment.ListAgentsForSupervisor(c.UserContext(), principal, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Agents fetched successfully",
		"agents":  dto.NewAgentSummaries(agents),
	})
}

// AssignTicket POST /api/supervisor/tickets/assign.
func (h *SupervisorHandler) AssignTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.AssignTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.assignment.AssignTicket(c.UserContext(), principal, service.AssignTicketInput{
		TicketID:        req.TicketID,
		AgentEmployeeID: req.AgentEmployeeID,
		Remarks:         req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket assigned to agent successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}
