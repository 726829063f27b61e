package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// AgentHandler serves the agent work queue.
type AgentHandler struct {
	tickets   *service.TicketService
	lifecycle *service.LifecycleService
}

// NewAgentHandler constructs handler.
func NewAgentHandler(ticketService *service.TicketService, lifecycle *service.LifecycleService) *AgentHandler {
	return &AgentHandler{tickets: ticketService, lifecycle: lifecycle}
}

// ListTickets GET /api/agent/tickets/:employeeId.
func (h *AgentHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	employeeID, err := paramID(c, "employeeId", "Invalid Employee ID")
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListAgentTickets(c.UserContext(), principal, employeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Agent tickets fetched successfully",
		"tickets": dto.NewTicketResponses(tickets),
	})
}

// StartTicket POST /api/agent/start-ticket.
func (h *AgentHandler) StartTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.StartTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.lifecycle.StartTicket(c.UserContext(), principal, req.TicketID, req.AgentEmployeeID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket is now in progress and agent is marked busy.",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// ResolveTicket POST /api/agent/resolve-ticket.
func (h *AgentHandler) ResolveTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.ResolveTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.lifecycle.ResolveTicket(c.UserContext(), principal, service.ResolveTicketInput{
		TicketID:        req.TicketID,
		AgentEmployeeID: req.AgentEmployeeID,
		AgentAction:     req.AgentAction,
		ResolvedAt:      req.ResolvedAt,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": fmt.Sprintf("Ticket marked as %s. Agent is now available.", req.AgentAction),
		"ticket":  dto.NewTicketResponse(ticket),
	})
}
