package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// TicketsHandler manages the ticket CRUD endpoints.
type TicketsHandler struct {
	tickets   *service.TicketService
	lifecycle *service.LifecycleService
}

// NewTicketsHandler constructs handler.
func NewTicketsHandler(ticketService *service.TicketService, lifecycle *service.LifecycleService) *TicketsHandler {
	return &TicketsHandler{tickets: ticketService, lifecycle: lifecycle}
}

// CreateTicket POST /api/tickets.
func (h *TicketsHandler) CreateTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.lifecycle.CreateTicket(c.UserContext(), principal, service.CreateTicketInput{
		UserID:      req.UserID,
		Department:  req.Department,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "Ticket created successfully",
		"insertedId": ticket.ID,
		"ticket":     dto.NewTicketResponse(ticket),
	})
}

// ListTickets GET /api/tickets.
func (h *TicketsHandler) ListTickets(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	tickets, err := h.tickets.ListTickets(c.UserContext(), principal)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Tickets fetched successfully",
		"tickets": dto.NewTicketResponses(tickets),
	})
}

// GetTicket GET /api/tickets/:id.
func (h *TicketsHandler) GetTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "Invalid ticket ID")
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), principal, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket fetched successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// UpdateTicket PUT /api/tickets/:id.
func (h *TicketsHandler) UpdateTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "Invalid ticket ID")
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ticket, err := h.tickets.UpdateTicket(c.UserContext(), principal, id, service.TicketUpdateInput{
		Status:      req.Status,
		AgentAction: req.AgentAction,
		Remarks:     req.Remarks,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Ticket updated successfully",
		"ticket":  dto.NewTicketResponse(ticket),
	})
}

// DeleteTicket DELETE /api/tickets/:id.
func (h *TicketsHandler) DeleteTicket(c *fiber.Ctx) error {
	principal, err := currentPrincipal(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", "Invalid ticket ID")
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), principal, id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "Ticket deleted successfully"})
}
