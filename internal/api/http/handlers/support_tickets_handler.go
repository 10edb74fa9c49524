package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// SupportTicketsHandler exposes support ticket endpoints.
type SupportTicketsHandler struct {
	tickets *service.TicketService
}

// NewSupportTicketsHandler constructs handler.
func NewSupportTicketsHandler(tickets *service.TicketService) *SupportTicketsHandler {
	return &SupportTicketsHandler{tickets: tickets}
}

// Create handles POST /api/support_tickets. The ticket is assigned before
// the response is written.
func (h *SupportTicketsHandler) Create(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	result, err := h.tickets.CreateTicket(c.UserContext(), current, service.TicketCreateInput{
		CustomerID:  req.CustomerID,
		CreatedBy:   req.CreatedBy,
		Subject:     req.TicketSubject,
		Description: req.TicketDescription,
		Status:      req.TicketStatus,
	})
	if err != nil {
		return err
	}
	resp := dto.TicketCreatedResponse{TicketID: result.Ticket.ID, Message: dto.TicketCreatedMessage}
	for _, w := range result.Warnings {
		resp.Warnings = append(resp.Warnings, dto.Warning{Code: w.Code, Message: w.Message})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// List handles GET /api/support_tickets.
func (h *SupportTicketsHandler) List(c *fiber.Ctx) error {
	customerID, err := queryInt64(c, "customer_id")
	if err != nil {
		return err
	}
	assignedTo, err := queryInt64(c, "assigned_to")
	if err != nil {
		return err
	}
	page, err := h.tickets.ListTickets(c.UserContext(), service.TicketQuery{
		Status:     queryString(c, "ticket_status"),
		CustomerID: customerID,
		AssignedTo: assignedTo,
		Pagination: pagination(c),
	})
	if err != nil {
		return err
	}
	return listResponse(c, page, dto.NewTicketResponses)
}

// Get handles GET /api/support_tickets/:id.
func (h *SupportTicketsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ticket, err := h.tickets.GetTicket(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Update handles PUT /api/support_tickets/:id.
func (h *SupportTicketsHandler) Update(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateTicketRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	ticket, err := h.tickets.UpdateTicket(c.UserContext(), current, id, service.TicketUpdateInput{
		CustomerID:  req.CustomerID,
		AssignedTo:  req.AssignedTo.Value,
		Unassign:    req.AssignedTo.Cleared(),
		Subject:     req.TicketSubject,
		Description: req.TicketDescription,
		Status:      req.TicketStatus,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTicketResponse(ticket)})
}

// Delete handles DELETE /api/support_tickets/:id.
func (h *SupportTicketsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.tickets.DeleteTicket(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
