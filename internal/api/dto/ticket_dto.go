package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// TicketCreatedMessage is returned on every successful ticket creation. The
// chosen worker is never revealed.
const TicketCreatedMessage = "Support ticket created successfully and assigned!"

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	CustomerID        *int64               `json:"customer_id"`
	CreatedBy         *int64               `json:"created_by"`
	TicketSubject     string               `json:"ticket_subject"`
	TicketDescription string               `json:"ticket_description"`
	TicketStatus      *domain.TicketStatus `json:"ticket_status"`
}

// UpdateTicketRequest payload. Omitted fields are left unchanged; an explicit
// null assigned_to unassigns the ticket.
type UpdateTicketRequest struct {
	CustomerID        *int64               `json:"customer_id"`
	AssignedTo        NullableInt64        `json:"assigned_to"`
	TicketSubject     *string              `json:"ticket_subject"`
	TicketDescription *string              `json:"ticket_description"`
	TicketStatus      *domain.TicketStatus `json:"ticket_status"`
}

// TicketCreatedResponse is the body of a 201 ticket creation.
type TicketCreatedResponse struct {
	TicketID int64     `json:"ticket_id"`
	Message  string    `json:"message"`
	Warnings []Warning `json:"warnings,omitempty"`
}

// TicketResponse renders a support ticket.
type TicketResponse struct {
	ID                int64               `json:"id"`
	CustomerID        int64               `json:"customer_id"`
	CreatedBy         *int64              `json:"created_by"`
	AssignedTo        *int64              `json:"assigned_to"`
	TicketSubject     string              `json:"ticket_subject"`
	TicketDescription string              `json:"ticket_description"`
	TicketStatus      domain.TicketStatus `json:"ticket_status"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// NewTicketResponse maps a ticket to its response.
func NewTicketResponse(t *domain.SupportTicket) TicketResponse {
	return TicketResponse{
		ID:                t.ID,
		CustomerID:        t.CustomerID,
		CreatedBy:         t.CreatedBy,
		AssignedTo:        t.AssignedTo,
		TicketSubject:     t.Subject,
		TicketDescription: t.Description,
		TicketStatus:      t.Status,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.SupportTicket) []TicketResponse {
	resp := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		resp = append(resp, NewTicketResponse(&tickets[i]))
	}
	return resp
}
