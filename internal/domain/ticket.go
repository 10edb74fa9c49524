package domain

import "time"

// TicketStatus enumerates lifecycle states for support tickets.
type TicketStatus string

const (
	TicketStatusOpen      TicketStatus = "Open"
	TicketStatusInProcess TicketStatus = "In Process"
	TicketStatusClose     TicketStatus = "Close"
)

// Valid reports whether s is one of the fixed ticket statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusInProcess, TicketStatusClose:
		return true
	}
	return false
}

// TicketStatuses lists the accepted status values.
func TicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusInProcess, TicketStatusClose}
}

// SupportTicket is a customer support request.
type SupportTicket struct {
	ID          int64
	CustomerID  int64
	CreatedBy   *int64
	AssignedTo  *int64
	Subject     string
	Description string
	Status      TicketStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
