package domain

import "time"

// Interaction records a contact between a worker and a customer.
type Interaction struct {
	ID                   int64
	CustomerID           int64
	WorkerID             *int64
	InteractionType      string
	InteractionDate      time.Time
	InteractionNotes     *string
	CommunicationSummary *string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
