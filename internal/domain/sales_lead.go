package domain

import "time"

// SalesLead is a potential deal with a customer.
type SalesLead struct {
	ID             int64
	CustomerID     int64
	WorkerID       *int64
	LeadStatus     string
	LeadSource     *string
	PotentialValue *float64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
