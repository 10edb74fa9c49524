package domain

import "time"

// Customer is a CRM contact that owns leads, interactions and tickets.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     string
	Phone     *string
	Company   *string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
