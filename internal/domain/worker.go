package domain

import "time"

// Role enumerates worker roles.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSupport Role = "support"
	RoleSales   Role = "sales"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleSupport, RoleSales:
		return true
	}
	return false
}

// Worker models a staff account.
type Worker struct {
	ID           int64
	Username     string
	PasswordHash string
	FirstName    string
	LastName     string
	Email        string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the worker holds the admin role.
func (w *Worker) IsAdmin() bool {
	return w != nil && w.Role == RoleAdmin
}

// FullName joins first and last name.
func (w *Worker) FullName() string {
	if w.LastName == "" {
		return w.FirstName
	}
	return w.FirstName + " " + w.LastName
}

// WorkerLoad is the number of tickets assigned to a worker.
type WorkerLoad struct {
	WorkerID    int64
	TicketCount int
}
