package repository

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles every store the services depend on.
type Repositories struct {
	Workers      WorkerRepository
	Customers    CustomerRepository
	Tickets      TicketRepository
	SalesLeads   SalesLeadRepository
	Interactions InteractionRepository
	Analytics    AnalyticsRepository
	Calendar     CalendarRepository
	Assignments  AssignmentStore
}

// NewRepositories builds the Postgres-backed stores on pool.
func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Workers:      NewWorkerRepository(pool),
		Customers:    NewCustomerRepository(pool),
		Tickets:      NewTicketRepository(pool),
		SalesLeads:   NewSalesLeadRepository(pool),
		Interactions: NewInteractionRepository(pool),
		Analytics:    NewAnalyticsRepository(pool),
		Calendar:     NewCalendarRepository(pool),
		Assignments:  NewAssignmentStore(pool),
	}
}
