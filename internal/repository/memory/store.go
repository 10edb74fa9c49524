// Package memory provides process-local implementations of the repository
// interfaces. It backs unit tests and runs the service without a database.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

// Store holds every table in maps guarded by a single mutex.
type Store struct {
	mu sync.Mutex
	// directory plays the role of the assignment advisory lock.
	directory sync.Mutex

	nextID map[string]int64

	workers      map[int64]domain.Worker
	customers    map[int64]domain.Customer
	tickets      map[int64]domain.SupportTicket
	leads        map[int64]domain.SalesLead
	interactions map[int64]domain.Interaction
	analytics    map[int64]domain.Analytics
	events       map[int64]domain.CalendarEvent

	failures map[string]error
	now      func() time.Time
}

// Operation names accepted by FailOn.
const (
	OpWorkerLoads     = "worker_loads"
	OpTicketForUpdate = "ticket_for_update"
	OpSetAssignee     = "set_assignee"
	OpCommit          = "commit"
	OpCreateTicket    = "create_ticket"
	OpListTickets     = "list_tickets"
)

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		nextID:       map[string]int64{},
		workers:      map[int64]domain.Worker{},
		customers:    map[int64]domain.Customer{},
		tickets:      map[int64]domain.SupportTicket{},
		leads:        map[int64]domain.SalesLead{},
		interactions: map[int64]domain.Interaction{},
		analytics:    map[int64]domain.Analytics{},
		events:       map[int64]domain.CalendarEvent{},
		failures:     map[string]error{},
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// FailOn makes every later call of op return err. A nil err clears the failure.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

// failure must be called with s.mu held.
func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) id(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

func (s *Store) Workers() repository.WorkerRepository { return &workerRepo{s} }

func (s *Store) Customers() repository.CustomerRepository { return &customerRepo{s} }

func (s *Store) Tickets() repository.TicketRepository { return &ticketRepo{s} }

func (s *Store) SalesLeads() repository.SalesLeadRepository { return &salesLeadRepo{s} }

func (s *Store) Interactions() repository.InteractionRepository { return &interactionRepo{s} }

func (s *Store) Analytics() repository.AnalyticsRepository { return &analyticsRepo{s} }

func (s *Store) Calendar() repository.CalendarRepository { return &calendarRepo{s} }

func (s *Store) Assignments() repository.AssignmentStore { return &assignmentStore{s} }

// Repositories bundles every accessor.
func (s *Store) Repositories() repository.Repositories {
	return repository.Repositories{
		Workers:      s.Workers(),
		Customers:    s.Customers(),
		Tickets:      s.Tickets(),
		SalesLeads:   s.SalesLeads(),
		Interactions: s.Interactions(),
		Analytics:    s.Analytics(),
		Calendar:     s.Calendar(),
		Assignments:  s.Assignments(),
	}
}

// sortedIDs returns the keys of m in ascending order.
func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// paginate applies the same limit/offset defaults as the SQL repositories.
func paginate[T any](items []T, page repository.Page) []T {
	limit := page.Limit
	if limit <= 0 {
		limit = 10
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func duplicate(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrDuplicate, Constraint: constraint}
}

func missingReference(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrReferenceMissing, Constraint: constraint}
}

func checkViolation(constraint string) error {
	return &repository.ConstraintError{Kind: repository.ErrConstraint, Constraint: constraint}
}

// workerExists must be called with s.mu held. A nil id is always valid.
func (s *Store) workerExists(id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := s.workers[*id]
	return ok
}

func (s *Store) customerExists(id *int64) bool {
	if id == nil {
		return true
	}
	_, ok := s.customers[*id]
	return ok
}

func sameID(ptr *int64, id int64) bool {
	return ptr != nil && *ptr == id
}

func inDateRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
