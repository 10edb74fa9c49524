package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type ticketRepo struct{ s *Store }

// ticketReferences must be called with s.mu held.
func (s *Store) ticketReferences(t *domain.SupportTicket) error {
	if _, ok := s.customers[t.CustomerID]; !ok {
		return missingReference("support_tickets_customer_id_fkey")
	}
	if !s.workerExists(t.CreatedBy) {
		return missingReference("support_tickets_created_by_fkey")
	}
	if !s.workerExists(t.AssignedTo) {
		return missingReference("support_tickets_assigned_to_fkey")
	}
	if !t.Status.Valid() {
		return checkViolation("support_tickets_status_check")
	}
	return nil
}

func (r *ticketRepo) Create(_ context.Context, t *domain.SupportTicket) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpCreateTicket); err != nil {
		return err
	}
	if t.Status == "" {
		t.Status = domain.TicketStatusOpen
	}
	if err := s.ticketReferences(t); err != nil {
		return err
	}
	t.ID = s.id("support_tickets")
	t.CreatedAt = s.now()
	t.UpdatedAt = t.CreatedAt
	s.tickets[t.ID] = *t
	return nil
}

func (r *ticketRepo) Update(_ context.Context, t *domain.SupportTicket) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.tickets[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.ticketReferences(t); err != nil {
		return err
	}
	t.CreatedBy = existing.CreatedBy
	t.CreatedAt = existing.CreatedAt
	t.UpdatedAt = s.now()
	s.tickets[t.ID] = *t
	return nil
}

func (r *ticketRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.tickets[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.tickets, id)
	return nil
}

func (r *ticketRepo) GetByID(_ context.Context, id int64) (*domain.SupportTicket, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (r *ticketRepo) List(_ context.Context, filter repository.TicketFilter) ([]domain.SupportTicket, int, error) {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failure(OpListTickets); err != nil {
		return nil, 0, err
	}
	var matched []domain.SupportTicket
	for _, id := range sortedIDs(s.tickets) {
		t := s.tickets[id]
		if filter.Status != nil && t.Status != *filter.Status {
			continue
		}
		if filter.CustomerID != nil && t.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.AssignedTo != nil && !sameID(t.AssignedTo, *filter.AssignedTo) {
			continue
		}
		matched = append(matched, t)
	}
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *ticketRepo) WorkerLoads(_ context.Context) ([]domain.WorkerLoad, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.workerLoads()
}

// workerLoads must be called with s.mu held. The ordering matches the SQL
// query: ticket count ascending, then worker id ascending.
func (s *Store) workerLoads() ([]domain.WorkerLoad, error) {
	if err := s.failure(OpWorkerLoads); err != nil {
		return nil, err
	}
	counts := make(map[int64]int, len(s.workers))
	for id := range s.workers {
		counts[id] = 0
	}
	for _, t := range s.tickets {
		if t.AssignedTo != nil {
			if _, ok := counts[*t.AssignedTo]; ok {
				counts[*t.AssignedTo]++
			}
		}
	}
	loads := make([]domain.WorkerLoad, 0, len(counts))
	for id, n := range counts {
		loads = append(loads, domain.WorkerLoad{WorkerID: id, TicketCount: n})
	}
	sort.Slice(loads, func(i, j int) bool {
		if loads[i].TicketCount != loads[j].TicketCount {
			return loads[i].TicketCount < loads[j].TicketCount
		}
		return loads[i].WorkerID < loads[j].WorkerID
	})
	return loads, nil
}
