package memory

import (
	"context"
	"strings"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type customerRepo struct{ s *Store }

func (r *customerRepo) emailTaken(c *domain.Customer) bool {
	for id, existing := range r.s.customers {
		if id != c.ID && existing.Email == c.Email {
			return true
		}
	}
	return false
}

func (r *customerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = 0
	if r.emailTaken(c) {
		return duplicate("customers_email_key")
	}
	c.ID = r.s.id("customers")
	c.CreatedAt = r.s.now()
	c.UpdatedAt = c.CreatedAt
	r.s.customers[c.ID] = *c
	return nil
}

func (r *customerRepo) Update(_ context.Context, c *domain.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.customers[c.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if r.emailTaken(c) {
		return duplicate("customers_email_key")
	}
	c.CreatedAt = existing.CreatedAt
	c.UpdatedAt = r.s.now()
	r.s.customers[c.ID] = *c
	return nil
}

// Delete cascades to the customer's tickets, leads, interactions and analytics.
func (r *customerRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.customers, id)
	for tid, t := range s.tickets {
		if t.CustomerID == id {
			delete(s.tickets, tid)
		}
	}
	for lid, l := range s.leads {
		if l.CustomerID == id {
			delete(s.leads, lid)
		}
	}
	for iid, i := range s.interactions {
		if i.CustomerID == id {
			delete(s.interactions, iid)
		}
	}
	for aid, a := range s.analytics {
		if sameID(a.CustomerID, id) {
			delete(s.analytics, aid)
		}
	}
	return nil
}

func (r *customerRepo) GetByID(_ context.Context, id int64) (*domain.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *customerRepo) List(_ context.Context, filter repository.CustomerFilter) ([]domain.Customer, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var needle string
	if filter.Name != nil {
		needle = strings.ToLower(strings.TrimSpace(*filter.Name))
	}
	var matched []domain.Customer
	for _, id := range sortedIDs(r.s.customers) {
		c := r.s.customers[id]
		if needle != "" &&
			!strings.Contains(strings.ToLower(c.FirstName), needle) &&
			!strings.Contains(strings.ToLower(c.LastName), needle) {
			continue
		}
		matched = append(matched, c)
	}
	return paginate(matched, filter.Page), len(matched), nil
}
