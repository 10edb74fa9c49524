package memory

import (
	"context"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type salesLeadRepo struct{ s *Store }

func (s *Store) leadReferences(l *domain.SalesLead) error {
	if _, ok := s.customers[l.CustomerID]; !ok {
		return missingReference("sales_leads_customer_id_fkey")
	}
	if !s.workerExists(l.WorkerID) {
		return missingReference("sales_leads_worker_id_fkey")
	}
	return nil
}

func (r *salesLeadRepo) Create(_ context.Context, l *domain.SalesLead) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.leadReferences(l); err != nil {
		return err
	}
	l.ID = s.id("sales_leads")
	l.CreatedAt = s.now()
	l.UpdatedAt = l.CreatedAt
	s.leads[l.ID] = *l
	return nil
}

func (r *salesLeadRepo) Update(_ context.Context, l *domain.SalesLead) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.leads[l.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.leadReferences(l); err != nil {
		return err
	}
	l.CreatedAt = existing.CreatedAt
	l.UpdatedAt = s.now()
	s.leads[l.ID] = *l
	return nil
}

func (r *salesLeadRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.leads[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.leads, id)
	return nil
}

func (r *salesLeadRepo) GetByID(_ context.Context, id int64) (*domain.SalesLead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *salesLeadRepo) List(_ context.Context, filter repository.SalesLeadFilter) ([]domain.SalesLead, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []domain.SalesLead
	for _, id := range sortedIDs(r.s.leads) {
		l := r.s.leads[id]
		if filter.LeadStatus != nil && l.LeadStatus != *filter.LeadStatus {
			continue
		}
		if filter.LeadSource != nil && (l.LeadSource == nil || *l.LeadSource != *filter.LeadSource) {
			continue
		}
		if filter.MinValue != nil && filter.MaxValue != nil {
			if l.PotentialValue == nil || *l.PotentialValue < *filter.MinValue || *l.PotentialValue > *filter.MaxValue {
				continue
			}
		}
		matched = append(matched, l)
	}
	return paginate(matched, filter.Page), len(matched), nil
}

func (r *salesLeadRepo) SumPotentialValue(_ context.Context, from, to *time.Time) (float64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var total float64
	for _, l := range r.s.leads {
		if l.PotentialValue != nil && inDateRange(l.CreatedAt, from, to) {
			total += *l.PotentialValue
		}
	}
	return total, nil
}
