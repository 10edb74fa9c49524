package memory

import (
	"context"
	"sort"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type analyticsRepo struct{ s *Store }

func (s *Store) analyticsReferences(a *domain.Analytics) error {
	if !s.customerExists(a.CustomerID) {
		return missingReference("analytics_customer_id_fkey")
	}
	if !s.workerExists(a.WorkerID) {
		return missingReference("analytics_worker_id_fkey")
	}
	switch a.MetricValue {
	case domain.MetricActive, domain.MetricDeactivated, domain.MetricInProcess:
		return nil
	}
	return checkViolation("analytics_metric_value_check")
}

func (r *analyticsRepo) Create(_ context.Context, a *domain.Analytics) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.analyticsReferences(a); err != nil {
		return err
	}
	a.ID = s.id("analytics")
	a.CreatedAt = s.now()
	a.UpdatedAt = a.CreatedAt
	s.analytics[a.ID] = *a
	return nil
}

func (r *analyticsRepo) Update(_ context.Context, a *domain.Analytics) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.analytics[a.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.analyticsReferences(a); err != nil {
		return err
	}
	a.CreatedAt = existing.CreatedAt
	a.UpdatedAt = s.now()
	s.analytics[a.ID] = *a
	return nil
}

func (r *analyticsRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.analytics[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.analytics, id)
	return nil
}

func (r *analyticsRepo) GetByID(_ context.Context, id int64) (*domain.Analytics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.analytics[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &a, nil
}

func (r *analyticsRepo) List(_ context.Context, filter repository.AnalyticsFilter) ([]domain.Analytics, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []domain.Analytics
	for _, id := range sortedIDs(r.s.analytics) {
		a := r.s.analytics[id]
		if filter.MetricValue != nil && a.MetricValue != *filter.MetricValue {
			continue
		}
		if filter.CustomerID != nil && !sameID(a.CustomerID, *filter.CustomerID) {
			continue
		}
		if filter.WorkerID != nil && !sameID(a.WorkerID, *filter.WorkerID) {
			continue
		}
		if filter.StartDate != nil && a.PeriodStartDate.Before(*filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && a.PeriodEndDate.After(*filter.EndDate) {
			continue
		}
		matched = append(matched, a)
	}
	return paginate(matched, filter.Page), len(matched), nil
}

type reportKey struct {
	customer int64
	worker   int64
	hasCust  bool
	hasWork  bool
	metric   domain.MetricValue
}

func (r *analyticsRepo) Report(_ context.Context, from, to *time.Time) ([]domain.AnalyticsReportRow, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	counts := map[reportKey]*domain.AnalyticsReportRow{}
	var order []reportKey
	for _, id := range sortedIDs(r.s.analytics) {
		a := r.s.analytics[id]
		if from != nil && a.PeriodStartDate.Before(*from) {
			continue
		}
		if to != nil && a.PeriodEndDate.After(*to) {
			continue
		}
		key := reportKey{metric: a.MetricValue}
		if a.CustomerID != nil {
			key.customer, key.hasCust = *a.CustomerID, true
		}
		if a.WorkerID != nil {
			key.worker, key.hasWork = *a.WorkerID, true
		}
		row, ok := counts[key]
		if !ok {
			row = &domain.AnalyticsReportRow{CustomerID: a.CustomerID, WorkerID: a.WorkerID, MetricValue: a.MetricValue}
			counts[key] = row
			order = append(order, key)
		}
		row.Count++
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if a.hasCust != b.hasCust {
			return a.hasCust
		}
		if a.customer != b.customer {
			return a.customer < b.customer
		}
		if a.hasWork != b.hasWork {
			return a.hasWork
		}
		if a.worker != b.worker {
			return a.worker < b.worker
		}
		return a.metric < b.metric
	})
	result := make([]domain.AnalyticsReportRow, 0, len(order))
	for _, key := range order {
		result = append(result, *counts[key])
	}
	return result, nil
}

func (r *analyticsRepo) StartingBetween(_ context.Context, from, to time.Time) ([]domain.Analytics, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.Analytics
	for _, id := range sortedIDs(r.s.analytics) {
		a := r.s.analytics[id]
		if !a.PeriodStartDate.Before(from) && a.PeriodStartDate.Before(to) {
			result = append(result, a)
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].PeriodStartDate.Before(result[j].PeriodStartDate)
	})
	return result, nil
}
