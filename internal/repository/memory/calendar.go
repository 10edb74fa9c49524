package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type calendarRepo struct{ s *Store }

func (r *calendarRepo) Create(_ context.Context, e *domain.CalendarEvent) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workers[e.WorkerID]; !ok {
		return missingReference("calendar_events_worker_id_fkey")
	}
	e.ID = s.id("calendar_events")
	e.CreatedAt = s.now()
	s.events[e.ID] = *e
	return nil
}

func (r *calendarRepo) List(_ context.Context, filter repository.CalendarFilter) ([]domain.CalendarEvent, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var result []domain.CalendarEvent
	for _, id := range sortedIDs(r.s.events) {
		e := r.s.events[id]
		if filter.WorkerID != nil && e.WorkerID != *filter.WorkerID {
			continue
		}
		if !inDateRange(e.EventDate, filter.StartDate, filter.EndDate) {
			continue
		}
		result = append(result, e)
	}
	sort.SliceStable(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.EventDate.Equal(b.EventDate) {
			return a.EventDate.Before(b.EventDate)
		}
		return eventTime(a) < eventTime(b)
	})
	return result, nil
}

func eventTime(e domain.CalendarEvent) string {
	if e.EventTime == nil {
		return ""
	}
	return *e.EventTime
}
