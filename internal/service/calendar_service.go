package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// CalendarService manages worker calendar events.
type CalendarService struct {
	events repository.CalendarRepository
}

// CalendarEventInput carries event fields. EventDate is YYYY-MM-DD and
// EventTime is HH:MM.
type CalendarEventInput struct {
	WorkerID    *int64
	Title       string
	EventDate   string
	EventTime   *string
	Description *string
}

// CalendarQuery describes list filters.
type CalendarQuery struct {
	WorkerID  *int64
	StartDate string
	EndDate   string
}

// NewCalendarService constructs the service.
func NewCalendarService(events repository.CalendarRepository) *CalendarService {
	return &CalendarService{events: events}
}

// CreateEvent adds a calendar event.
func (s *CalendarService) CreateEvent(ctx context.Context, input CalendarEventInput) (*domain.CalendarEvent, error) {
	if err := required(map[string]bool{
		"worker_id":   input.WorkerID != nil,
		"event_title": !blank(input.Title),
		"event_date":  !blank(input.EventDate),
	}); err != nil {
		return nil, err
	}
	date, err := ParseDate("event_date", input.EventDate)
	if err != nil {
		return nil, err
	}
	event := &domain.CalendarEvent{
		WorkerID:    *input.WorkerID,
		Title:       strings.TrimSpace(input.Title),
		EventDate:   date,
		Description: input.Description,
	}
	if input.EventTime != nil && !blank(*input.EventTime) {
		t, err := time.Parse("15:04", strings.TrimSpace(*input.EventTime))
		if err != nil {
			return nil, apperrors.NewValidationError("invalid time, expected HH:MM", map[string]any{"field": "event_time"})
		}
		formatted := t.Format("15:04")
		event.EventTime = &formatted
	}
	if err := s.events.Create(ctx, event); err != nil {
		return nil, storeError("calendar event", err)
	}
	return event, nil
}

// ListEvents returns events ordered by date and time.
func (s *CalendarService) ListEvents(ctx context.Context, q CalendarQuery) ([]domain.CalendarEvent, error) {
	from, err := ParseOptionalDate("start_date", q.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := ParseOptionalDate("end_date", q.EndDate)
	if err != nil {
		return nil, err
	}
	events, err := s.events.List(ctx, repository.CalendarFilter{WorkerID: q.WorkerID, StartDate: from, EndDate: to})
	if err != nil {
		return nil, storeError("calendar event", err)
	}
	if events == nil {
		events = []domain.CalendarEvent{}
	}
	return events, nil
}
