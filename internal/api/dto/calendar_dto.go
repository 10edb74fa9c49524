package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CalendarEventRequest payload for POST /api/calendar.
type CalendarEventRequest struct {
	WorkerID    *int64  `json:"worker_id"`
	EventTitle  string  `json:"event_title"`
	EventDate   string  `json:"event_date"`
	EventTime   *string `json:"event_time"`
	Description *string `json:"description"`
}

// CalendarEventResponse renders an event.
type CalendarEventResponse struct {
	ID          int64     `json:"id"`
	WorkerID    int64     `json:"worker_id"`
	EventTitle  string    `json:"event_title"`
	EventDate   string    `json:"event_date"`
	EventTime   *string   `json:"event_time"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewCalendarEventResponses(events []domain.CalendarEvent) []CalendarEventResponse {
	resp := make([]CalendarEventResponse, 0, len(events))
	for i := range events {
		resp = append(resp, NewCalendarEventResponse(&events[i]))
	}
	return resp
}

func NewCalendarEventResponse(e *domain.CalendarEvent) CalendarEventResponse {
	return CalendarEventResponse{
		ID:          e.ID,
		WorkerID:    e.WorkerID,
		EventTitle:  e.Title,
		EventDate:   formatDate(e.EventDate),
		EventTime:   e.EventTime,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
	}
}
