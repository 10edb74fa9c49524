package domain

import "time"

// CalendarEvent is an entry in a worker's calendar.
type CalendarEvent struct {
	ID          int64
	WorkerID    int64
	Title       string
	EventDate   time.Time
	EventTime   *string
	Description *string
	CreatedAt   time.Time
}
