package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CalendarFilter captures calendar search parameters. Date bounds are inclusive.
type CalendarFilter struct {
	WorkerID  *int64
	StartDate *time.Time
	EndDate   *time.Time
}

// CalendarRepository encapsulates calendar event persistence.
type CalendarRepository interface {
	Create(ctx context.Context, event *domain.CalendarEvent) error
	List(ctx context.Context, filter CalendarFilter) ([]domain.CalendarEvent, error)
}

type calendarRepository struct {
	pool *pgxpool.Pool
}

// NewCalendarRepository instantiates the repository.
func NewCalendarRepository(pool *pgxpool.Pool) CalendarRepository {
	return &calendarRepository{pool: pool}
}

func (r *calendarRepository) Create(ctx context.Context, event *domain.CalendarEvent) error {
	const query = `
        INSERT INTO calendar_events (worker_id, event_title, event_date, event_time, description)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	err := r.pool.QueryRow(ctx, query,
		event.WorkerID,
		event.Title,
		event.EventDate,
		event.EventTime,
		event.Description,
	).Scan(&event.ID, &event.CreatedAt)
	return mapPostgresError(err)
}

func (r *calendarRepository) List(ctx context.Context, filter CalendarFilter) ([]domain.CalendarEvent, error) {
	var where whereBuilder
	if filter.WorkerID != nil {
		where.add("worker_id=?", *filter.WorkerID)
	}
	if filter.StartDate != nil {
		where.add("event_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where.add("event_date <= ?", *filter.EndDate)
	}

	rows, err := r.pool.Query(ctx, `
        SELECT id, worker_id, event_title, event_date, event_time, description, created_at
        FROM calendar_events`+where.sql()+`
        ORDER BY event_date, event_time NULLS FIRST, id`,
		where.args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.CalendarEvent
	for rows.Next() {
		event, err := scanCalendarEvent(rows)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		result = append(result, *event)
	}
	return result, mapPostgresError(rows.Err())
}

func scanCalendarEvent(row pgx.Row) (*domain.CalendarEvent, error) {
	var event domain.CalendarEvent
	if err := row.Scan(
		&event.ID,
		&event.WorkerID,
		&event.Title,
		&event.EventDate,
		&event.EventTime,
		&event.Description,
		&event.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}
