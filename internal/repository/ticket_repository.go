package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// TicketFilter captures ticket search parameters.
type TicketFilter struct {
	Status     *domain.TicketStatus
	CustomerID *int64
	AssignedTo *int64
	Page       Page
}

// TicketRepository encapsulates support ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	Update(ctx context.Context, ticket *domain.SupportTicket) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error)
	List(ctx context.Context, filter TicketFilter) ([]domain.SupportTicket, int, error)
	// WorkerLoads returns every worker with its assigned ticket count,
	// ordered by count then worker id.
	WorkerLoads(ctx context.Context) ([]domain.WorkerLoad, error)
}

const ticketColumns = `id, customer_id, created_by, assigned_to, ticket_subject, ticket_description,
               ticket_status, created_at, updated_at`

const workerLoadsQuery = `
        SELECT w.id, COUNT(t.id) AS ticket_count
        FROM workers w
        LEFT JOIN support_tickets t ON t.assigned_to = w.id
        GROUP BY w.id
        ORDER BY ticket_count ASC, w.id ASC`

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO support_tickets (customer_id, created_by, assigned_to, ticket_subject, ticket_description, ticket_status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.CustomerID,
		ticket.CreatedBy,
		ticket.AssignedTo,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return mapPostgresError(err)
}

func (r *ticketRepository) Update(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        UPDATE support_tickets SET customer_id=$1, assigned_to=$2, ticket_subject=$3, ticket_description=$4,
            ticket_status=$5, updated_at=NOW()
        WHERE id=$6`
	return execAffectingOne(ctx, r.pool, query,
		ticket.CustomerID,
		ticket.AssignedTo,
		ticket.Subject,
		ticket.Description,
		ticket.Status,
		ticket.ID,
	)
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM support_tickets WHERE id=$1`, id)
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	return getTicket(ctx, r.pool, `SELECT `+ticketColumns+` FROM support_tickets WHERE id=$1`, id)
}

func (r *ticketRepository) List(ctx context.Context, filter TicketFilter) ([]domain.SupportTicket, int, error) {
	var where whereBuilder
	if filter.Status != nil {
		where.add("ticket_status=?", *filter.Status)
	}
	if filter.CustomerID != nil {
		where.add("customer_id=?", *filter.CustomerID)
	}
	if filter.AssignedTo != nil {
		where.add("assigned_to=?", *filter.AssignedTo)
	}

	total, err := count(ctx, r.pool, `SELECT COUNT(*) FROM support_tickets`+where.sql(), where.args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+ticketColumns+` FROM support_tickets`+where.sql()+` ORDER BY id ASC`+filter.Page.clause(),
		where.args...)
	if err != nil {
		return nil, 0, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.SupportTicket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, mapPostgresError(err)
		}
		result = append(result, *ticket)
	}
	return result, total, mapPostgresError(rows.Err())
}

func (r *ticketRepository) WorkerLoads(ctx context.Context) ([]domain.WorkerLoad, error) {
	return workerLoads(ctx, r.pool)
}

func getTicket(ctx context.Context, q querier, query string, id int64) (*domain.SupportTicket, error) {
	ticket, err := scanTicket(q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return ticket, nil
}

func workerLoads(ctx context.Context, q querier) ([]domain.WorkerLoad, error) {
	rows, err := q.Query(ctx, workerLoadsQuery)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.WorkerLoad
	for rows.Next() {
		var load domain.WorkerLoad
		if err := rows.Scan(&load.WorkerID, &load.TicketCount); err != nil {
			return nil, mapPostgresError(err)
		}
		result = append(result, load)
	}
	return result, mapPostgresError(rows.Err())
}

func scanTicket(row pgx.Row) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	if err := row.Scan(
		&ticket.ID,
		&ticket.CustomerID,
		&ticket.CreatedBy,
		&ticket.AssignedTo,
		&ticket.Subject,
		&ticket.Description,
		&ticket.Status,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
