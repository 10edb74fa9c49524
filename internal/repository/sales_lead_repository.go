package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// SalesLeadFilter captures lead search parameters.
type SalesLeadFilter struct {
	LeadStatus *string
	LeadSource *string
	MinValue   *float64
	MaxValue   *float64
	Page       Page
}

// SalesLeadRepository encapsulates sales lead persistence.
type SalesLeadRepository interface {
	Create(ctx context.Context, lead *domain.SalesLead) error
	Update(ctx context.Context, lead *domain.SalesLead) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.SalesLead, error)
	List(ctx context.Context, filter SalesLeadFilter) ([]domain.SalesLead, int, error)
	// SumPotentialValue totals potential_value of leads created in [from, to].
	SumPotentialValue(ctx context.Context, from, to *time.Time) (float64, error)
}

const salesLeadColumns = `id, customer_id, worker_id, lead_status, lead_source, potential_value::float8, created_at, updated_at`

type salesLeadRepository struct {
	pool *pgxpool.Pool
}

// NewSalesLeadRepository instantiates the repository.
func NewSalesLeadRepository(pool *pgxpool.Pool) SalesLeadRepository {
	return &salesLeadRepository{pool: pool}
}

func (r *salesLeadRepository) Create(ctx context.Context, lead *domain.SalesLead) error {
	const query = `
        INSERT INTO sales_leads (customer_id, worker_id, lead_status, lead_source, potential_value)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		lead.CustomerID,
		lead.WorkerID,
		lead.LeadStatus,
		lead.LeadSource,
		lead.PotentialValue,
	).Scan(&lead.ID, &lead.CreatedAt, &lead.UpdatedAt)
	return mapPostgresError(err)
}

func (r *salesLeadRepository) Update(ctx context.Context, lead *domain.SalesLead) error {
	const query = `
        UPDATE sales_leads SET customer_id=$1, worker_id=$2, lead_status=$3, lead_source=$4, potential_value=$5, updated_at=NOW()
        WHERE id=$6`
	return execAffectingOne(ctx, r.pool, query,
		lead.CustomerID,
		lead.WorkerID,
		lead.LeadStatus,
		lead.LeadSource,
		lead.PotentialValue,
		lead.ID,
	)
}

func (r *salesLeadRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM sales_leads WHERE id=$1`, id)
}

func (r *salesLeadRepository) GetByID(ctx context.Context, id int64) (*domain.SalesLead, error) {
	lead, err := scanSalesLead(r.pool.QueryRow(ctx, `SELECT `+salesLeadColumns+` FROM sales_leads WHERE id=$1`, id))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return lead, nil
}

func (r *salesLeadRepository) List(ctx context.Context, filter SalesLeadFilter) ([]domain.SalesLead, int, error) {
	var where whereBuilder
	if filter.LeadStatus != nil {
		where.add("lead_status=?", *filter.LeadStatus)
	}
	if filter.LeadSource != nil {
		where.add("lead_source=?", *filter.LeadSource)
	}
	if filter.MinValue != nil && filter.MaxValue != nil {
		where.add("potential_value BETWEEN ? AND ?", *filter.MinValue, *filter.MaxValue)
	}

	total, err := count(ctx, r.pool, `SELECT COUNT(*) FROM sales_leads`+where.sql(), where.args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+salesLeadColumns+` FROM sales_leads`+where.sql()+` ORDER BY id ASC`+filter.Page.clause(),
		where.args...)
	if err != nil {
		return nil, 0, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.SalesLead
	for rows.Next() {
		lead, err := scanSalesLead(rows)
		if err != nil {
			return nil, 0, mapPostgresError(err)
		}
		result = append(result, *lead)
	}
	return result, total, mapPostgresError(rows.Err())
}

func (r *salesLeadRepository) SumPotentialValue(ctx context.Context, from, to *time.Time) (float64, error) {
	var where whereBuilder
	if from != nil {
		where.add("created_at >= ?", *from)
	}
	if to != nil {
		where.add("created_at <= ?", *to)
	}
	var total float64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(potential_value), 0)::float8 FROM sales_leads`+where.sql(),
		where.args...).Scan(&total)
	return total, mapPostgresError(err)
}

func scanSalesLead(row pgx.Row) (*domain.SalesLead, error) {
	var lead domain.SalesLead
	if err := row.Scan(
		&lead.ID,
		&lead.CustomerID,
		&lead.WorkerID,
		&lead.LeadStatus,
		&lead.LeadSource,
		&lead.PotentialValue,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
