package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// AnalyticsFilter captures analytics search parameters.
type AnalyticsFilter struct {
	MetricValue *domain.MetricValue
	CustomerID  *int64
	WorkerID    *int64
	StartDate   *time.Time
	EndDate     *time.Time
	Page        Page
}

// AnalyticsRepository encapsulates analytics persistence and reporting.
type AnalyticsRepository interface {
	Create(ctx context.Context, entry *domain.Analytics) error
	Update(ctx context.Context, entry *domain.Analytics) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Analytics, error)
	List(ctx context.Context, filter AnalyticsFilter) ([]domain.Analytics, int, error)
	// Report counts entries grouped by customer, worker and metric value.
	// Bounds apply to period_start_date and period_end_date respectively.
	Report(ctx context.Context, from, to *time.Time) ([]domain.AnalyticsReportRow, error)
	// StartingBetween lists entries whose period starts in [from, to).
	StartingBetween(ctx context.Context, from, to time.Time) ([]domain.Analytics, error)
}

const analyticsColumns = `id, customer_id, worker_id, metric_value, period_start_date, period_end_date, created_at, updated_at`

type analyticsRepository struct {
	pool *pgxpool.Pool
}

// NewAnalyticsRepository instantiates the repository.
func NewAnalyticsRepository(pool *pgxpool.Pool) AnalyticsRepository {
	return &analyticsRepository{pool: pool}
}

func (r *analyticsRepository) Create(ctx context.Context, entry *domain.Analytics) error {
	const query = `
        INSERT INTO analytics (customer_id, worker_id, metric_value, period_start_date, period_end_date)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		entry.CustomerID,
		entry.WorkerID,
		entry.MetricValue,
		entry.PeriodStartDate,
		entry.PeriodEndDate,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	return mapPostgresError(err)
}

func (r *analyticsRepository) Update(ctx context.Context, entry *domain.Analytics) error {
	const query = `
        UPDATE analytics SET customer_id=$1, worker_id=$2, metric_value=$3, period_start_date=$4,
            period_end_date=$5, updated_at=NOW()
        WHERE id=$6`
	return execAffectingOne(ctx, r.pool, query,
		entry.CustomerID,
		entry.WorkerID,
		entry.MetricValue,
		entry.PeriodStartDate,
		entry.PeriodEndDate,
		entry.ID,
	)
}

func (r *analyticsRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM analytics WHERE id=$1`, id)
}

func (r *analyticsRepository) GetByID(ctx context.Context, id int64) (*domain.Analytics, error) {
	entry, err := scanAnalytics(r.pool.QueryRow(ctx, `SELECT `+analyticsColumns+` FROM analytics WHERE id=$1`, id))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return entry, nil
}

func (r *analyticsRepository) List(ctx context.Context, filter AnalyticsFilter) ([]domain.Analytics, int, error) {
	var where whereBuilder
	if filter.MetricValue != nil {
		where.add("metric_value=?", *filter.MetricValue)
	}
	if filter.CustomerID != nil {
		where.add("customer_id=?", *filter.CustomerID)
	}
	if filter.WorkerID != nil {
		where.add("worker_id=?", *filter.WorkerID)
	}
	if filter.StartDate != nil {
		where.add("period_start_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		where.add("period_end_date <= ?", *filter.EndDate)
	}

	total, err := count(ctx, r.pool, `SELECT COUNT(*) FROM analytics`+where.sql(), where.args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+analyticsColumns+` FROM analytics`+where.sql()+` ORDER BY id ASC`+filter.Page.clause(),
		where.args...)
	if err != nil {
		return nil, 0, mapPostgresError(err)
	}
	result, err := collectAnalytics(rows)
	return result, total, err
}

func (r *analyticsRepository) Report(ctx context.Context, from, to *time.Time) ([]domain.AnalyticsReportRow, error) {
	var where whereBuilder
	if from != nil {
		where.add("period_start_date >= ?", *from)
	}
	if to != nil {
		where.add("period_end_date <= ?", *to)
	}
	rows, err := r.pool.Query(ctx, `
        SELECT customer_id, worker_id, metric_value, COUNT(*)
        FROM analytics`+where.sql()+`
        GROUP BY customer_id, worker_id, metric_value
        ORDER BY customer_id NULLS LAST, worker_id NULLS LAST, metric_value`,
		where.args...)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.AnalyticsReportRow
	for rows.Next() {
		var row domain.AnalyticsReportRow
		if err := rows.Scan(&row.CustomerID, &row.WorkerID, &row.MetricValue, &row.Count); err != nil {
			return nil, mapPostgresError(err)
		}
		result = append(result, row)
	}
	return result, mapPostgresError(rows.Err())
}

func (r *analyticsRepository) StartingBetween(ctx context.Context, from, to time.Time) ([]domain.Analytics, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+analyticsColumns+` FROM analytics WHERE period_start_date >= $1 AND period_start_date < $2 ORDER BY period_start_date, id`,
		from, to)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return collectAnalytics(rows)
}

func collectAnalytics(rows pgx.Rows) ([]domain.Analytics, error) {
	defer rows.Close()
	var result []domain.Analytics
	for rows.Next() {
		entry, err := scanAnalytics(rows)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		result = append(result, *entry)
	}
	return result, mapPostgresError(rows.Err())
}

func scanAnalytics(row pgx.Row) (*domain.Analytics, error) {
	var entry domain.Analytics
	if err := row.Scan(
		&entry.ID,
		&entry.CustomerID,
		&entry.WorkerID,
		&entry.MetricValue,
		&entry.PeriodStartDate,
		&entry.PeriodEndDate,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &entry, nil
}
