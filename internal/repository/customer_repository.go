package repository

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// CustomerFilter captures customer search parameters.
type CustomerFilter struct {
	Name *string
	Page Page
}

// CustomerRepository encapsulates customer persistence.
type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	Update(ctx context.Context, customer *domain.Customer) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
	List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, int, error)
}

const customerColumns = `id, first_name, last_name, email, phone, company, address, created_at, updated_at`

type customerRepository struct {
	pool *pgxpool.Pool
}

// NewCustomerRepository instantiates the repository.
func NewCustomerRepository(pool *pgxpool.Pool) CustomerRepository {
	return &customerRepository{pool: pool}
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	const query = `
        INSERT INTO customers (first_name, last_name, email, phone, company, address)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Company,
		customer.Address,
	).Scan(&customer.ID, &customer.CreatedAt, &customer.UpdatedAt)
	return mapPostgresError(err)
}

func (r *customerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	const query = `
        UPDATE customers SET first_name=$1, last_name=$2, email=$3, phone=$4, company=$5, address=$6, updated_at=NOW()
        WHERE id=$7`
	return execAffectingOne(ctx, r.pool, query,
		customer.FirstName,
		customer.LastName,
		customer.Email,
		customer.Phone,
		customer.Company,
		customer.Address,
		customer.ID,
	)
}

func (r *customerRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM customers WHERE id=$1`, id)
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*domain.Customer, error) {
	customer, err := scanCustomer(r.pool.QueryRow(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return customer, nil
}

func (r *customerRepository) List(ctx context.Context, filter CustomerFilter) ([]domain.Customer, int, error) {
	var where whereBuilder
	if filter.Name != nil && strings.TrimSpace(*filter.Name) != "" {
		pattern := containsPattern(strings.TrimSpace(*filter.Name))
		where.add(`(first_name ILIKE ? ESCAPE '\' OR last_name ILIKE ? ESCAPE '\')`, pattern, pattern)
	}

	total, err := count(ctx, r.pool, `SELECT COUNT(*) FROM customers`+where.sql(), where.args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, `SELECT `+customerColumns+` FROM customers`+where.sql()+` ORDER BY id ASC`+filter.Page.clause(), where.args...)
	if err != nil {
		return nil, 0, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.Customer
	for rows.Next() {
		customer, err := scanCustomer(rows)
		if err != nil {
			return nil, 0, mapPostgresError(err)
		}
		result = append(result, *customer)
	}
	return result, total, mapPostgresError(rows.Err())
}

func scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var customer domain.Customer
	if err := row.Scan(
		&customer.ID,
		&customer.FirstName,
		&customer.LastName,
		&customer.Email,
		&customer.Phone,
		&customer.Company,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &customer, nil
}
