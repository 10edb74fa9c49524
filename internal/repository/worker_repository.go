package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// WorkerRepository handles persistence for workers.
type WorkerRepository interface {
	Create(ctx context.Context, worker *domain.Worker) error
	Update(ctx context.Context, worker *domain.Worker) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Worker, error)
	GetByUsername(ctx context.Context, username string) (*domain.Worker, error)
	GetByEmail(ctx context.Context, email string) (*domain.Worker, error)
	List(ctx context.Context) ([]domain.Worker, error)
}

const workerColumns = `id, username, password_hash, first_name, last_name, email, role, created_at, updated_at`

type workerRepository struct {
	pool *pgxpool.Pool
}

// NewWorkerRepository instantiates the repository.
func NewWorkerRepository(pool *pgxpool.Pool) WorkerRepository {
	return &workerRepository{pool: pool}
}

func (r *workerRepository) Create(ctx context.Context, worker *domain.Worker) error {
	const query = `
        INSERT INTO workers (username, password_hash, first_name, last_name, email, role)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		worker.Username,
		worker.PasswordHash,
		worker.FirstName,
		worker.LastName,
		worker.Email,
		worker.Role,
	).Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
	return mapPostgresError(err)
}

func (r *workerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	const query = `
        UPDATE workers
        SET username=$1, password_hash=$2, first_name=$3, last_name=$4, email=$5, role=$6, updated_at=NOW()
        WHERE id=$7`

	return execAffectingOne(ctx, r.pool, query,
		worker.Username,
		worker.PasswordHash,
		worker.FirstName,
		worker.LastName,
		worker.Email,
		worker.Role,
		worker.ID,
	)
}

func (r *workerRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM workers WHERE id=$1`, id)
}

func (r *workerRepository) GetByID(ctx context.Context, id int64) (*domain.Worker, error) {
	return r.fetchSingle(ctx, `SELECT `+workerColumns+` FROM workers WHERE id=$1`, id)
}

func (r *workerRepository) GetByUsername(ctx context.Context, username string) (*domain.Worker, error) {
	return r.fetchSingle(ctx, `SELECT `+workerColumns+` FROM workers WHERE username=$1`, username)
}

func (r *workerRepository) GetByEmail(ctx context.Context, email string) (*domain.Worker, error) {
	return r.fetchSingle(ctx, `SELECT `+workerColumns+` FROM workers WHERE email=$1`, email)
}

func (r *workerRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Worker, error) {
	worker, err := scanWorker(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return worker, nil
}

func (r *workerRepository) List(ctx context.Context) ([]domain.Worker, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+workerColumns+` FROM workers ORDER BY id ASC`)
	if err != nil {
		return nil, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.Worker
	for rows.Next() {
		worker, err := scanWorker(rows)
		if err != nil {
			return nil, mapPostgresError(err)
		}
		result = append(result, *worker)
	}
	return result, mapPostgresError(rows.Err())
}

func scanWorker(row pgx.Row) (*domain.Worker, error) {
	var worker domain.Worker
	if err := row.Scan(
		&worker.ID,
		&worker.Username,
		&worker.PasswordHash,
		&worker.FirstName,
		&worker.LastName,
		&worker.Email,
		&worker.Role,
		&worker.CreatedAt,
		&worker.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &worker, nil
}
