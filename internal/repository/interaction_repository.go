package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// InteractionFilter captures interaction search parameters.
type InteractionFilter struct {
	InteractionType *string
	CustomerID      *int64
	WorkerID        *int64
	Page            Page
}

// InteractionRepository encapsulates interaction persistence.
type InteractionRepository interface {
	Create(ctx context.Context, interaction *domain.Interaction) error
	Update(ctx context.Context, interaction *domain.Interaction) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Interaction, error)
	List(ctx context.Context, filter InteractionFilter) ([]domain.Interaction, int, error)
}

const interactionColumns = `id, customer_id, worker_id, interaction_type, interaction_date, interaction_notes,
               communication_summary, created_at, updated_at`

type interactionRepository struct {
	pool *pgxpool.Pool
}

// NewInteractionRepository instantiates the repository.
func NewInteractionRepository(pool *pgxpool.Pool) InteractionRepository {
	return &interactionRepository{pool: pool}
}

func (r *interactionRepository) Create(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        INSERT INTO interactions (customer_id, worker_id, interaction_type, interaction_date, interaction_notes, communication_summary)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		interaction.CustomerID,
		interaction.WorkerID,
		interaction.InteractionType,
		interaction.InteractionDate,
		interaction.InteractionNotes,
		interaction.CommunicationSummary,
	).Scan(&interaction.ID, &interaction.CreatedAt, &interaction.UpdatedAt)
	return mapPostgresError(err)
}

func (r *interactionRepository) Update(ctx context.Context, interaction *domain.Interaction) error {
	const query = `
        UPDATE interactions SET customer_id=$1, worker_id=$2, interaction_type=$3, interaction_date=$4,
            interaction_notes=$5, communication_summary=$6, updated_at=NOW()
        WHERE id=$7`
	return execAffectingOne(ctx, r.pool, query,
		interaction.CustomerID,
		interaction.WorkerID,
		interaction.InteractionType,
		interaction.InteractionDate,
		interaction.InteractionNotes,
		interaction.CommunicationSummary,
		interaction.ID,
	)
}

func (r *interactionRepository) Delete(ctx context.Context, id int64) error {
	return execAffectingOne(ctx, r.pool, `DELETE FROM interactions WHERE id=$1`, id)
}

func (r *interactionRepository) GetByID(ctx context.Context, id int64) (*domain.Interaction, error) {
	interaction, err := scanInteraction(r.pool.QueryRow(ctx, `SELECT `+interactionColumns+` FROM interactions WHERE id=$1`, id))
	if err != nil {
		return nil, mapPostgresError(err)
	}
	return interaction, nil
}

func (r *interactionRepository) List(ctx context.Context, filter InteractionFilter) ([]domain.Interaction, int, error) {
	var where whereBuilder
	if filter.InteractionType != nil {
		where.add("interaction_type=?", *filter.InteractionType)
	}
	if filter.CustomerID != nil {
		where.add("customer_id=?", *filter.CustomerID)
	}
	if filter.WorkerID != nil {
		where.add("worker_id=?", *filter.WorkerID)
	}

	total, err := count(ctx, r.pool, `SELECT COUNT(*) FROM interactions`+where.sql(), where.args...)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+interactionColumns+` FROM interactions`+where.sql()+` ORDER BY interaction_date DESC, id DESC`+filter.Page.clause(),
		where.args...)
	if err != nil {
		return nil, 0, mapPostgresError(err)
	}
	defer rows.Close()

	var result []domain.Interaction
	for rows.Next() {
		interaction, err := scanInteraction(rows)
		if err != nil {
			return nil, 0, mapPostgresError(err)
		}
		result = append(result, *interaction)
	}
	return result, total, mapPostgresError(rows.Err())
}

func scanInteraction(row pgx.Row) (*domain.Interaction, error) {
	var interaction domain.Interaction
	if err := row.Scan(
		&interaction.ID,
		&interaction.CustomerID,
		&interaction.WorkerID,
		&interaction.InteractionType,
		&interaction.InteractionDate,
		&interaction.InteractionNotes,
		&interaction.CommunicationSummary,
		&interaction.CreatedAt,
		&interaction.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &interaction, nil
}
