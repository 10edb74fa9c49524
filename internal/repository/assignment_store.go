package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// directoryLockKey identifies the advisory lock that serializes assignments.
const directoryLockKey int64 = 0x63726d_776f726b // "crm" "work"

// AssignmentTx exposes the reads and writes of one assignment transaction.
type AssignmentTx interface {
	// LockDirectory blocks until no other assignment transaction holds the
	// worker directory lock. The lock is released at commit or rollback.
	LockDirectory(ctx context.Context) error
	// TicketForUpdate loads the ticket and locks its row.
	TicketForUpdate(ctx context.Context, ticketID int64) (*domain.SupportTicket, error)
	WorkerLoads(ctx context.Context) ([]domain.WorkerLoad, error)
	// SetAssignee writes workerID onto a still-unassigned ticket.
	SetAssignee(ctx context.Context, ticketID, workerID int64) error
}

// AssignmentStore runs fn inside a single transaction. The transaction is
// committed when fn returns nil and rolled back otherwise.
type AssignmentStore interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx AssignmentTx) error) error
}

type assignmentStore struct {
	pool *pgxpool.Pool
}

// NewAssignmentStore builds the Postgres-backed assignment store.
func NewAssignmentStore(pool *pgxpool.Pool) AssignmentStore {
	return &assignmentStore{pool: pool}
}

func (s *assignmentStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx AssignmentTx) error) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return mapPostgresError(err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(ctx, &assignmentTx{tx: tx}); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit assignment: %w", mapPostgresError(err))
	}
	return nil
}

type assignmentTx struct {
	tx pgx.Tx
}

func (a *assignmentTx) LockDirectory(ctx context.Context) error {
	_, err := a.tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, directoryLockKey)
	return mapPostgresError(err)
}

func (a *assignmentTx) TicketForUpdate(ctx context.Context, ticketID int64) (*domain.SupportTicket, error) {
	return getTicket(ctx, a.tx, `SELECT `+ticketColumns+` FROM support_tickets WHERE id=$1 FOR UPDATE`, ticketID)
}

func (a *assignmentTx) WorkerLoads(ctx context.Context) ([]domain.WorkerLoad, error) {
	return workerLoads(ctx, a.tx)
}

func (a *assignmentTx) SetAssignee(ctx context.Context, ticketID, workerID int64) error {
	const query = `
        UPDATE support_tickets SET assigned_to=$1, updated_at=NOW()
        WHERE id=$2 AND assigned_to IS NULL`
	return execAffectingOne(ctx, a.tx, query, workerID, ticketID)
}
