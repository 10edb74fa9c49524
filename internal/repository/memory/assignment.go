package memory

import (
	"context"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type assignmentStore struct{ s *Store }

// WithinTx buffers SetAssignee writes and applies them only when fn succeeds.
func (a *assignmentStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.AssignmentTx) error) error {
	tx := &assignmentTx{s: a.s, pending: map[int64]int64{}}
	defer tx.release()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	return tx.commit()
}

type assignmentTx struct {
	s       *Store
	locked  bool
	pending map[int64]int64
}

func (t *assignmentTx) LockDirectory(ctx context.Context) error {
	if t.locked {
		return nil
	}
	acquired := make(chan struct{})
	go func() {
		t.s.directory.Lock()
		close(acquired)
	}()
	select {
	case <-acquired:
		t.locked = true
		return nil
	case <-ctx.Done():
		// release the lock once the pending acquisition completes
		go func() {
			<-acquired
			t.s.directory.Unlock()
		}()
		return ctx.Err()
	}
}

func (t *assignmentTx) release() {
	if t.locked {
		t.locked = false
		t.s.directory.Unlock()
	}
}

func (t *assignmentTx) TicketForUpdate(_ context.Context, ticketID int64) (*domain.SupportTicket, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.failure(OpTicketForUpdate); err != nil {
		return nil, err
	}
	ticket, ok := t.s.tickets[ticketID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if workerID, staged := t.pending[ticketID]; staged {
		ticket.AssignedTo = &workerID
	}
	return &ticket, nil
}

func (t *assignmentTx) WorkerLoads(_ context.Context) ([]domain.WorkerLoad, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.s.workerLoads()
}

func (t *assignmentTx) SetAssignee(_ context.Context, ticketID, workerID int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.failure(OpSetAssignee); err != nil {
		return err
	}
	ticket, ok := t.s.tickets[ticketID]
	if !ok || ticket.AssignedTo != nil {
		return repository.ErrNotFound
	}
	if _, staged := t.pending[ticketID]; staged {
		return repository.ErrNotFound
	}
	if _, ok := t.s.workers[workerID]; !ok {
		return missingReference("support_tickets_assigned_to_fkey")
	}
	t.pending[ticketID] = workerID
	return nil
}

func (t *assignmentTx) commit() error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if err := t.s.failure(OpCommit); err != nil {
		return err
	}
	for ticketID := range t.pending {
		if ticket, ok := t.s.tickets[ticketID]; !ok || ticket.AssignedTo != nil {
			return repository.ErrNotFound
		}
	}
	for ticketID, workerID := range t.pending {
		ticket := t.s.tickets[ticketID]
		id := workerID
		ticket.AssignedTo = &id
		ticket.UpdatedAt = t.s.now()
		t.s.tickets[ticketID] = ticket
	}
	return nil
}
