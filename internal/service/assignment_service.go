package service

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

var (
	// ErrNoAvailableWorker is returned when the worker directory is empty.
	// The ticket stays persisted and unassigned.
	ErrNoAvailableWorker = apperrors.NewDomainError(apperrors.CodeNoAvailableWorker,
		"no available worker to assign the ticket", http.StatusConflict, nil)
	// ErrTicketAlreadyAssigned is returned by Assign for a ticket that has an assignee.
	ErrTicketAlreadyAssigned = apperrors.NewDomainError(apperrors.CodeConflict,
		"ticket already assigned", http.StatusConflict, nil)
)

// AssignmentService routes new tickets to the least-loaded worker.
type AssignmentService struct {
	store      repository.AssignmentStore
	workers    repository.WorkerRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	serialize  bool
}

// AssignmentDependencies bundles repositories.
type AssignmentDependencies struct {
	Store      repository.AssignmentStore
	WorkerRepo repository.WorkerRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	// Serialize takes the directory lock before counting loads.
	Serialize bool
}

// NewAssignmentService creates the service.
func NewAssignmentService(deps AssignmentDependencies) *AssignmentService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{
		store:      deps.Store,
		workers:    deps.WorkerRepo,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		serialize:  deps.Serialize,
	}
}

// SelectLeastLoaded returns the load with the smallest ticket count, breaking
// ties by the lowest worker id. ok is false when loads is empty.
func SelectLeastLoaded(loads []domain.WorkerLoad) (domain.WorkerLoad, bool) {
	if len(loads) == 0 {
		return domain.WorkerLoad{}, false
	}
	best := loads[0]
	for _, load := range loads[1:] {
		if load.TicketCount < best.TicketCount ||
			(load.TicketCount == best.TicketCount && load.WorkerID < best.WorkerID) {
			best = load
		}
	}
	return best, true
}

// Assign writes the least-loaded worker onto an unassigned ticket. Counting and
// writing share one transaction; any store failure rolls it back.
func (s *AssignmentService) Assign(ctx context.Context, ticketID int64) (*domain.Worker, error) {
	var chosen domain.WorkerLoad
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.AssignmentTx) error {
		if s.serialize {
			if err := tx.LockDirectory(ctx); err != nil {
				return err
			}
		}
		ticket, err := tx.TicketForUpdate(ctx, ticketID)
		if err != nil {
			return err
		}
		if ticket.AssignedTo != nil {
			return ErrTicketAlreadyAssigned
		}
		loads, err := tx.WorkerLoads(ctx)
		if err != nil {
			return err
		}
		pick, ok := SelectLeastLoaded(loads)
		if !ok {
			return ErrNoAvailableWorker
		}
		if err := tx.SetAssignee(ctx, ticketID, pick.WorkerID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrTicketAlreadyAssigned
			}
			return err
		}
		chosen = pick
		return nil
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrNoAvailableWorker):
		s.logger.Warn("no available worker", zap.Int64("ticket_id", ticketID))
		return nil, err
	case errors.Is(err, ErrTicketAlreadyAssigned):
		return nil, err
	case errors.Is(err, repository.ErrNotFound):
		return nil, apperrors.NewNotFound("support ticket", map[string]any{"ticket_id": ticketID})
	default:
		s.logger.Error("ticket assignment failed", zap.Int64("ticket_id", ticketID), zap.Error(err))
		return nil, apperrors.NewPersistenceError(err)
	}

	worker, err := s.workers.GetByID(ctx, chosen.WorkerID)
	if err != nil {
		s.logger.Warn("assigned worker lookup failed", zap.Int64("worker_id", chosen.WorkerID), zap.Error(err))
		worker = &domain.Worker{ID: chosen.WorkerID}
	}
	s.logger.Info("ticket assigned",
		zap.Int64("ticket_id", ticketID),
		zap.Int64("worker_id", worker.ID),
		zap.Int("ticket_count", chosen.TicketCount),
	)
	s.publishAssignmentEvent(ctx, ticketID, worker, chosen.TicketCount)
	return worker, nil
}

func (s *AssignmentService) publishAssignmentEvent(ctx context.Context, ticketID int64, worker *domain.Worker, count int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventTicketAssigned, ticketID, nil, events.TicketAssignedPayload{
		WorkerID:        worker.ID,
		WorkerFirstName: worker.FirstName,
		TicketCount:     count,
	}))
}
