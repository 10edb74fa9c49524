package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// TicketService coordinates support ticket workflows.
type TicketService struct {
	tickets    repository.TicketRepository
	workers    repository.WorkerRepository
	assignment *AssignmentService
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// TicketDependencies bundles repositories for ticket service.
type TicketDependencies struct {
	TicketRepo        repository.TicketRepository
	WorkerRepo        repository.WorkerRepository
	AssignmentService *AssignmentService
	Dispatcher        events.Dispatcher
	Logger            *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID  *int64
	CreatedBy   *int64
	Subject     string
	Description string
	Status      *domain.TicketStatus
}

// TicketUpdateInput carries optional ticket changes. Unassign clears the
// assignee and takes precedence over AssignedTo.
type TicketUpdateInput struct {
	CustomerID  *int64
	AssignedTo  *int64
	Unassign    bool
	Subject     *string
	Description *string
	Status      *domain.TicketStatus
}

// TicketQuery describes list filters.
type TicketQuery struct {
	Status     *string
	CustomerID *int64
	AssignedTo *int64
	Pagination
}

// Warning is a non-fatal condition reported alongside a successful result.
type Warning struct {
	Code    string
	Message string
}

// TicketCreation is the outcome of CreateTicket. Assignee is nil when no
// worker could be chosen, in which case Warnings explains why.
type TicketCreation struct {
	Ticket   *domain.SupportTicket
	Assignee *domain.Worker
	Warnings []Warning
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		workers:    deps.WorkerRepo,
		assignment: deps.AssignmentService,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// CreateTicket persists a ticket and synchronously assigns it. The ticket
// survives a failed assignment.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.Worker, input TicketCreateInput) (*TicketCreation, error) {
	if err := required(map[string]bool{
		"customer_id":    input.CustomerID != nil,
		"ticket_subject": !blank(input.Subject),
	}); err != nil {
		return nil, err
	}
	status := domain.TicketStatusOpen
	if input.Status != nil {
		status = *input.Status
	}
	if !status.Valid() {
		return nil, invalidStatus(status)
	}
	createdBy := input.CreatedBy
	if createdBy == nil && actor != nil {
		createdBy = &actor.ID
	}

	ticket := &domain.SupportTicket{
		CustomerID:  *input.CustomerID,
		CreatedBy:   createdBy,
		Subject:     strings.TrimSpace(input.Subject),
		Description: strings.TrimSpace(input.Description),
		Status:      status,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, storeError("support ticket", err)
	}
	s.publishEvent(ctx, events.NewEvent(events.EventTicketCreated, ticket.ID, createdBy, events.TicketCreatedPayload{
		CustomerID: ticket.CustomerID,
		Subject:    ticket.Subject,
		Status:     ticket.Status,
	}))

	result := &TicketCreation{Ticket: ticket}
	worker, err := s.assignment.Assign(ctx, ticket.ID)
	switch {
	case err == nil:
		result.Assignee = worker
		ticket.AssignedTo = &worker.ID
	case errors.Is(err, ErrNoAvailableWorker):
		result.Warnings = append(result.Warnings, Warning{
			Code:    apperrors.CodeNoAvailableWorker,
			Message: "ticket created but no worker is available to take it",
		})
	default:
		return nil, err
	}
	return result, nil
}

// CountAssignedTickets maps every worker id to its assigned ticket count.
func (s *TicketService) CountAssignedTickets(ctx context.Context) (map[int64]int, error) {
	loads, err := s.tickets.WorkerLoads(ctx)
	if err != nil {
		return nil, storeError("support ticket", err)
	}
	counts := make(map[int64]int, len(loads))
	for _, load := range loads {
		counts[load.WorkerID] = load.TicketCount
	}
	return counts, nil
}

// GetTicket fetches a ticket.
func (s *TicketService) GetTicket(ctx context.Context, id int64) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("support ticket", err)
	}
	return ticket, nil
}

// UpdateTicket applies a partial update.
func (s *TicketService) UpdateTicket(ctx context.Context, actor *domain.Worker, id int64, input TicketUpdateInput) (*domain.SupportTicket, error) {
	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("support ticket", err)
	}
	oldStatus := ticket.Status

	if input.CustomerID != nil {
		ticket.CustomerID = *input.CustomerID
	}
	if input.Subject != nil {
		if blank(*input.Subject) {
			return nil, apperrors.NewValidationError("ticket_subject cannot be empty", nil)
		}
		ticket.Subject = strings.TrimSpace(*input.Subject)
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		if !input.Status.Valid() {
			return nil, invalidStatus(*input.Status)
		}
		ticket.Status = *input.Status
	}
	if input.Unassign {
		ticket.AssignedTo = nil
	} else if input.AssignedTo != nil {
		if _, err := s.workers.GetByID(ctx, *input.AssignedTo); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperrors.NewValidationError("assigned worker does not exist", map[string]any{"field": "assigned_to"})
			}
			return nil, storeError("worker", err)
		}
		ticket.AssignedTo = input.AssignedTo
	}

	if err := s.tickets.Update(ctx, ticket); err != nil {
		return nil, storeError("support ticket", err)
	}
	if ticket.Status != oldStatus {
		var actorID *int64
		if actor != nil {
			actorID = &actor.ID
		}
		s.publishEvent(ctx, events.NewEvent(events.EventTicketStatusChanged, ticket.ID, actorID, events.TicketStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: ticket.Status,
		}))
	}
	return ticket, nil
}

// DeleteTicket removes a ticket.
func (s *TicketService) DeleteTicket(ctx context.Context, id int64) error {
	return storeError("support ticket", s.tickets.Delete(ctx, id))
}

// ListTickets returns one page of tickets matching q.
func (s *TicketService) ListTickets(ctx context.Context, q TicketQuery) (PageResult[domain.SupportTicket], error) {
	filter := repository.TicketFilter{
		CustomerID: q.CustomerID,
		AssignedTo: q.AssignedTo,
		Page:       q.repoPage(),
	}
	if q.Status != nil {
		status := domain.TicketStatus(*q.Status)
		if !status.Valid() {
			return PageResult[domain.SupportTicket]{}, invalidStatus(status)
		}
		filter.Status = &status
	}
	items, total, err := s.tickets.List(ctx, filter)
	if err != nil {
		return PageResult[domain.SupportTicket]{}, storeError("support ticket", err)
	}
	return newPageResult(items, total, q.Pagination), nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func invalidStatus(status domain.TicketStatus) error {
	return apperrors.NewValidationError("invalid ticket status", map[string]any{
		"ticket_status": status,
		"allowed":       domain.TicketStatuses(),
	})
}
