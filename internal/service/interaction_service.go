package service

import (
	"context"
	"strings"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// InteractionService manages customer interactions.
type InteractionService struct {
	interactions repository.InteractionRepository
}

// InteractionInput carries interaction fields. InteractionDate is YYYY-MM-DD.
type InteractionInput struct {
	CustomerID           *int64
	WorkerID             *int64
	InteractionType      *string
	InteractionDate      *string
	InteractionNotes     *string
	CommunicationSummary *string
}

// InteractionQuery describes list filters.
type InteractionQuery struct {
	InteractionType *string
	CustomerID      *int64
	WorkerID        *int64
	Pagination
}

// NewInteractionService constructs the service.
func NewInteractionService(interactions repository.InteractionRepository) *InteractionService {
	return &InteractionService{interactions: interactions}
}

// CreateInteraction records an interaction.
func (s *InteractionService) CreateInteraction(ctx context.Context, input InteractionInput) (*domain.Interaction, error) {
	if err := required(map[string]bool{
		"customer_id":      input.CustomerID != nil,
		"interaction_type": input.InteractionType != nil && !blank(*input.InteractionType),
		"interaction_date": input.InteractionDate != nil && !blank(*input.InteractionDate),
	}); err != nil {
		return nil, err
	}
	interaction := &domain.Interaction{}
	if err := applyInteractionInput(interaction, input); err != nil {
		return nil, err
	}
	if err := s.interactions.Create(ctx, interaction); err != nil {
		return nil, storeError("interaction", err)
	}
	return interaction, nil
}

// GetInteraction fetches an interaction.
func (s *InteractionService) GetInteraction(ctx context.Context, id int64) (*domain.Interaction, error) {
	interaction, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("interaction", err)
	}
	return interaction, nil
}

// UpdateInteraction applies a partial update.
func (s *InteractionService) UpdateInteraction(ctx context.Context, id int64, input InteractionInput) (*domain.Interaction, error) {
	interaction, err := s.interactions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("interaction", err)
	}
	if err := applyInteractionInput(interaction, input); err != nil {
		return nil, err
	}
	if blank(interaction.InteractionType) {
		return nil, apperrors.NewValidationError("interaction_type cannot be empty", nil)
	}
	if err := s.interactions.Update(ctx, interaction); err != nil {
		return nil, storeError("interaction", err)
	}
	return interaction, nil
}

// DeleteInteraction removes an interaction.
func (s *InteractionService) DeleteInteraction(ctx context.Context, id int64) error {
	return storeError("interaction", s.interactions.Delete(ctx, id))
}

// ListInteractions returns one page of interactions, newest first.
func (s *InteractionService) ListInteractions(ctx context.Context, q InteractionQuery) (PageResult[domain.Interaction], error) {
	items, total, err := s.interactions.List(ctx, repository.InteractionFilter{
		InteractionType: q.InteractionType,
		CustomerID:      q.CustomerID,
		WorkerID:        q.WorkerID,
		Page:            q.repoPage(),
	})
	if err != nil {
		return PageResult[domain.Interaction]{}, storeError("interaction", err)
	}
	return newPageResult(items, total, q.Pagination), nil
}

func applyInteractionInput(i *domain.Interaction, input InteractionInput) error {
	if input.InteractionDate != nil {
		date, err := ParseDate("interaction_date", *input.InteractionDate)
		if err != nil {
			return err
		}
		i.InteractionDate = date
	}
	if input.CustomerID != nil {
		i.CustomerID = *input.CustomerID
	}
	if input.WorkerID != nil {
		i.WorkerID = input.WorkerID
	}
	if input.InteractionType != nil {
		i.InteractionType = strings.TrimSpace(*input.InteractionType)
	}
	if input.InteractionNotes != nil {
		i.InteractionNotes = input.InteractionNotes
	}
	if input.CommunicationSummary != nil {
		i.CommunicationSummary = input.CommunicationSummary
	}
	return nil
}
