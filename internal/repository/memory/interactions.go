package memory

import (
	"context"
	"sort"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type interactionRepo struct{ s *Store }

func (s *Store) interactionReferences(i *domain.Interaction) error {
	if _, ok := s.customers[i.CustomerID]; !ok {
		return missingReference("interactions_customer_id_fkey")
	}
	if !s.workerExists(i.WorkerID) {
		return missingReference("interactions_worker_id_fkey")
	}
	return nil
}

func (r *interactionRepo) Create(_ context.Context, i *domain.Interaction) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.interactionReferences(i); err != nil {
		return err
	}
	i.ID = s.id("interactions")
	i.CreatedAt = s.now()
	i.UpdatedAt = i.CreatedAt
	s.interactions[i.ID] = *i
	return nil
}

func (r *interactionRepo) Update(_ context.Context, i *domain.Interaction) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.interactions[i.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := s.interactionReferences(i); err != nil {
		return err
	}
	i.CreatedAt = existing.CreatedAt
	i.UpdatedAt = s.now()
	s.interactions[i.ID] = *i
	return nil
}

func (r *interactionRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.interactions[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.s.interactions, id)
	return nil
}

func (r *interactionRepo) GetByID(_ context.Context, id int64) (*domain.Interaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	i, ok := r.s.interactions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &i, nil
}

func (r *interactionRepo) List(_ context.Context, filter repository.InteractionFilter) ([]domain.Interaction, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matched []domain.Interaction
	for _, id := range sortedIDs(r.s.interactions) {
		i := r.s.interactions[id]
		if filter.InteractionType != nil && i.InteractionType != *filter.InteractionType {
			continue
		}
		if filter.CustomerID != nil && i.CustomerID != *filter.CustomerID {
			continue
		}
		if filter.WorkerID != nil && !sameID(i.WorkerID, *filter.WorkerID) {
			continue
		}
		matched = append(matched, i)
	}
	// newest first, like the SQL repository
	sort.SliceStable(matched, func(a, b int) bool {
		if !matched[a].InteractionDate.Equal(matched[b].InteractionDate) {
			return matched[a].InteractionDate.After(matched[b].InteractionDate)
		}
		return matched[a].ID > matched[b].ID
	})
	return paginate(matched, filter.Page), len(matched), nil
}
