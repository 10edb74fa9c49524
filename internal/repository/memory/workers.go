package memory

import (
	"context"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
)

type workerRepo struct{ s *Store }

// uniqueness must be called with s.mu held.
func (r *workerRepo) uniqueness(w *domain.Worker) error {
	for id, existing := range r.s.workers {
		if id == w.ID {
			continue
		}
		if existing.Username == w.Username {
			return duplicate("workers_username_key")
		}
		if existing.Email == w.Email {
			return duplicate("workers_email_key")
		}
	}
	if !w.Role.Valid() {
		return checkViolation("workers_role_check")
	}
	return nil
}

func (r *workerRepo) Create(_ context.Context, w *domain.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w.ID = 0
	if err := r.uniqueness(w); err != nil {
		return err
	}
	w.ID = r.s.id("workers")
	w.CreatedAt = r.s.now()
	w.UpdatedAt = w.CreatedAt
	r.s.workers[w.ID] = *w
	return nil
}

func (r *workerRepo) Update(_ context.Context, w *domain.Worker) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.workers[w.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if err := r.uniqueness(w); err != nil {
		return err
	}
	w.CreatedAt = existing.CreatedAt
	w.UpdatedAt = r.s.now()
	r.s.workers[w.ID] = *w
	return nil
}

// Delete removes the worker, clears its references and drops its calendar.
func (r *workerRepo) Delete(_ context.Context, id int64) error {
	s := r.s
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.workers, id)
	for tid, t := range s.tickets {
		if sameID(t.AssignedTo, id) {
			t.AssignedTo = nil
		}
		if sameID(t.CreatedBy, id) {
			t.CreatedBy = nil
		}
		s.tickets[tid] = t
	}
	for lid, l := range s.leads {
		if sameID(l.WorkerID, id) {
			l.WorkerID = nil
			s.leads[lid] = l
		}
	}
	for iid, i := range s.interactions {
		if sameID(i.WorkerID, id) {
			i.WorkerID = nil
			s.interactions[iid] = i
		}
	}
	for aid, a := range s.analytics {
		if sameID(a.WorkerID, id) {
			a.WorkerID = nil
			s.analytics[aid] = a
		}
	}
	for eid, e := range s.events {
		if e.WorkerID == id {
			delete(s.events, eid)
		}
	}
	return nil
}

func (r *workerRepo) GetByID(_ context.Context, id int64) (*domain.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &w, nil
}

func (r *workerRepo) GetByUsername(_ context.Context, username string) (*domain.Worker, error) {
	return r.find(func(w domain.Worker) bool { return w.Username == username })
}

func (r *workerRepo) GetByEmail(_ context.Context, email string) (*domain.Worker, error) {
	return r.find(func(w domain.Worker) bool { return w.Email == email })
}

func (r *workerRepo) find(match func(domain.Worker) bool) (*domain.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range sortedIDs(r.s.workers) {
		if w := r.s.workers[id]; match(w) {
			return &w, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *workerRepo) List(_ context.Context) ([]domain.Worker, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result := make([]domain.Worker, 0, len(r.s.workers))
	for _, id := range sortedIDs(r.s.workers) {
		result = append(result, r.s.workers[id])
	}
	return result, nil
}
