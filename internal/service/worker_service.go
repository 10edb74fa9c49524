package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// WorkerService manages the worker directory.
type WorkerService struct {
	workers    repository.WorkerRepository
	bcryptCost int
	logger     *zap.Logger
}

// WorkerCreateInput describes a new worker account.
type WorkerCreateInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Email     string
	Role      domain.Role
}

// WorkerUpdateInput carries optional profile changes.
type WorkerUpdateInput struct {
	FirstName *string
	LastName  *string
	Email     *string
	Role      *domain.Role
}

// NewWorkerService constructs the service.
func NewWorkerService(cfg config.Config, workers repository.WorkerRepository, logger *zap.Logger) *WorkerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{workers: workers, bcryptCost: cfg.Auth.BcryptCost, logger: logger}
}

func requireAdmin(actor *domain.Worker) error {
	if !actor.IsAdmin() {
		return apperrors.NewForbidden("admin role required")
	}
	return nil
}

// ListWorkers returns every worker ordered by id.
func (s *WorkerService) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	workers, err := s.workers.List(ctx)
	if err != nil {
		return nil, storeError("worker", err)
	}
	return workers, nil
}

// GetWorker fetches a worker.
func (s *WorkerService) GetWorker(ctx context.Context, id int64) (*domain.Worker, error) {
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("worker", err)
	}
	return worker, nil
}

// CreateWorker adds a worker account.
func (s *WorkerService) CreateWorker(ctx context.Context, actor *domain.Worker, input WorkerCreateInput) (*domain.Worker, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	worker, err := s.createWorker(ctx, input)
	if err != nil {
		return nil, err
	}
	s.logger.Info("worker created", zap.Int64("worker_id", worker.ID), zap.Int64("actor_id", actor.ID))
	return worker, nil
}

func (s *WorkerService) createWorker(ctx context.Context, input WorkerCreateInput) (*domain.Worker, error) {
	if err := required(map[string]bool{
		"username":   !blank(input.Username),
		"password":   input.Password != "",
		"first_name": !blank(input.FirstName),
		"last_name":  !blank(input.LastName),
		"email":      !blank(input.Email),
		"role":       input.Role != "",
	}); err != nil {
		return nil, err
	}
	if !input.Role.Valid() {
		return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": input.Role})
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	worker := &domain.Worker{
		Username:     strings.TrimSpace(input.Username),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        strings.TrimSpace(input.Email),
		Role:         input.Role,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, storeError("worker", err)
	}
	return worker, nil
}

// UpdateWorker changes profile fields. Workers may edit their own profile;
// only admins edit others or change roles.
func (s *WorkerService) UpdateWorker(ctx context.Context, actor *domain.Worker, id int64, input WorkerUpdateInput) (*domain.Worker, error) {
	if actor == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if actor.ID != id && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("admin role required")
	}
	if input.Role != nil && !actor.IsAdmin() {
		return nil, apperrors.NewForbidden("only admins can change roles")
	}
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("worker", err)
	}
	if input.FirstName != nil {
		worker.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		worker.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		worker.Email = strings.TrimSpace(*input.Email)
	}
	if input.Role != nil {
		if !input.Role.Valid() {
			return nil, apperrors.NewValidationError("invalid role", map[string]any{"role": *input.Role})
		}
		worker.Role = *input.Role
	}
	if blank(worker.FirstName) || blank(worker.LastName) || blank(worker.Email) {
		return nil, apperrors.NewValidationError("first_name, last_name and email cannot be empty", nil)
	}
	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, storeError("worker", err)
	}
	return worker, nil
}

// SetPassword stores a new bcrypt hash. Workers may only change their own
// password unless they are admins.
func (s *WorkerService) SetPassword(ctx context.Context, actor *domain.Worker, id int64, newPassword string) error {
	if actor == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	if actor.ID != id && !actor.IsAdmin() {
		return apperrors.NewForbidden("cannot change another worker's password")
	}
	if newPassword == "" {
		return apperrors.NewValidationError("missing required fields", map[string]any{"fields": []string{"new_password"}})
	}
	worker, err := s.workers.GetByID(ctx, id)
	if err != nil {
		return storeError("worker", err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	worker.PasswordHash = hash
	if err := s.workers.Update(ctx, worker); err != nil {
		return storeError("worker", err)
	}
	return nil
}

// DeleteWorker removes a worker. Tickets keep a NULL assignee.
func (s *WorkerService) DeleteWorker(ctx context.Context, actor *domain.Worker, id int64) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if actor.ID == id {
		return apperrors.NewValidationError("cannot delete yourself", map[string]any{"worker_id": id})
	}
	if err := s.workers.Delete(ctx, id); err != nil {
		return storeError("worker", err)
	}
	s.logger.Info("worker deleted", zap.Int64("worker_id", id), zap.Int64("actor_id", actor.ID))
	return nil
}

// VerifyCredentials returns the worker matching username and password.
func (s *WorkerService) VerifyCredentials(ctx context.Context, username, password string) (*domain.Worker, error) {
	worker, err := s.workers.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, storeError("worker", err)
	}
	if err := auth.ComparePassword(worker.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	return worker, nil
}

// SeedAdmin creates the bootstrap administrator unless a worker with its
// email or username already exists. created reports whether a worker was
// written.
func (s *WorkerService) SeedAdmin(ctx context.Context, bootstrap config.BootstrapConfig) (worker *domain.Worker, created bool, err error) {
	existing, err := s.workers.GetByEmail(ctx, bootstrap.AdminEmail)
	if errors.Is(err, repository.ErrNotFound) {
		existing, err = s.workers.GetByUsername(ctx, bootstrap.AdminUsername)
	}
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, storeError("worker", err)
	}
	worker, err = s.createWorker(ctx, WorkerCreateInput{
		Username:  bootstrap.AdminUsername,
		Password:  bootstrap.AdminPassword,
		FirstName: "Admin",
		LastName:  "User",
		Email:     bootstrap.AdminEmail,
		Role:      domain.RoleAdmin,
	})
	if err != nil {
		return nil, false, err
	}
	s.logger.Info("seeded admin worker", zap.Int64("worker_id", worker.ID), zap.String("username", worker.Username))
	return worker, true, nil
}
