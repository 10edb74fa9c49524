package service

import (
	"context"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AuthService coordinates login flows.
type AuthService struct {
	workers  *WorkerService
	tokenMgr *auth.TokenManager
}

// NewAuthService builds the service.
func NewAuthService(workers *WorkerService, tokens *auth.TokenManager) *AuthService {
	return &AuthService{workers: workers, tokenMgr: tokens}
}

// Login verifies credentials and issues an access token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.Worker, domain.Token, error) {
	if blank(username) || password == "" {
		return nil, domain.Token{}, apperrors.NewValidationError("username and password are required", nil)
	}
	worker, err := s.workers.VerifyCredentials(ctx, username, password)
	if err != nil {
		return nil, domain.Token{}, err
	}
	token, err := s.tokenMgr.GenerateToken(worker)
	if err != nil {
		return nil, domain.Token{}, apperrors.NewInternalError(err)
	}
	return worker, token, nil
}
