package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// LoginRequest payload for POST /api/workers/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateWorkerRequest payload.
type CreateWorkerRequest struct {
	Username  string      `json:"username"`
	Password  string      `json:"password"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// UpdateWorkerRequest payload. Omitted fields are left unchanged.
type UpdateWorkerRequest struct {
	FirstName *string      `json:"first_name"`
	LastName  *string      `json:"last_name"`
	Email     *string      `json:"email"`
	Role      *domain.Role `json:"role"`
}

// PasswordChangeRequest payload for PUT /api/workers/password/:id. new_password
// is accepted as an alias of password.
type PasswordChangeRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"new_password"`
}

// Value returns the requested password.
func (r PasswordChangeRequest) Value() string {
	if r.Password != "" {
		return r.Password
	}
	return r.NewPassword
}

// WorkerResponse is the public view of a worker. The password hash is never
// rendered.
type WorkerResponse struct {
	ID        int64       `json:"id"`
	Username  string      `json:"username"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// NewWorkerResponse maps a worker to its response.
func NewWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		ID:        w.ID,
		Username:  w.Username,
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Email:     w.Email,
		Role:      w.Role,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

// NewWorkerResponses maps a slice of workers.
func NewWorkerResponses(workers []domain.Worker) []WorkerResponse {
	resp := make([]WorkerResponse, 0, len(workers))
	for i := range workers {
		resp = append(resp, NewWorkerResponse(&workers[i]))
	}
	return resp
}
