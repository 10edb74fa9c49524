package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/domain"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func validWorkerInput(username string) WorkerCreateInput {
	return WorkerCreateInput{
		Username:  username,
		Password:  "s3cret-pass",
		FirstName: "Linus",
		LastName:  "T",
		Email:     username + "@example.com",
		Role:      domain.RoleSales,
	}
}

func TestCreateWorker(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	admin := h.addWorker(t, "root", domain.RoleAdmin)
	sales := h.addWorker(t, "sam", domain.RoleSales)

	worker, err := h.workers.CreateWorker(ctx, admin, validWorkerInput("linus"))
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", worker.PasswordHash)
	require.NoError(t, auth.ComparePassword(worker.PasswordHash, "s3cret-pass"))

	_, err = h.workers.CreateWorker(ctx, sales, validWorkerInput("other"))
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = h.workers.CreateWorker(ctx, admin, validWorkerInput("linus"))
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Equal(t, "username", apperrors.ToDomainError(err).Details["field"])

	dupEmail := validWorkerInput("linus2")
	dupEmail.Email = "linus@example.com"
	_, err = h.workers.CreateWorker(ctx, admin, dupEmail)
	require.True(t, apperrors.IsCode(err, apperrors.CodeConflict))
	assert.Equal(t, "email", apperrors.ToDomainError(err).Details["field"])

	badRole := validWorkerInput("x")
	badRole.Role = "root"
	_, err = h.workers.CreateWorker(ctx, admin, badRole)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))

	_, err = h.workers.CreateWorker(ctx, admin, WorkerCreateInput{Username: "y"})
	require.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	assert.Contains(t, apperrors.ToDomainError(err).Details["fields"], "password")
}

func TestUpdateWorkerRolePolicy(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	admin := h.addWorker(t, "root", domain.RoleAdmin)
	sales := h.addWorker(t, "sam", domain.RoleSales)

	updated, err := h.workers.UpdateWorker(ctx, sales, sales.ID, WorkerUpdateInput{FirstName: ptr("Samuel")})
	require.NoError(t, err)
	assert.Equal(t, "Samuel", updated.FirstName)

	_, err = h.workers.UpdateWorker(ctx, sales, sales.ID, WorkerUpdateInput{Role: ptr(domain.RoleAdmin)})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	_, err = h.workers.UpdateWorker(ctx, sales, admin.ID, WorkerUpdateInput{FirstName: ptr("x")})
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))

	updated, err = h.workers.UpdateWorker(ctx, admin, sales.ID, WorkerUpdateInput{Role: ptr(domain.RoleManager)})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, updated.Role)
}

func TestSetPasswordAndVerify(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	admin := h.addWorker(t, "root", domain.RoleAdmin)
	sales := h.addWorker(t, "sam", domain.RoleSales)

	require.NoError(t, h.workers.SetPassword(ctx, sales, sales.ID, "new-password"))
	w, err := h.workers.VerifyCredentials(ctx, "sam", "new-password")
	require.NoError(t, err)
	assert.Equal(t, sales.ID, w.ID)

	_, err = h.workers.VerifyCredentials(ctx, "sam", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
	_, err = h.workers.VerifyCredentials(ctx, "nobody", "wrong")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))

	err = h.workers.SetPassword(ctx, sales, admin.ID, "hijack-attempt")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeForbidden))
	require.NoError(t, h.workers.SetPassword(ctx, admin, sales.ID, "reset-by-admin"))
}

func TestDeleteWorkerKeepsTickets(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	admin := h.addWorker(t, "root", domain.RoleAdmin)
	customer := h.addCustomer(t)
	agent := h.addWorker(t, "agent", domain.RoleSupport)
	h.addAssignedTickets(t, customer, agent, 1)

	assert.True(t, apperrors.IsCode(h.workers.DeleteWorker(ctx, admin, admin.ID), apperrors.CodeValidation))
	require.NoError(t, h.workers.DeleteWorker(ctx, admin, agent.ID))

	page, err := h.tickets.ListTickets(ctx, TicketQuery{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Nil(t, page.Items[0].AssignedTo)
}

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	bootstrap := config.BootstrapConfig{AdminUsername: "admin", AdminEmail: "admin@example.com", AdminPassword: "admin_password"}

	first, created, err := h.workers.SeedAdmin(ctx, bootstrap)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, domain.RoleAdmin, first.Role)

	second, created, err := h.workers.SeedAdmin(ctx, bootstrap)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
}

func TestSeedAdminSkipsTakenUsername(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	ops := &domain.Worker{Username: "admin", FirstName: "Ops", LastName: "Team", Email: "ops@example.com", Role: domain.RoleManager, PasswordHash: "x"}
	require.NoError(t, h.store.Workers().Create(ctx, ops))

	bootstrap := config.BootstrapConfig{AdminUsername: "admin", AdminEmail: "admin@example.com", AdminPassword: "admin_password"}
	worker, created, err := h.workers.SeedAdmin(ctx, bootstrap)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, ops.ID, worker.ID)

	workers, err := h.workers.ListWorkers(ctx)
	require.NoError(t, err)
	assert.Len(t, workers, 1)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, true)
	admin := h.addWorker(t, "root", domain.RoleAdmin)
	_, err := h.workers.CreateWorker(ctx, admin, validWorkerInput("linus"))
	require.NoError(t, err)

	tokens := auth.NewTokenManager("secret", 10)
	svc := NewAuthService(h.workers, tokens)

	worker, token, err := svc.Login(ctx, "linus", "s3cret-pass")
	require.NoError(t, err)
	claims, err := tokens.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, worker.ID, claims.WorkerID)

	_, _, err = svc.Login(ctx, "linus", "")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeValidation))
	_, _, err = svc.Login(ctx, "linus", "nope")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
}
