package auth

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository/memory"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("secret", 5)
	worker := &domain.Worker{ID: 7, Role: domain.RoleAdmin}

	token, err := tm.GenerateToken(worker)
	require.NoError(t, err)
	assert.Equal(t, int64(7), token.WorkerID)

	claims, err := tm.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.WorkerID)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "7", claims.Subject)
}

func TestTokenRejectsTamperingAndExpiry(t *testing.T) {
	tm := NewTokenManager("secret", 1)
	token, err := tm.GenerateToken(&domain.Worker{ID: 1, Role: domain.RoleSales})
	require.NoError(t, err)

	_, err = NewTokenManager("other", 1).ParseToken(token.Value)
	require.Error(t, err)

	tm.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tm.ParseToken(token.Value)
	require.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	hashed, err := HashPassword("correct horse", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hashed)
	require.NoError(t, ComparePassword(hashed, "correct horse"))
	require.Error(t, ComparePassword(hashed, "battery staple"))
}

func newTestApp(t *testing.T) (*fiber.App, *TokenManager, domain.Worker, domain.Worker) {
	t.Helper()
	store := memory.NewStore()
	admin := domain.Worker{Username: "admin", FirstName: "Ada", Email: "admin@example.com", Role: domain.RoleAdmin}
	sales := domain.Worker{Username: "sam", FirstName: "Sam", Email: "sam@example.com", Role: domain.RoleSales}
	require.NoError(t, store.Workers().Create(context.Background(), &admin))
	require.NoError(t, store.Workers().Create(context.Background(), &sales))

	tokens := NewTokenManager("secret", 5)
	mw := NewAuthMiddleware(tokens, store.Workers())

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			de := apperrors.ToDomainError(err)
			return c.Status(de.HTTPStatus).SendString(de.Code)
		},
	})
	app.Get("/me", mw.Handle, RequireAuthenticated(), func(c *fiber.Ctx) error {
		p, _ := PrincipalFromContext(c)
		return c.SendString(p.Worker.Username)
	})
	app.Get("/admin", mw.Handle, RequireAdmin(), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, tokens, admin, sales
}

func doRequest(t *testing.T, app *fiber.App, path, bearer string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestMiddlewareAuthenticates(t *testing.T) {
	app, tokens, admin, sales := newTestApp(t)

	status, body := doRequest(t, app, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperrors.CodeUnauthorized, body)

	status, _ = doRequest(t, app, "/me", "garbage")
	assert.Equal(t, http.StatusUnauthorized, status)

	salesToken, err := tokens.GenerateToken(&sales)
	require.NoError(t, err)
	status, body = doRequest(t, app, "/me", salesToken.Value)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "sam", body)

	status, body = doRequest(t, app, "/admin", salesToken.Value)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperrors.CodeForbidden, body)

	adminToken, err := tokens.GenerateToken(&admin)
	require.NoError(t, err)
	status, _ = doRequest(t, app, "/admin", adminToken.Value)
	assert.Equal(t, http.StatusOK, status)
}

func TestMiddlewareRejectsDeletedWorker(t *testing.T) {
	app, tokens, _, _ := newTestApp(t)
	ghost, err := tokens.GenerateToken(&domain.Worker{ID: 999, Role: domain.RoleAdmin})
	require.NoError(t, err)

	status, _ := doRequest(t, app, "/me", ghost.Value)
	assert.Equal(t, http.StatusUnauthorized, status)
}
