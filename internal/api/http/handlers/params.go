package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/service"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid id", map[string]any{"id": c.Params("id")})
	}
	return id, nil
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

func queryString(c *fiber.Ctx, key string) *string {
	val := strings.TrimSpace(c.Query(key))
	if val == "" {
		return nil
	}
	return &val
}

func queryInt64(c *fiber.Ctx, key string) (*int64, error) {
	raw := queryString(c, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseInt(*raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid integer query parameter", map[string]any{"field": key})
	}
	return &v, nil
}

func queryFloat(c *fiber.Ctx, key string) (*float64, error) {
	raw := queryString(c, key)
	if raw == nil {
		return nil, nil
	}
	v, err := strconv.ParseFloat(*raw, 64)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid numeric query parameter", map[string]any{"field": key})
	}
	return &v, nil
}

// pagination reads page and per_page. Invalid values fall back to defaults.
func pagination(c *fiber.Ctx) service.Pagination {
	return service.Pagination{
		Page:    c.QueryInt("page", 0),
		PerPage: c.QueryInt("per_page", 0),
	}
}

func listResponse[T any, R any](c *fiber.Ctx, page service.PageResult[T], mapper func([]T) []R) error {
	return c.JSON(fiber.Map{
		"data": mapper(page.Items),
		"meta": dto.ListMeta{Total: page.Total, Page: page.Page, PerPage: page.PerPage},
	})
}

func actor(c *fiber.Ctx) (*domain.Worker, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.Worker, nil
}
