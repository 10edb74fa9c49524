package service

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

const (
	defaultPerPage = 10
	maxPerPage     = 100
	// maxPage keeps (page-1)*per_page well inside int on every platform.
	maxPage        = 1_000_000
	dateLayout     = "2006-01-02"
)

// Pagination is the page/per_page pair accepted by list operations.
type Pagination struct {
	Page    int
	PerPage int
}

// Normalize applies defaults and caps page and per_page.
func (p Pagination) Normalize() Pagination {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Page > maxPage {
		p.Page = maxPage
	}
	if p.PerPage < 1 {
		p.PerPage = defaultPerPage
	}
	if p.PerPage > maxPerPage {
		p.PerPage = maxPerPage
	}
	return p
}

func (p Pagination) repoPage() repository.Page {
	n := p.Normalize()
	return repository.Page{Limit: n.PerPage, Offset: (n.Page - 1) * n.PerPage}
}

// PageResult is one page of a listing with the unpaged total.
type PageResult[T any] struct {
	Items   []T
	Total   int
	Page    int
	PerPage int
}

func newPageResult[T any](items []T, total int, p Pagination) PageResult[T] {
	n := p.Normalize()
	if items == nil {
		items = []T{}
	}
	return PageResult[T]{Items: items, Total: total, Page: n.Page, PerPage: n.PerPage}
}

// ParseDate parses a YYYY-MM-DD value for field.
func ParseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", map[string]any{"field": field})
	}
	return t, nil
}

// ParseOptionalDate parses raw unless it is blank.
func ParseOptionalDate(field, raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func required(fields map[string]bool) error {
	var missing []string
	for name, present := range fields {
		if !present {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewValidationError("missing required fields", map[string]any{"fields": missing})
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// storeError converts a repository failure into a DomainError for resource.
func storeError(resource string, err error) error {
	if err == nil {
		return nil
	}
	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		return err
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NewNotFound(resource, nil)
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict(resource+" already exists", constraintDetails(err))
	case errors.Is(err, repository.ErrReferenceMissing):
		return apperrors.NewValidationError("referenced record does not exist", constraintDetails(err))
	case errors.Is(err, repository.ErrConstraint):
		return apperrors.NewValidationError("value rejected by constraint", constraintDetails(err))
	default:
		return apperrors.NewPersistenceError(err)
	}
}

// constraintDetails names the offending field from constraint names such as
// "workers_email_key" or "support_tickets_customer_id_fkey".
func constraintDetails(err error) map[string]any {
	name := repository.ConstraintName(err)
	if name == "" {
		return nil
	}
	details := map[string]any{"constraint": name}
	for _, field := range []string{"username", "email", "customer_id", "worker_id", "created_by", "assigned_to", "role", "status", "metric_value"} {
		if strings.Contains(name, "_"+field+"_") {
			details["field"] = field
			break
		}
	}
	return details
}
