package service

import (
	"context"
	"strings"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// SalesLeadService manages sales leads and revenue totals.
type SalesLeadService struct {
	leads repository.SalesLeadRepository
}

// SalesLeadInput carries lead fields. Nil pointers leave a field unchanged on
// update.
type SalesLeadInput struct {
	CustomerID     *int64
	WorkerID       *int64
	LeadStatus     *string
	LeadSource     *string
	PotentialValue *float64
}

// SalesLeadQuery describes list filters.
type SalesLeadQuery struct {
	LeadStatus *string
	LeadSource *string
	MinValue   *float64
	MaxValue   *float64
	Pagination
}

// NewSalesLeadService constructs the service.
func NewSalesLeadService(leads repository.SalesLeadRepository) *SalesLeadService {
	return &SalesLeadService{leads: leads}
}

// CreateLead adds a sales lead.
func (s *SalesLeadService) CreateLead(ctx context.Context, input SalesLeadInput) (*domain.SalesLead, error) {
	if err := required(map[string]bool{
		"customer_id": input.CustomerID != nil,
		"lead_status": input.LeadStatus != nil && !blank(*input.LeadStatus),
	}); err != nil {
		return nil, err
	}
	if err := validatePotentialValue(input.PotentialValue); err != nil {
		return nil, err
	}
	lead := &domain.SalesLead{}
	applyLeadInput(lead, input)
	if err := s.leads.Create(ctx, lead); err != nil {
		return nil, storeError("sales lead", err)
	}
	return lead, nil
}

// GetLead fetches a lead.
func (s *SalesLeadService) GetLead(ctx context.Context, id int64) (*domain.SalesLead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("sales lead", err)
	}
	return lead, nil
}

// UpdateLead applies a partial update.
func (s *SalesLeadService) UpdateLead(ctx context.Context, id int64, input SalesLeadInput) (*domain.SalesLead, error) {
	lead, err := s.leads.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("sales lead", err)
	}
	if err := validatePotentialValue(input.PotentialValue); err != nil {
		return nil, err
	}
	applyLeadInput(lead, input)
	if blank(lead.LeadStatus) {
		return nil, apperrors.NewValidationError("lead_status cannot be empty", nil)
	}
	if err := s.leads.Update(ctx, lead); err != nil {
		return nil, storeError("sales lead", err)
	}
	return lead, nil
}

// DeleteLead removes a lead.
func (s *SalesLeadService) DeleteLead(ctx context.Context, id int64) error {
	return storeError("sales lead", s.leads.Delete(ctx, id))
}

// ListLeads returns one page of leads matching q. The value range applies only
// when both bounds are given.
func (s *SalesLeadService) ListLeads(ctx context.Context, q SalesLeadQuery) (PageResult[domain.SalesLead], error) {
	items, total, err := s.leads.List(ctx, repository.SalesLeadFilter{
		LeadStatus: q.LeadStatus,
		LeadSource: q.LeadSource,
		MinValue:   q.MinValue,
		MaxValue:   q.MaxValue,
		Page:       q.repoPage(),
	})
	if err != nil {
		return PageResult[domain.SalesLead]{}, storeError("sales lead", err)
	}
	return newPageResult(items, total, q.Pagination), nil
}

// Revenue sums potential_value over leads created between from and to. The
// to date is inclusive of the whole day.
func (s *SalesLeadService) Revenue(ctx context.Context, from, to *time.Time) (float64, error) {
	var until *time.Time
	if to != nil {
		end := to.AddDate(0, 0, 1).Add(-time.Nanosecond)
		until = &end
	}
	total, err := s.leads.SumPotentialValue(ctx, from, until)
	if err != nil {
		return 0, storeError("sales lead", err)
	}
	return total, nil
}

func validatePotentialValue(v *float64) error {
	if v != nil && *v < 0 {
		return apperrors.NewValidationError("potential_value cannot be negative", map[string]any{"field": "potential_value"})
	}
	return nil
}

func applyLeadInput(l *domain.SalesLead, input SalesLeadInput) {
	if input.CustomerID != nil {
		l.CustomerID = *input.CustomerID
	}
	if input.WorkerID != nil {
		l.WorkerID = input.WorkerID
	}
	if input.LeadStatus != nil {
		l.LeadStatus = strings.TrimSpace(*input.LeadStatus)
	}
	if input.LeadSource != nil {
		l.LeadSource = input.LeadSource
	}
	if input.PotentialValue != nil {
		l.PotentialValue = input.PotentialValue
	}
}
