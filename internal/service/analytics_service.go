package service

import (
	"context"
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
	"github.com/spec-kit/crm-service/internal/repository"
	apperrors "github.com/spec-kit/crm-service/pkg/util"
)

// AnalyticsService manages analytics entries and their reports.
type AnalyticsService struct {
	analytics repository.AnalyticsRepository
	now       func() time.Time
}

// AnalyticsInput carries analytics fields. Dates are YYYY-MM-DD.
type AnalyticsInput struct {
	CustomerID      *int64
	WorkerID        *int64
	MetricValue     *string
	PeriodStartDate *string
	PeriodEndDate   *string
}

// AnalyticsQuery describes list filters. Dates are YYYY-MM-DD.
type AnalyticsQuery struct {
	MetricValue *string
	CustomerID  *int64
	WorkerID    *int64
	StartDate   string
	EndDate     string
	Pagination
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(analytics repository.AnalyticsRepository) *AnalyticsService {
	return &AnalyticsService{analytics: analytics, now: time.Now}
}

// CreateEntry records an analytics entry.
func (s *AnalyticsService) CreateEntry(ctx context.Context, input AnalyticsInput) (*domain.Analytics, error) {
	if err := required(map[string]bool{
		"customer_id":       input.CustomerID != nil,
		"worker_id":         input.WorkerID != nil,
		"metric_value":      input.MetricValue != nil,
		"period_start_date": input.PeriodStartDate != nil,
		"period_end_date":   input.PeriodEndDate != nil,
	}); err != nil {
		return nil, err
	}
	entry := &domain.Analytics{}
	if err := applyAnalyticsInput(entry, input); err != nil {
		return nil, err
	}
	if err := s.analytics.Create(ctx, entry); err != nil {
		return nil, storeError("analytics entry", err)
	}
	return entry, nil
}

// GetEntry fetches an analytics entry.
func (s *AnalyticsService) GetEntry(ctx context.Context, id int64) (*domain.Analytics, error) {
	entry, err := s.analytics.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("analytics entry", err)
	}
	return entry, nil
}

// UpdateEntry applies a partial update.
func (s *AnalyticsService) UpdateEntry(ctx context.Context, id int64, input AnalyticsInput) (*domain.Analytics, error) {
	entry, err := s.analytics.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("analytics entry", err)
	}
	if err := applyAnalyticsInput(entry, input); err != nil {
		return nil, err
	}
	if err := s.analytics.Update(ctx, entry); err != nil {
		return nil, storeError("analytics entry", err)
	}
	return entry, nil
}

// DeleteEntry removes an analytics entry.
func (s *AnalyticsService) DeleteEntry(ctx context.Context, id int64) error {
	return storeError("analytics entry", s.analytics.Delete(ctx, id))
}

// ListEntries returns one page of entries matching q.
func (s *AnalyticsService) ListEntries(ctx context.Context, q AnalyticsQuery) (PageResult[domain.Analytics], error) {
	filter := repository.AnalyticsFilter{
		CustomerID: q.CustomerID,
		WorkerID:   q.WorkerID,
		Page:       q.repoPage(),
	}
	if q.MetricValue != nil {
		metric, err := parseMetric(*q.MetricValue)
		if err != nil {
			return PageResult[domain.Analytics]{}, err
		}
		filter.MetricValue = &metric
	}
	var err error
	if filter.StartDate, err = ParseOptionalDate("start_date", q.StartDate); err != nil {
		return PageResult[domain.Analytics]{}, err
	}
	if filter.EndDate, err = ParseOptionalDate("end_date", q.EndDate); err != nil {
		return PageResult[domain.Analytics]{}, err
	}
	items, total, err := s.analytics.List(ctx, filter)
	if err != nil {
		return PageResult[domain.Analytics]{}, storeError("analytics entry", err)
	}
	return newPageResult(items, total, q.Pagination), nil
}

// Report counts entries grouped by customer, worker and metric value.
// startDate bounds period_start_date and endDate bounds period_end_date.
func (s *AnalyticsService) Report(ctx context.Context, startDate, endDate string) ([]domain.AnalyticsReportRow, error) {
	from, err := ParseOptionalDate("start_date", startDate)
	if err != nil {
		return nil, err
	}
	to, err := ParseOptionalDate("end_date", endDate)
	if err != nil {
		return nil, err
	}
	rows, err := s.analytics.Report(ctx, from, to)
	if err != nil {
		return nil, storeError("analytics entry", err)
	}
	if rows == nil {
		rows = []domain.AnalyticsReportRow{}
	}
	return rows, nil
}

// MonthlySummary lists entries whose period starts in the current month.
func (s *AnalyticsService) MonthlySummary(ctx context.Context) ([]domain.Analytics, error) {
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	entries, err := s.analytics.StartingBetween(ctx, start, start.AddDate(0, 1, 0))
	if err != nil {
		return nil, storeError("analytics entry", err)
	}
	if entries == nil {
		entries = []domain.Analytics{}
	}
	return entries, nil
}

func parseMetric(raw string) (domain.MetricValue, error) {
	metric, ok := domain.ParseMetricValue(raw)
	if !ok {
		return "", apperrors.NewValidationError("invalid metric value", map[string]any{
			"metric_value": raw,
			"allowed":      []domain.MetricValue{domain.MetricActive, domain.MetricDeactivated, domain.MetricInProcess},
		})
	}
	return metric, nil
}

func applyAnalyticsInput(entry *domain.Analytics, input AnalyticsInput) error {
	if input.MetricValue != nil {
		metric, err := parseMetric(*input.MetricValue)
		if err != nil {
			return err
		}
		entry.MetricValue = metric
	}
	if input.PeriodStartDate != nil {
		start, err := ParseDate("period_start_date", *input.PeriodStartDate)
		if err != nil {
			return err
		}
		entry.PeriodStartDate = start
	}
	if input.PeriodEndDate != nil {
		end, err := ParseDate("period_end_date", *input.PeriodEndDate)
		if err != nil {
			return err
		}
		entry.PeriodEndDate = end
	}
	if entry.PeriodEndDate.Before(entry.PeriodStartDate) {
		return apperrors.NewValidationError("period_end_date precedes period_start_date", nil)
	}
	if input.CustomerID != nil {
		entry.CustomerID = input.CustomerID
	}
	if input.WorkerID != nil {
		entry.WorkerID = input.WorkerID
	}
	return nil
}
