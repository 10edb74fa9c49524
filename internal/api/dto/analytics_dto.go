package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// AnalyticsRequest is used for both create and update. Dates are YYYY-MM-DD.
type AnalyticsRequest struct {
	CustomerID      *int64  `json:"customer_id"`
	WorkerID        *int64  `json:"worker_id"`
	MetricValue     *string `json:"metric_value"`
	PeriodStartDate *string `json:"period_start_date"`
	PeriodEndDate   *string `json:"period_end_date"`
}

// AnalyticsResponse renders an analytics entry.
type AnalyticsResponse struct {
	ID              int64              `json:"id"`
	CustomerID      *int64             `json:"customer_id"`
	WorkerID        *int64             `json:"worker_id"`
	MetricValue     domain.MetricValue `json:"metric_value"`
	PeriodStartDate string             `json:"period_start_date"`
	PeriodEndDate   string             `json:"period_end_date"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// AnalyticsReportRow is one grouped count.
type AnalyticsReportRow struct {
	CustomerID  *int64             `json:"customer_id"`
	WorkerID    *int64             `json:"worker_id"`
	MetricValue domain.MetricValue `json:"metric_value"`
	Count       int64              `json:"count"`
}

func NewAnalyticsResponse(a *domain.Analytics) AnalyticsResponse {
	return AnalyticsResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		WorkerID:        a.WorkerID,
		MetricValue:     a.MetricValue,
		PeriodStartDate: formatDate(a.PeriodStartDate),
		PeriodEndDate:   formatDate(a.PeriodEndDate),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

func NewAnalyticsResponses(items []domain.Analytics) []AnalyticsResponse {
	resp := make([]AnalyticsResponse, 0, len(items))
	for i := range items {
		resp = append(resp, NewAnalyticsResponse(&items[i]))
	}
	return resp
}

func NewAnalyticsReport(rows []domain.AnalyticsReportRow) []AnalyticsReportRow {
	resp := make([]AnalyticsReportRow, 0, len(rows))
	for _, row := range rows {
		resp = append(resp, AnalyticsReportRow{
			CustomerID:  row.CustomerID,
			WorkerID:    row.WorkerID,
			MetricValue: row.MetricValue,
			Count:       row.Count,
		})
	}
	return resp
}
