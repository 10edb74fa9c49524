package dto

import (
	"time"

	"github.com/spec-kit/crm-service/internal/domain"
)

// SalesLeadRequest is used for both create and update.
type SalesLeadRequest struct {
	CustomerID     *int64   `json:"customer_id"`
	WorkerID       *int64   `json:"worker_id"`
	LeadStatus     *string  `json:"lead_status"`
	LeadSource     *string  `json:"lead_source"`
	PotentialValue *float64 `json:"potential_value"`
}

// SalesLeadResponse renders a lead. PotentialValue is a two-decimal string.
type SalesLeadResponse struct {
	ID             int64     `json:"id"`
	CustomerID     int64     `json:"customer_id"`
	WorkerID       *int64    `json:"worker_id"`
	LeadStatus     string    `json:"lead_status"`
	LeadSource     *string   `json:"lead_source"`
	PotentialValue *string   `json:"potential_value"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// RevenueResponse is the body of GET /api/revenue.
type RevenueResponse struct {
	StartDate    *string `json:"start_date"`
	EndDate      *string `json:"end_date"`
	TotalRevenue string  `json:"total_revenue"`
}

// NewRevenueResponse formats a revenue total.
func NewRevenueResponse(startDate, endDate string, total float64) RevenueResponse {
	resp := RevenueResponse{TotalRevenue: *formatMoney(&total)}
	if startDate != "" {
		resp.StartDate = &startDate
	}
	if endDate != "" {
		resp.EndDate = &endDate
	}
	return resp
}

// NewSalesLeadResponse maps a lead to its response.
func NewSalesLeadResponse(l *domain.SalesLead) SalesLeadResponse {
	return SalesLeadResponse{
		ID:             l.ID,
		CustomerID:     l.CustomerID,
		WorkerID:       l.WorkerID,
		LeadStatus:     l.LeadStatus,
		LeadSource:     l.LeadSource,
		PotentialValue: formatMoney(l.PotentialValue),
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

// NewSalesLeadResponses maps a slice of leads.
func NewSalesLeadResponses(leads []domain.SalesLead) []SalesLeadResponse {
	resp := make([]SalesLeadResponse, 0, len(leads))
	for i := range leads {
		resp = append(resp, NewSalesLeadResponse(&leads[i]))
	}
	return resp
}
