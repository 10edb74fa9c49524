package domain

import (
	"strings"
	"time"
)

// MetricValue enumerates analytics states.
type MetricValue string

const (
	MetricActive      MetricValue = "active"
	MetricDeactivated MetricValue = "deactivated"
	MetricInProcess   MetricValue = "in-process"
)

// ParseMetricValue normalizes and validates a metric value.
func ParseMetricValue(raw string) (MetricValue, bool) {
	v := MetricValue(strings.ToLower(strings.TrimSpace(raw)))
	switch v {
	case MetricActive, MetricDeactivated, MetricInProcess:
		return v, true
	}
	return "", false
}

// Analytics is a metric observation for a customer/worker pair over a period.
type Analytics struct {
	ID              int64
	CustomerID      *int64
	WorkerID        *int64
	MetricValue     MetricValue
	PeriodStartDate time.Time
	PeriodEndDate   time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AnalyticsReportRow is one grouped count of the analytics report.
type AnalyticsReportRow struct {
	CustomerID  *int64
	WorkerID    *int64
	MetricValue MetricValue
	Count       int64
}
