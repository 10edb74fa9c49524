package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// AnalyticsHandler exposes analytics entries and reports.
type AnalyticsHandler struct {
	analytics *service.AnalyticsService
}

// NewAnalyticsHandler constructs handler.
func NewAnalyticsHandler(analytics *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics}
}

func analyticsInput(req dto.AnalyticsRequest) service.AnalyticsInput {
	return service.AnalyticsInput{
		CustomerID:      req.CustomerID,
		WorkerID:        req.WorkerID,
		MetricValue:     req.MetricValue,
		PeriodStartDate: req.PeriodStartDate,
		PeriodEndDate:   req.PeriodEndDate,
	}
}

// Create handles POST /api/analytics.
func (h *AnalyticsHandler) Create(c *fiber.Ctx) error {
	var req dto.AnalyticsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.analytics.CreateEntry(c.UserContext(), analyticsInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAnalyticsResponse(entry)})
}

// List handles GET /api/analytics.
func (h *AnalyticsHandler) List(c *fiber.Ctx) error {
	customerID, err := queryInt64(c, "customer_id")
	if err != nil {
		return err
	}
	workerID, err := queryInt64(c, "worker_id")
	if err != nil {
		return err
	}
	page, err := h.analytics.ListEntries(c.UserContext(), service.AnalyticsQuery{
		MetricValue: queryString(c, "metric_value"),
		CustomerID:  customerID,
		WorkerID:    workerID,
		StartDate:   c.Query("start_date"),
		EndDate:     c.Query("end_date"),
		Pagination:  pagination(c),
	})
	if err != nil {
		return err
	}
	return listResponse(c, page, dto.NewAnalyticsResponses)
}

// Get handles GET /api/analytics/:id.
func (h *AnalyticsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	entry, err := h.analytics.GetEntry(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsResponse(entry)})
}

// Update handles PUT /api/analytics/:id.
func (h *AnalyticsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.AnalyticsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	entry, err := h.analytics.UpdateEntry(c.UserContext(), id, analyticsInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsResponse(entry)})
}

// Delete handles DELETE /api/analytics/:id.
func (h *AnalyticsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.analytics.DeleteEntry(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Report handles GET /api/analytics/reports.
func (h *AnalyticsHandler) Report(c *fiber.Ctx) error {
	rows, err := h.analytics.Report(c.UserContext(), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsReport(rows)})
}

// Monthly handles GET /api/analytics/monthly.
func (h *AnalyticsHandler) Monthly(c *fiber.Ctx) error {
	entries, err := h.analytics.MonthlySummary(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewAnalyticsResponses(entries)})
}
