package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// SalesLeadsHandler exposes sales lead and revenue endpoints.
type SalesLeadsHandler struct {
	leads *service.SalesLeadService
}

// NewSalesLeadsHandler constructs handler.
func NewSalesLeadsHandler(leads *service.SalesLeadService) *SalesLeadsHandler {
	return &SalesLeadsHandler{leads: leads}
}

func leadInput(req dto.SalesLeadRequest) service.SalesLeadInput {
	return service.SalesLeadInput{
		CustomerID:     req.CustomerID,
		WorkerID:       req.WorkerID,
		LeadStatus:     req.LeadStatus,
		LeadSource:     req.LeadSource,
		PotentialValue: req.PotentialValue,
	}
}

// Create handles POST /api/sales_leads.
func (h *SalesLeadsHandler) Create(c *fiber.Ctx) error {
	var req dto.SalesLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	lead, err := h.leads.CreateLead(c.UserContext(), leadInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSalesLeadResponse(lead)})
}

// List handles GET /api/sales_leads.
func (h *SalesLeadsHandler) List(c *fiber.Ctx) error {
	minValue, err := queryFloat(c, "min_potential_value")
	if err != nil {
		return err
	}
	maxValue, err := queryFloat(c, "max_potential_value")
	if err != nil {
		return err
	}
	page, err := h.leads.ListLeads(c.UserContext(), service.SalesLeadQuery{
		LeadStatus: queryString(c, "lead_status"),
		LeadSource: queryString(c, "lead_source"),
		MinValue:   minValue,
		MaxValue:   maxValue,
		Pagination: pagination(c),
	})
	if err != nil {
		return err
	}
	return listResponse(c, page, dto.NewSalesLeadResponses)
}

// Get handles GET /api/sales_leads/:id.
func (h *SalesLeadsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	lead, err := h.leads.GetLead(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSalesLeadResponse(lead)})
}

// Update handles PUT /api/sales_leads/:id.
func (h *SalesLeadsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.SalesLeadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	lead, err := h.leads.UpdateLead(c.UserContext(), id, leadInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSalesLeadResponse(lead)})
}

// Delete handles DELETE /api/sales_leads/:id.
func (h *SalesLeadsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.leads.DeleteLead(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Revenue handles GET /api/revenue.
func (h *SalesLeadsHandler) Revenue(c *fiber.Ctx) error {
	startDate, endDate := c.Query("start_date"), c.Query("end_date")
	from, err := service.ParseOptionalDate("start_date", startDate)
	if err != nil {
		return err
	}
	to, err := service.ParseOptionalDate("end_date", endDate)
	if err != nil {
		return err
	}
	total, err := h.leads.Revenue(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewRevenueResponse(startDate, endDate, total)})
}
