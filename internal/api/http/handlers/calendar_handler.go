package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// CalendarHandler exposes worker calendar endpoints.
type CalendarHandler struct {
	calendar *service.CalendarService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(calendar *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{calendar: calendar}
}

// List handles GET /api/calendar.
func (h *CalendarHandler) List(c *fiber.Ctx) error {
	workerID, err := queryInt64(c, "worker_id")
	if err != nil {
		return err
	}
	events, err := h.calendar.ListEvents(c.UserContext(), service.CalendarQuery{
		WorkerID:  workerID,
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCalendarEventResponses(events)})
}

// Create handles POST /api/calendar.
func (h *CalendarHandler) Create(c *fiber.Ctx) error {
	var req dto.CalendarEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	event, err := h.calendar.CreateEvent(c.UserContext(), service.CalendarEventInput{
		WorkerID:    req.WorkerID,
		Title:       req.EventTitle,
		EventDate:   req.EventDate,
		EventTime:   req.EventTime,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCalendarEventResponse(event)})
}
