package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// InteractionsHandler exposes interaction endpoints.
type InteractionsHandler struct {
	interactions *service.InteractionService
}

func NewInteractionsHandler(interactions *service.InteractionService) *InteractionsHandler {
	return &InteractionsHandler{interactions: interactions}
}

func interactionInput(req dto.InteractionRequest) service.InteractionInput {
	return service.InteractionInput{
		CustomerID:           req.CustomerID,
		WorkerID:             req.WorkerID,
		InteractionType:      req.InteractionType,
		InteractionDate:      req.InteractionDate,
		InteractionNotes:     req.InteractionNotes,
		CommunicationSummary: req.CommunicationSummary,
	}
}

func (h *InteractionsHandler) Create(c *fiber.Ctx) error {
	var req dto.InteractionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	interaction, err := h.interactions.CreateInteraction(c.UserContext(), interactionInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewInteractionResponse(interaction)})
}

func (h *InteractionsHandler) List(c *fiber.Ctx) error {
	customerID, err := queryInt64(c, "customer_id")
	if err != nil {
		return err
	}
	workerID, err := queryInt64(c, "worker_id")
	if err != nil {
		return err
	}
	page, err := h.interactions.ListInteractions(c.UserContext(), service.InteractionQuery{
		InteractionType: queryString(c, "interaction_type"),
		CustomerID:      customerID,
		WorkerID:        workerID,
		Pagination:      pagination(c),
	})
	if err != nil {
		return err
	}
	return listResponse(c, page, dto.NewInteractionResponses)
}

func (h *InteractionsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	interaction, err := h.interactions.GetInteraction(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInteractionResponse(interaction)})
}

func (h *InteractionsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.InteractionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	interaction, err := h.interactions.UpdateInteraction(c.UserContext(), id, interactionInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewInteractionResponse(interaction)})
}

func (h *InteractionsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.interactions.DeleteInteraction(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
