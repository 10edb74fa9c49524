package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/dto"
	"github.com/spec-kit/crm-service/internal/service"
)

// WorkersHandler exposes worker directory and login endpoints.
type WorkersHandler struct {
	authService   *service.AuthService
	workerService *service.WorkerService
}

// NewWorkersHandler constructs handler.
func NewWorkersHandler(authService *service.AuthService, workerService *service.WorkerService) *WorkersHandler {
	return &WorkersHandler{authService: authService, workerService: workerService}
}

// Login handles POST /api/workers/login.
func (h *WorkersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	worker, token, err := h.authService.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"worker": dto.NewWorkerResponse(worker),
			"auth":   dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt},
		},
	})
}

// Me handles GET /api/workers/me.
func (h *WorkersHandler) Me(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkerResponse(current)})
}

// ChangePassword handles PUT /api/workers/password/:id.
func (h *WorkersHandler) ChangePassword(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.PasswordChangeRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.workerService.SetPassword(c.UserContext(), current, id, req.Value()); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "Password updated successfully"}})
}

// List handles GET /api/workers.
func (h *WorkersHandler) List(c *fiber.Ctx) error {
	workers, err := h.workerService.ListWorkers(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkerResponses(workers)})
}

// Get handles GET /api/workers/:id.
func (h *WorkersHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	worker, err := h.workerService.GetWorker(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkerResponse(worker)})
}

// Create handles POST /api/workers.
func (h *WorkersHandler) Create(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	var req dto.CreateWorkerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	worker, err := h.workerService.CreateWorker(c.UserContext(), current, service.WorkerCreateInput{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewWorkerResponse(worker)})
}

// Update handles PUT /api/workers/:id.
func (h *WorkersHandler) Update(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateWorkerRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	worker, err := h.workerService.UpdateWorker(c.UserContext(), current, id, service.WorkerUpdateInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Role:      req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWorkerResponse(worker)})
}

// Delete handles DELETE /api/workers/:id.
func (h *WorkersHandler) Delete(c *fiber.Ctx) error {
	current, err := actor(c)
	if err != nil {
		return err
	}
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := h.workerService.DeleteWorker(c.UserContext(), current, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
