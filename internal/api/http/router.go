package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Workers        *handlers.WorkersHandler
	Customers      *handlers.CustomersHandler
	SalesLeads     *handlers.SalesLeadsHandler
	Interactions   *handlers.InteractionsHandler
	SupportTickets *handlers.SupportTicketsHandler
	Analytics      *handlers.AnalyticsHandler
	Calendar       *handlers.CalendarHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Post("/workers/login", cfg.Workers.Login)

	protected := api.Group("", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	protected.Get("/metrics", auth.RequireAdmin(), cfg.Health.Metrics)

	protected.Get("/workers/me", cfg.Workers.Me)
	protected.Put("/workers/password/:id", cfg.Workers.ChangePassword)

	workers := protected.Group("/workers", auth.RequireAdmin())
	workers.Post("", cfg.Workers.Create)
	workers.Get("", cfg.Workers.List)
	workers.Get("/:id", cfg.Workers.Get)
	workers.Put("/:id", cfg.Workers.Update)
	workers.Delete("/:id", cfg.Workers.Delete)

	crud(protected.Group("/customers"), cfg.Customers)
	crud(protected.Group("/sales_leads"), cfg.SalesLeads)
	crud(protected.Group("/interactions"), cfg.Interactions)
	crud(protected.Group("/support_tickets"), cfg.SupportTickets)

	// Report routes are registered ahead of /analytics/:id.
	protected.Get("/analytics/reports", cfg.Analytics.Report)
	protected.Get("/analytics/monthly", cfg.Analytics.Monthly)
	crud(protected.Group("/analytics"), cfg.Analytics)

	protected.Get("/revenue", cfg.SalesLeads.Revenue)
	protected.Get("/calendar", cfg.Calendar.List)
	protected.Post("/calendar", cfg.Calendar.Create)
}

type crudHandler interface {
	Create(c *fiber.Ctx) error
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

func crud(r fiber.Router, h crudHandler) {
	r.Post("", h.Create)
	r.Get("", h.List)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
}
