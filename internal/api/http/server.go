package http

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/crm-service/internal/api/http/handlers"
	"github.com/spec-kit/crm-service/internal/auth"
	"github.com/spec-kit/crm-service/internal/config"
	"github.com/spec-kit/crm-service/internal/events"
	"github.com/spec-kit/crm-service/internal/observability"
	"github.com/spec-kit/crm-service/internal/repository"
	"github.com/spec-kit/crm-service/internal/service"
	"github.com/spec-kit/crm-service/internal/worker"
)

// ServerDeps bundles what NewServer needs to assemble the application.
type ServerDeps struct {
	Config       config.Config
	Logger       *zap.Logger
	Metrics      *observability.Metrics
	Repos        repository.Repositories
	Publisher    service.Publisher
	Dependencies map[string]handlers.Pinger
}

// Server is the assembled HTTP application.
type Server struct {
	App     *fiber.App
	Workers *service.WorkerService
	Tickets *service.TicketService
}

// NewServer wires services, handlers and routes onto a new fiber app.
func NewServer(deps ServerDeps) *Server {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = observability.NewMetrics()
	}
	repos := deps.Repos

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(dispatcher, repos.Workers, deps.Publisher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	workerService := service.NewWorkerService(cfg, repos.Workers, logger)
	authService := service.NewAuthService(workerService, tokens)
	assignmentService := service.NewAssignmentService(service.AssignmentDependencies{
		Store:      repos.Assignments,
		WorkerRepo: repos.Workers,
		Dispatcher: dispatcher,
		Logger:     logger,
		Serialize:  cfg.Assignment.Serialize,
	})
	ticketService := service.NewTicketService(service.TicketDependencies{
		TicketRepo:        repos.Tickets,
		WorkerRepo:        repos.Workers,
		AssignmentService: assignmentService,
		Dispatcher:        dispatcher,
		Logger:            logger,
	})

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps.Dependencies, metrics),
		Workers:        handlers.NewWorkersHandler(authService, workerService),
		Customers:      handlers.NewCustomersHandler(service.NewCustomerService(repos.Customers)),
		SalesLeads:     handlers.NewSalesLeadsHandler(service.NewSalesLeadService(repos.SalesLeads)),
		Interactions:   handlers.NewInteractionsHandler(service.NewInteractionService(repos.Interactions)),
		SupportTickets: handlers.NewSupportTicketsHandler(ticketService),
		Analytics:      handlers.NewAnalyticsHandler(service.NewAnalyticsService(repos.Analytics)),
		Calendar:       handlers.NewCalendarHandler(service.NewCalendarService(repos.Calendar)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, repos.Workers),
	})

	return &Server{App: app, Workers: workerService, Tickets: ticketService}
}
