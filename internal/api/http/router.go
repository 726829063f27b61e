package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Agent          *handlers.AgentHandler
	Supervisor     *handlers.SupervisorHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes. Role guards here only shape the surface;
// the services enforce capabilities themselves.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.UpdateTicket)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.DeleteTicket)

	agent := api.Group("/agent", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	agent.Get("/tickets/:employeeId", cfg.Agent.ListTickets)
	agent.Post("/start-ticket", cfg.Agent.StartTicket)
	agent.Post("/resolve-ticket", cfg.Agent.ResolveTicket)

	supervisor := api.Group("/supervisor", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	supervisor.Get("/user/:employeeId", cfg.Supervisor.GetUser)
	supervisor.Get("/departments", cfg.Supervisor.ListDepartments)
	supervisor.Get("/tickets/:employeeId", cfg.Supervisor.ListTickets)
	supervisor.Get("/agents/:employeeId", cfg.Supervisor.ListAgents)
	supervisor.Post("/tickets/assign", cfg.Supervisor.AssignTicket)
	supervisor.Post("/:departmentName", cfg.Supervisor.ListSupervisors)

	app.Use(NotFound)
}
