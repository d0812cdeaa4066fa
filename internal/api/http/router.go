package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/devicecare/repair-booking/internal/api/http/handlers"
	"github.com/devicecare/repair-booking/internal/auth"
	"github.com/devicecare/repair-booking/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Bookings       *handlers.BookingsHandler
	Payments       *handlers.PaymentsHandler
	Catalog        *handlers.CatalogHandler
	Metrics        *handlers.MetricsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	app.Post("/book", cfg.AuthMiddleware.Optional, cfg.Bookings.Book)
	app.Post("/pay", cfg.Payments.Pay)
	app.Get("/technicians", cfg.Bookings.ListTechnicians)
	app.Get("/bookings/:id", cfg.AuthMiddleware.Handle, auth.RequireAnyRole(), cfg.Bookings.GetBooking)

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)

	catalog := app.Group("/catalog")
	catalog.Get("/:kind", cfg.Catalog.List)
	catalog.Post("/:kind", cfg.AuthMiddleware.Handle, auth.RequireRole(domain.RoleAdmin), cfg.Catalog.Create)
}
