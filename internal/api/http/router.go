package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/oasis-hotel/portal/internal/api/http/handlers"
	"github.com/oasis-hotel/portal/internal/domain"
	"github.com/oasis-hotel/portal/internal/observability"
	"github.com/oasis-hotel/portal/internal/routing"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	Pages     *handlers.PagesHandler
	Concierge *handlers.ConciergeHandler
	Sessions  routing.SessionSource
	Metrics   *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	app.Post(routing.GuestLoginPath, cfg.Auth.GuestLogin)
	app.Post(routing.StaffLoginPath, cfg.Auth.StaffLogin)
	app.Post("/logout", cfg.Auth.Logout)
	app.Get("/session", cfg.Auth.Session)

	// the chat widget is mounted on every shell
	chat := app.Group("/api/concierge")
	chat.Get("/messages", cfg.Concierge.Messages)
	chat.Post("/messages", cfg.Concierge.Send)

	for _, route := range routing.PublicRoutes {
		app.Get(route.Path, cfg.Pages.Page(route))
	}

	// guest pages sit at the root, so the guard is attached per route
	guestOnly := routing.RequireRole(cfg.Sessions, domain.RoleGuest, cfg.Metrics)
	for _, route := range routing.GuestRoutes {
		app.Get(route.Path, guestOnly, cfg.Pages.Page(route))
	}

	staff := app.Group("/admin", routing.RequireRole(cfg.Sessions, domain.RoleStaff, cfg.Metrics))
	for _, route := range routing.StaffRoutes {
		staff.Get(strings.TrimPrefix(route.Path, "/admin"), cfg.Pages.Page(route))
	}
	staff.Post("/concierge/upload", cfg.Concierge.Upload)
}
