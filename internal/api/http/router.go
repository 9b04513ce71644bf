package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ubox-pos/cloud-dashboard/internal/api/http/handlers"
	"github.com/ubox-pos/cloud-dashboard/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Auth     *handlers.AuthHandler
	Views    *handlers.ViewsHandler
	Panel    *handlers.PanelHandler
	Sessions *auth.SessionMiddleware
}

// RegisterRoutes wires HTTP routes. Everything but health and the auth
// endpoints sits behind the session guard.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/login", cfg.Sessions.Optional, cfg.Auth.LoginView)
	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/logout", cfg.Auth.Logout)

	protected := app.Group("", cfg.Sessions.Handle)
	protected.Get("/session", cfg.Auth.Session)
	protected.Get("/license-plans", cfg.Views.LicensePlans)

	business := auth.RequireBusiness()
	protected.Get("/dashboard", business, cfg.Views.Dashboard)
	protected.Get("/devices", business, cfg.Views.Devices)
	protected.Post("/devices/:id/authorize", business, cfg.Views.SetDeviceAuthorization)
	protected.Get("/orders", business, cfg.Views.Orders)
	protected.Get("/inventory", business, cfg.Views.Inventory)
	protected.Get("/catalog", business, cfg.Views.Catalog)
	protected.Get("/staff", business, cfg.Views.Staff)
	protected.Get("/logs", business, cfg.Views.Logs)
	protected.Get("/plans", business, cfg.Views.Plans)
	protected.Get("/waiters", business, cfg.Views.Waiters)
	protected.Get("/cashier", business, cfg.Views.Cashier)
	protected.Get("/cashier/stream", business, cfg.Views.CashierStream)
	protected.Get("/reports", business, cfg.Views.Reports)
	protected.Get("/admin-dashboard", business, cfg.Views.AdminDashboard)

	panel := protected.Group("/panel", business)
	panel.Get("", cfg.Panel.Get)
	panel.Get("/attempts", cfg.Panel.Attempts)
	panel.Post("/:category/open", cfg.Panel.Open)
	panel.Post("/:category/select", cfg.Panel.Select)
	panel.Post("/:category/press", cfg.Panel.Press)
	panel.Post("/:category/clear", cfg.Panel.Clear)
	panel.Post("/:category/backspace", cfg.Panel.Backspace)
	panel.Post("/:category/close", cfg.Panel.Close)
}
