package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/conversation-service/internal/api/http/handlers"
	"github.com/spec-kit/conversation-service/internal/api/routing"
	"github.com/spec-kit/conversation-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Conversations  *handlers.ConversationsHandler
	Customers      *handlers.CustomersHandler
	Resolutions    *handlers.ResolutionsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes builds the route table and mounts it on the Fiber app as a
// catch-all, so route matching (literal-before-template, registration
// order, strict trailing slash) is owned by the routing package.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) *routing.Router {
	rt := routing.New()

	rt.Add(fiber.MethodGet, "/health", cfg.Health.Live)
	rt.Add(fiber.MethodGet, "/health/ready", cfg.Health.Ready)

	rt.Add(fiber.MethodPost, "/api/auth/login", cfg.Auth.Login)

	rt.Add(fiber.MethodPost, "/api/conversations", cfg.Conversations.Create)
	rt.Add(fiber.MethodGet, "/api/conversations", cfg.Conversations.List)
	rt.Add(fiber.MethodGet, "/api/conversations/:id", cfg.Conversations.Get)
	rt.Add(fiber.MethodPost, "/api/conversations/:id/messages", cfg.Conversations.PostMessage)
	rt.Add(fiber.MethodPost, "/api/conversations/:id/assign", cfg.Conversations.Assign)
	rt.Add(fiber.MethodPost, "/api/conversations/:id/escalate", cfg.Conversations.Escalate)
	rt.Add(fiber.MethodPost, "/api/conversations/:id/resolve", cfg.Conversations.Resolve)

	rt.Add(fiber.MethodPost, "/api/customers", cfg.Customers.Create)
	rt.Add(fiber.MethodGet, "/api/customers", cfg.Customers.List)
	rt.Add(fiber.MethodGet, "/api/customers/:id", cfg.Customers.Get)

	rt.Add(fiber.MethodPost, "/api/resolutions", cfg.Resolutions.Create)
	rt.Add(fiber.MethodGet, "/api/resolutions", cfg.Resolutions.List)
	rt.Add(fiber.MethodGet, "/api/resolutions/:id", cfg.Resolutions.Get)
	rt.Add(fiber.MethodPatch, "/api/resolutions/:id/status", cfg.Resolutions.UpdateStatus)
	rt.Add(fiber.MethodPost, "/api/resolutions/:id/resolve", cfg.Resolutions.Resolve)

	if cfg.AuthMiddleware != nil {
		app.Use(authGate(cfg.AuthMiddleware))
	}
	app.All("/*", rt.Dispatch)
	return rt
}

// authGate applies bearer-token auth to all /api routes except login.
// Health probes and unmatched paths stay public so 404s surface unchanged.
func authGate(middleware *auth.AuthMiddleware) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if !strings.HasPrefix(path, "/api/") || path == "/api/auth/login" {
			return c.Next()
		}
		return middleware.Handle(c)
	}
}
