package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/genre-sales-api/internal/api/http/handlers"
	"github.com/spec-kit/genre-sales-api/internal/auth"
	"github.com/spec-kit/genre-sales-api/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Genres         *handlers.GenreHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	app.Post("/login", cfg.Auth.Login)

	app.Get("/total-genre", cfg.Genres.TotalGenre)
	app.Get("/recent-sale", cfg.Genres.RecentSale)
	app.Get("/not-sold", cfg.Genres.NotSold)

	app.Get("/genre-sale-summary",
		cfg.AuthMiddleware.Handle,
		auth.RequireActiveEmployee(),
		cfg.Genres.GenreSaleSummary,
	)
}
