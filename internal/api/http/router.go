package http

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/http/handlers"
	"github.com/spec-kit/blog-service/internal/auth"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Posts          *handlers.PostsHandler
	AuthMiddleware *auth.AuthMiddleware
	StaticDir      string
}

// RegisterRoutes wires HTTP routes. Reading posts is public; every mutating
// post route goes through the auth gate.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/verify", cfg.Auth.Verify)

	app.Get("/posts", cfg.Posts.List)
	app.Post("/post", cfg.AuthMiddleware.Handle, cfg.Posts.Create)
	app.Put("/post/:id", cfg.AuthMiddleware.Handle, cfg.Posts.Update)
	app.Delete("/post/:id", cfg.AuthMiddleware.Handle, cfg.Posts.Delete)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	app.Use(notFoundHandler(cfg.StaticDir))
}

// notFoundHandler serves the SPA entry point for browser navigation and a
// JSON 404 for everything else.
func notFoundHandler(staticDir string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if staticDir != "" && c.Method() == fiber.MethodGet &&
			strings.Contains(c.Get(fiber.HeaderAccept), "text/html") {
			index := filepath.Join(staticDir, "index.html")
			if _, err := os.Stat(index); err == nil {
				return c.SendFile(index)
			}
		}
		return apperrors.NewNotFound(fmt.Sprintf(
			"The page %q you're looking for doesn't exist. Please check the URL and try again.", c.Path()))
	}
}
