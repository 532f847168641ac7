package router

import (
	"github.com/deppfellow/registration-service/internal/handler"
	"github.com/labstack/echo/v4"
)

// registerSystemRoutes registers the endpoints that are not business logic.
func registerSystemRoutes(r *echo.Echo, h *handler.Handlers) {
	// Liveness: never touches a dependency.
	r.GET("/health", h.Health.Liveness)

	// Readiness: pings the store (and redis when configured).
	r.GET("/status", h.Health.CheckHealth)

	r.Static("/static", handler.StaticDir)
	r.GET("/docs", h.OpenAPI.ServeOpenAPIUI)
}
