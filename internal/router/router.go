// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"net/http"

	"github.com/deppfellow/registration-service/internal/handler"
	"github.com/deppfellow/registration-service/internal/middleware"
	"github.com/deppfellow/registration-service/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the echo instance. Middleware order matters: the request
// id must exist before the context logger, and the New Relic transaction
// before both the context logger and EnhanceTracing.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api")
	registerRegistrationRoutes(api, h)

	return router
}

func registerRegistrationRoutes(api *echo.Group, h *handler.Handlers) {
	api.POST("/register", handler.HandleText(
		h.Registration.Handler,
		h.Registration.Register,
		http.StatusOK,
		handler.NewRegisterRequest,
	))
}
