package handler

import (
	"github.com/deppfellow/registration-service/internal/server"
	"github.com/deppfellow/registration-service/internal/service"
)

// Handlers groups all HTTP handlers so the router receives one object.
type Handlers struct {
	Health       *HealthHandler
	Registration *RegistrationHandler
	OpenAPI      *OpenAPIHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:       NewHealthHandler(s, services.Registration),
		Registration: NewRegistrationHandler(s, services.Registration),
		OpenAPI:      NewOpenAPIHandler(s),
	}
}
