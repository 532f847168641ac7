package handler

import (
	"context"

	"github.com/deppfellow/registration-service/internal/model"
	"github.com/deppfellow/registration-service/internal/server"
	"github.com/labstack/echo/v4"
)

// RegistrationSuccessMessage is the plain-text body of a successful registration.
const RegistrationSuccessMessage = "Registration successful"

// Registrar is the service behind POST /api/register.
type Registrar interface {
	Register(ctx context.Context, req *model.RegisterRequest) (*model.Registration, error)
}

type RegistrationHandler struct {
	Handler
	registrar Registrar
}

func NewRegistrationHandler(s *server.Server, registrar Registrar) *RegistrationHandler {
	return &RegistrationHandler{
		Handler:   NewHandler(s),
		registrar: registrar,
	}
}

// NewRegisterRequest allocates the payload for one request.
func NewRegisterRequest() *model.RegisterRequest {
	return &model.RegisterRequest{}
}

// Register saves a validated registration. Validation failures never reach
// this point; storage failures are returned for the global error handler.
func (h *RegistrationHandler) Register(c echo.Context, req *model.RegisterRequest) (string, error) {
	if _, err := h.registrar.Register(c.Request().Context(), req); err != nil {
		return "", err
	}
	return RegistrationSuccessMessage, nil
}
