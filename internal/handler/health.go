package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/registration-service/internal/config"
	"github.com/deppfellow/registration-service/internal/middleware"
	"github.com/deppfellow/registration-service/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// LivenessMessage is returned by GET /health.
const LivenessMessage = "Health is okay!"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthHandler struct {
	Handler
	storage Pinger
}

func NewHealthHandler(s *server.Server, storage Pinger) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
		storage: storage,
	}
}

// Liveness answers GET /health. It never touches a dependency.
func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": LivenessMessage})
}

// CheckHealth answers GET /status with the configured dependency checks.
//
// It returns 200 when every check passes and 503 otherwise. Redis only
// counts against readiness while background jobs depend on it.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	cfg := h.server.Config

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	checks := make(map[string]interface{})
	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": cfg.Primary.Env,
		"storage":     cfg.Storage.Backend,
		"checks":      checks,
	}

	isHealthy := true
	timeout := cfg.Observability.HealthChecks.Timeout

	if cfg.Observability.CheckEnabled(config.CheckStorage) {
		if !h.runCheck(c.Request().Context(), &logger, checks, config.CheckStorage, timeout, h.storage.Ping) {
			isHealthy = false
		}
	}

	if h.server.Redis != nil && cfg.Observability.CheckEnabled(config.CheckRedis) {
		ping := func(ctx context.Context) error { return h.server.Redis.Ping(ctx).Err() }
		if !h.runCheck(c.Request().Context(), &logger, checks, config.CheckRedis, timeout, ping) && h.server.Job != nil {
			isHealthy = false
		}
	}

	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// runCheck pings one dependency, records the outcome in checks and reports success.
func (h *HealthHandler) runCheck(
	parent context.Context,
	logger *zerolog.Logger,
	checks map[string]interface{},
	name string,
	timeout time.Duration,
	ping func(context.Context) error,
) bool {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	checkStart := time.Now()
	err := ping(ctx)
	elapsed := time.Since(checkStart)

	if err != nil {
		checks[name] = map[string]interface{}{
			"status":        "unhealthy",
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", name)

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":       name,
			"operation":        "health_check",
			"error_type":       name + "_unhealthy",
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		})
		return false
	}

	checks[name] = map[string]interface{}{
		"status":        "healthy",
		"response_time": elapsed.String(),
	}

	logger.Debug().
		Dur("response_time", elapsed).
		Msgf("%s health check passed", name)
	return true
}

func (h *HealthHandler) recordHealthCheckError(params map[string]interface{}) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", params)
	}
}
