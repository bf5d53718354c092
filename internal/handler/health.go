package handler

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/deppfellow/defect-service/internal/middleware"
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthCheck probes one dependency.
type HealthCheck func(ctx context.Context) error

// HealthHandler reports whether the service and its dependencies are
// reachable. Only the checks listed in observability.health_checks.checks
// can turn the overall status unhealthy; the others are informational.
type HealthHandler struct {
	Handler
	checks map[string]HealthCheck
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	checks := make(map[string]HealthCheck)
	if s.DB != nil && s.DB.Pool != nil {
		checks["database"] = s.DB.Pool.Ping
	}
	if s.Redis != nil {
		checks["redis"] = func(ctx context.Context) error {
			return s.Redis.Ping(ctx).Err()
		}
	}

	return &HealthHandler{
		Handler: NewHandler(s),
		checks:  checks,
	}
}

// CheckHealth answers GET /status with 200 when every required check
// passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()
	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	cfg := h.server.Config.Observability.HealthChecks
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	results := make(map[string]map[string]any, len(h.checks))
	healthy := true

	if cfg.Enabled {
		names := make([]string, 0, len(h.checks))
		for name := range h.checks {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			checkStart := time.Now()
			ctx, cancel := context.WithTimeout(c.Request().Context(), cfg.Timeout)
			err := h.checks[name](ctx)
			cancel()
			elapsed := time.Since(checkStart)

			if err == nil {
				results[name] = map[string]any{
					"status":        "healthy",
					"response_time": elapsed.String(),
				}
				logger.Debug().Str("check", name).Dur("response_time", elapsed).Msg("health check passed")
				continue
			}

			results[name] = map[string]any{
				"status":        "unhealthy",
				"response_time": elapsed.String(),
				"error":         err.Error(),
			}
			if cfg.RequiresCheck(name) {
				healthy = false
			}

			logger.Error().Err(err).Str("check", name).Dur("response_time", elapsed).Msg("health check failed")
			h.recordFailure(map[string]any{
				"check_type":       name,
				"operation":        "health_check",
				"error_type":       name + "_unhealthy",
				"response_time_ms": elapsed.Milliseconds(),
				"error_message":    err.Error(),
			})
		}
	}

	status := "healthy"
	code := http.StatusOK
	if !healthy {
		status = "unhealthy"
		code = http.StatusServiceUnavailable

		logger.Warn().Dur("total_duration", time.Since(start)).Msg("health check failed")
		h.recordFailure(map[string]any{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})
	}

	body := map[string]any{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      results,
	}
	if err := c.JSON(code, body); err != nil {
		return fmt.Errorf("failed to write JSON response: %w", err)
	}
	return nil
}

func (h *HealthHandler) recordFailure(attrs map[string]any) {
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", attrs)
	}
}
