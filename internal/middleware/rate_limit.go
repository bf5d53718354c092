package middleware

import (
	"strconv"

	"github.com/deppfellow/defect-service/internal/errs"
	"github.com/deppfellow/defect-service/internal/lib/ratelimit"
	"github.com/deppfellow/defect-service/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"
)

// RateLimitMiddleware throttles clients by IP with a Redis fixed window.
type RateLimitMiddleware struct {
	server  *server.Server
	limiter *ratelimit.Limiter
}

// NewRateLimitMiddleware returns a limiter over s.Redis. Limiting is off
// when the configured rate is zero or Redis is not set up.
func NewRateLimitMiddleware(s *server.Server) *RateLimitMiddleware {
	m := &RateLimitMiddleware{server: s}
	if s.Redis != nil && s.Config.Defect != nil && s.Config.Defect.RateLimit > 0 {
		m.limiter = ratelimit.New(s.Redis, s.Config.Defect.RateLimit, s.Config.Defect.RateLimitWindow)
	}
	return m
}

// Limit rejects requests over the limit with TOO_MANY_REQUEST. When Redis
// cannot be reached requests are let through.
func (r *RateLimitMiddleware) Limit() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		if r.limiter == nil {
			return next
		}
		return func(c echo.Context) error {
			decision, err := r.limiter.Allow(c.Request().Context(), c.RealIP())
			if err != nil {
				GetLogger(c).Warn().Err(err).Msg("rate limiter unavailable, allowing request")
				return next(c)
			}

			header := c.Response().Header()
			header.Set(HeaderRateLimitLimit, strconv.Itoa(decision.Limit))
			header.Set(HeaderRateLimitRemaining, strconv.Itoa(decision.Remaining))
			header.Set(HeaderRateLimitReset, strconv.FormatInt(decision.ResetAt.Unix(), 10))

			if !decision.Allowed {
				r.RecordRateLimitHit(c.Path())
				return errs.NewTooManyRequestsError("Too many requests, please slow down")
			}
			return next(c)
		}
	}
}

// RecordRateLimitHit records a RateLimitHit custom event in New Relic.
func (r *RateLimitMiddleware) RecordRateLimitHit(endpoint string) {
	if app := r.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("RateLimitHit", map[string]any{
			"endpoint": endpoint,
		})
	}
}
