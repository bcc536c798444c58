package middleware

import (
	"math"
	"strconv"

	apperrors "hvac-service/pkg/errors"
	"hvac-service/pkg/ratelimit"
	"hvac-service/pkg/utils"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit throttles requests per client IP under category. Store failures
// let the request through.
func RateLimit(limiter *ratelimit.Limiter, category string, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			res, err := limiter.Check(c.Request().Context(), category, ip)
			if err != nil {
				logger.Error("rate limiter unavailable", zap.String("category", category), zap.Error(err))
				return next(c)
			}

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

			if !res.Allowed {
				h.Set("Retry-After", strconv.Itoa(int(math.Ceil(res.RetryAfter.Seconds()))))
				logger.Warn("rate limit exceeded",
					zap.String("category", category),
					zap.String("ip", ip),
					zap.Duration("retryAfter", res.RetryAfter),
				)
				return utils.ErrorResponse(c, apperrors.ErrTooManyRequests, logger)
			}
			return next(c)
		}
	}
}
