package echotransport

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

const headerRequestID = "X-Request-ID"

// RequestID stamps every response with a correlation ID, preserving one
// supplied by an upstream proxy.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(headerRequestID)
			if id == "" {
				id = uuid.New().String()
			}
			c.Response().Header().Set(headerRequestID, id)
			return next(c)
		}
	}
}

// RateLimiter implements token bucket rate limiting per client IP. The
// service has no authenticated principals of its own; tokens gate content
// access, not the transport, so IP is the only stable limiter key.
type RateLimiter struct {
	limiters sync.Map // ip -> *rate.Limiter
	rate     rate.Limit
	burst    int
}

func NewRateLimiter(requestsPerSecond, burst int) *RateLimiter {
	return &RateLimiter{
		rate:  rate.Limit(requestsPerSecond),
		burst: burst,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	limiter, exists := rl.limiters.Load(key)
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters.Store(key, limiter)
	}
	return limiter.(*rate.Limiter)
}

// Allow checks if a request should be allowed for the given key.
func (rl *RateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).Allow()
}

// Middleware returns an Echo middleware function for rate limiting.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			limiter := rl.getLimiter("ip:" + c.RealIP())

			if !limiter.Allow() {
				c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("Retry-After", "1")
				return c.NoContent(http.StatusTooManyRequests)
			}

			c.Response().Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))
			c.Response().Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", int(limiter.Tokens())))

			return next(c)
		}
	}
}
