package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mahirlabib/pricescope/internal/config"
)

// RateLimit is a fixed-window limiter: INCR on a per-client-per-route key,
// EXPIRE on first hit, reject past the limit. Coarser than a token bucket
// but a single round trip and good enough to keep the OTP endpoints from
// being hammered. Authenticated clients are keyed by user id, anonymous
// ones by IP. A nil client disables the middleware.
func RateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}
	windowSecs := int(cfg.Window.Seconds())
	if windowSecs < 1 {
		windowSecs = 1
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			who := c.RealIP()
			if uid := UserID(c); uid != 0 {
				who = "u" + strconv.FormatUint(uid, 10)
			}
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, who, c.Path())

			ctx := c.Request().Context()
			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis down: let the request through rather than 500.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				c.Response().Header().Set("Retry-After", strconv.Itoa(windowSecs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{"error": "too many requests"})
			}
			return next(c)
		}
	}
}
