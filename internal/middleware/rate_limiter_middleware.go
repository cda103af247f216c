package middleware

import (
	"time"

	"github.com/fadilmartias/mock-interview/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// limiterStorage is shared by every limiter created after SetLimiterStorage.
// Nil keeps each limiter in process memory.
var limiterStorage fiber.Storage

func SetLimiterStorage(s fiber.Storage) {
	limiterStorage = s
}

// RateLimiter is a sliding-window limiter keyed by route and by the
// authenticated user, falling back to the client IP for anonymous requests.
func RateLimiter(max int, expiration time.Duration) fiber.Handler {
	if max == 0 {
		max = 50
	}
	if expiration == 0 {
		expiration = 1 * time.Minute
	}
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: expiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			scope := c.Route().Path
			if id, ok := UserID(c); ok {
				return scope + "|user:" + id.String()
			}
			return scope + "|ip:" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusTooManyRequests,
				Message: "Too many requests",
			})
		},
		Storage:           limiterStorage,
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}
