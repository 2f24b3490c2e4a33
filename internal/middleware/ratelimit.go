package middleware

import (
	"fmt"
	"os"
	"time"

	"driftboard/internal/models"
	"driftboard/internal/observability"
	"driftboard/internal/ratelimit"

	"github.com/gofiber/fiber/v2"
)

// guestMarker is used in rate-limit keys for unauthenticated callers.
const guestMarker = "guest"

// credentialSuffixLen bounds key cardinality while still separating
// authenticated users that share an IP.
const credentialSuffixLen = 16

// RateLimitKey derives the bucket key for one action and caller. It combines
// the action name, the caller's network address and the tail of the auth
// credential (or a guest marker), matching the admission-control contract.
func RateLimitKey(action, ip, authHeader string) string {
	suffix := guestMarker
	if authHeader != "" {
		suffix = authHeader
		if len(suffix) > credentialSuffixLen {
			suffix = suffix[len(suffix)-credentialSuffixLen:]
		}
	}
	return fmt.Sprintf("%s:%s:%s", action, ip, suffix)
}

// RateLimit returns a Fiber middleware enforcing `limit` events per `window`
// for the named action. Rejections carry a typed RATE_LIMITED payload and are
// never retried by the limiter itself.
// Rate limiting is disabled when APP_ENV is "test", "development" or "stress"
// so dev and load test workflows are not throttled.
func RateLimit(l *ratelimit.Limiter, action string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		env := os.Getenv("APP_ENV")
		if env == "" {
			env = "development"
		}
		switch env {
		case "test", "development", "stress":
			return c.Next()
		}

		if l == nil {
			return c.Next()
		}

		key := RateLimitKey(action, c.IP(), c.Get("Authorization"))
		if !l.Allow(key, limit, window) {
			observability.RateLimitRejections.WithLabelValues(action).Inc()
			return models.RespondWithError(c, fiber.StatusTooManyRequests,
				models.NewRateLimitedError(action))
		}
		return c.Next()
	}
}
