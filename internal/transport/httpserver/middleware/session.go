package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"book-discovery-service/internal/app/service"
)

const sessionLocalKey = "session"

// SessionConfig configures the visitor session cookie.
type SessionConfig struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Session attaches the visitor's search session, creating one and setting
// the cookie when the request carries no live session id.
func Session(registry *service.SessionRegistry, cfg SessionConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, created := registry.Acquire(c.Cookies(cfg.CookieName))
		if created {
			c.Cookie(&fiber.Cookie{
				Name:     cfg.CookieName,
				Value:    sess.ID,
				Path:     "/",
				MaxAge:   int(cfg.MaxAge.Seconds()),
				Secure:   cfg.Secure,
				HTTPOnly: true,
				SameSite: fiber.CookieSameSiteLaxMode,
			})
		}

		c.Locals(sessionLocalKey, sess)

		return c.Next()
	}
}

// SessionFrom returns the session attached by Session, nil if none.
func SessionFrom(c *fiber.Ctx) *service.Session {
	sess, _ := c.Locals(sessionLocalKey).(*service.Session)
	return sess
}
