package session

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const sessionIDKey = "session_id"

// Middleware resolves the signed session cookie, minting a new guest
// session when the cookie is absent or invalid. Every request
// downstream of it carries a session ID.
type Middleware struct {
	issuer       *GuestIssuer
	cookieName   string
	cookieTTL    time.Duration
	cookieSecure bool
	logger       *zap.Logger
}

// NewMiddleware constructs the middleware.
func NewMiddleware(issuer *GuestIssuer, cookieName string, cookieTTL time.Duration, cookieSecure bool, logger *zap.Logger) *Middleware {
	return &Middleware{
		issuer:       issuer,
		cookieName:   cookieName,
		cookieTTL:    cookieTTL,
		cookieSecure: cookieSecure,
		logger:       logger,
	}
}

// Handle attaches the session ID to the request context.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if raw := c.Cookies(m.cookieName); raw != "" {
		if sid, err := m.issuer.Parse(raw); err == nil {
			c.Locals(sessionIDKey, sid)
			return c.Next()
		}
		m.logger.Debug("invalid session cookie, reissuing")
	}

	sid, signed, err := m.issuer.Issue()
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    signed,
		Expires:  time.Now().Add(m.cookieTTL),
		HTTPOnly: true,
		Secure:   m.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	c.Locals(sessionIDKey, sid)
	return c.Next()
}

// IDFromContext retrieves the session ID resolved by the middleware.
func IDFromContext(c *fiber.Ctx) string {
	sid, _ := c.Locals(sessionIDKey).(string)
	return sid
}
