package middleware

import (
	"riskdesk/internal/config"
	"riskdesk/internal/core/access"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// Locals keys set by AccessGate
const (
	LocalSessionID = "sessionID"
	LocalSession   = "session"
)

// AccessGate re-evaluates the access policy on every request against the
// session currently stored for the request's cookie.
func AccessGate(authService *services.AuthService, cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		// 1. Resolve the client session from the signed cookie
		sid, session, err := authService.Resolve(c.UserContext(), c.Cookies(cfg.Cookie.Name))
		if err != nil {
			return err
		}

		// 2. Allow or redirect
		decision := access.CanAccess(session, c.Path())
		if decision.IsRedirect() {
			return c.Redirect(decision.Target, fiber.StatusSeeOther)
		}

		// 3. Hand the session to the page handler
		c.Locals(LocalSessionID, sid)
		c.Locals(LocalSession, session)

		return c.Next()
	}
}

// SessionFrom returns what AccessGate stored for the request
func SessionFrom(c *fiber.Ctx) (string, *domain.Session) {
	sid, _ := c.Locals(LocalSessionID).(string)
	session, _ := c.Locals(LocalSession).(*domain.Session)
	return sid, session
}
