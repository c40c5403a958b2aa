package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/config"
	"riskdesk/internal/core/access"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/core/services"
	"riskdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// pageSupport holds what every page handler needs to render and to fail
type pageSupport struct {
	authService *services.AuthService
	cfg         *config.Config
}

// render sends a page view model inside its shell
func (p *pageSupport) render(c *fiber.Ctx, view interface{}) error {
	_, session := middleware.SessionFrom(c)
	return response.Success(c, "", services.Page{
		Shell: services.NewShell(session, c.Path()),
		View:  view,
	})
}

// fail maps a page error to its response. Authorization failures drop the
// session and send the client to the login page.
func (p *pageSupport) fail(c *fiber.Ctx, err error) error {
	sid, session := middleware.SessionFrom(c)

	if scoring.IsUnauthorized(err) {
		if logoutErr := p.authService.Logout(context.Background(), sid); logoutErr != nil {
			log.Printf("⚠️ Failed to clear session after authorization failure: %v", logoutErr)
		}
		p.clearSessionCookie(c)
		return c.Redirect(access.RouteLogin, fiber.StatusSeeOther)
	}

	page := services.Page{Shell: services.NewShell(session, c.Path())}

	// Rejected credentials are the client's mistake, not the upstream's
	if errors.Is(err, domain.ErrInvalidCredentials) {
		return response.ErrorWithData(c, fiber.StatusUnauthorized, services.MsgInvalidCredentials, page)
	}

	if errors.Is(err, domain.ErrStaleFetch) {
		return response.ErrorWithData(c, fiber.StatusConflict, err.Error(), page)
	}

	var apiErr *scoring.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case scoring.KindValidation:
			return response.ErrorWithData(c, fiber.StatusBadRequest, apiErr.Message, page)
		case scoring.KindNetworkError:
			return response.ErrorWithData(c, fiber.StatusServiceUnavailable, apiErr.Message, page)
		default:
			return response.ErrorWithData(c, fiber.StatusBadGateway, apiErr.Message, page)
		}
	}

	log.Printf("❌ %s %s: %v", c.Method(), c.Path(), err)
	return response.ErrorWithData(c, fiber.StatusInternalServerError, "Internal Server Error", page)
}

// setSessionCookie stores the signed client session id
func (p *pageSupport) setSessionCookie(c *fiber.Ctx, value string) {
	c.Cookie(&fiber.Cookie{
		Name:     p.cfg.Cookie.Name,
		Value:    value,
		Path:     "/",
		MaxAge:   p.cfg.Session.Days * 24 * 60 * 60, // Convert days to seconds
		Secure:   p.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: p.cfg.Cookie.SameSite,
		Domain:   p.cfg.Cookie.Domain,
	})
}

// clearSessionCookie expires the session cookie
func (p *pageSupport) clearSessionCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     p.cfg.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Now().Add(-1 * time.Hour),
		Secure:   p.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: p.cfg.Cookie.SameSite,
		Domain:   p.cfg.Cookie.Domain,
	})
}
