package handlers

import (
	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/config"
	"riskdesk/internal/core/services"

	"github.com/gofiber/fiber/v2"
)

// DashboardHandler handles the home and analytics pages
type DashboardHandler struct {
	pageSupport
	dashboardService *services.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *services.DashboardService, authService *services.AuthService, cfg *config.Config) *DashboardHandler {
	return &DashboardHandler{
		pageSupport:      pageSupport{authService: authService, cfg: cfg},
		dashboardService: dashboardService,
	}
}

// Home returns the home page
// @Summary Home page
// @Description Dashboard landing page with the shortcuts the role may open
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to /login"
// @Router / [get]
func (h *DashboardHandler) Home(c *fiber.Ctx) error {
	_, session := middleware.SessionFrom(c)
	return h.render(c, h.dashboardService.Home(session))
}

// Analytics returns the analytics page (ADMIN only)
// @Summary Analytics page
// @Description Portfolio risk distribution and model confidence
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to / or /login"
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /analytics [get]
func (h *DashboardHandler) Analytics(c *fiber.Ctx) error {
	sid, session := middleware.SessionFrom(c)

	view, err := h.dashboardService.Analytics(c.UserContext(), sid, session)
	if err != nil {
		return h.fail(c, err)
	}

	return h.render(c, view)
}
