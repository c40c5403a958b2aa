package handlers

import (
	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/config"
	"riskdesk/internal/core/access"
	"riskdesk/internal/core/services"
	"riskdesk/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles login and logout
type AuthHandler struct {
	pageSupport
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		pageSupport: pageSupport{authService: authService, cfg: cfg},
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// LoginPage returns the login page shell
// @Summary Login page
// @Description Returns the login page; logged in clients are redirected to /
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to /"
// @Router /login [get]
func (h *AuthHandler) LoginPage(c *fiber.Ctx) error {
	return h.render(c, nil)
}

// Login handles user login
// @Summary Login user
// @Description Authenticate against the scoring service and open a client session
// @Tags Auth
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 303 "Redirect to /"
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, scoring.Validation("Invalid request body"))
	}

	result, err := h.authService.Login(c.UserContext(), &services.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		return h.fail(c, err)
	}

	h.setSessionCookie(c, result.Cookie)
	return c.Redirect(access.RouteHome, fiber.StatusSeeOther)
}

// Logout clears the client session
// @Summary Logout user
// @Description Clear the client session and its cookie
// @Tags Auth
// @Produce json
// @Success 303 "Redirect to /login"
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid, _, err := h.authService.Resolve(c.UserContext(), c.Cookies(h.cfg.Cookie.Name))
	if err != nil {
		return err
	}

	if err := h.authService.Logout(c.UserContext(), sid); err != nil {
		return response.InternalServerError(c, "Failed to logout")
	}

	h.clearSessionCookie(c)
	return c.Redirect(access.RouteLogin, fiber.StatusSeeOther)
}
