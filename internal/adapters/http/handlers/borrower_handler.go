package handlers

import (
	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/config"
	"riskdesk/internal/core/services"
	"riskdesk/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

// BorrowerHandler handles the top risky and officer queue pages
type BorrowerHandler struct {
	pageSupport
	borrowerService *services.BorrowerService
}

// NewBorrowerHandler creates a new borrower handler
func NewBorrowerHandler(borrowerService *services.BorrowerService, authService *services.AuthService, cfg *config.Config) *BorrowerHandler {
	return &BorrowerHandler{
		pageSupport:     pageSupport{authService: authService, cfg: cfg},
		borrowerService: borrowerService,
	}
}

// OfficerQueueResponse is the officer queue page view
type OfficerQueueResponse struct {
	TotalCases int `json:"total_cases"`
	*pagination.Response
}

// TopRisky returns the top risky borrowers page
// @Summary Top risky borrowers
// @Description Highest risk borrowers with search, sort and pagination
// @Tags Borrowers
// @Produce json
// @Param q query string false "Search borrower id or risk"
// @Param sort query string false "prob, borrower_id, missed_emi_count, max_delay_days, emi_income_ratio"
// @Param dir query string false "asc or desc"
// @Param page_size query int false "5, 10 or 20"
// @Param page query int false "Page number"
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to /login"
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /toprisky [get]
func (h *BorrowerHandler) TopRisky(c *fiber.Ctx) error {
	sid, session := middleware.SessionFrom(c)
	st := pagination.GetState(c, services.TopRiskySchema.Defaults())

	window, err := h.borrowerService.TopRisky(c.UserContext(), sid, session, st)
	if err != nil {
		return h.fail(c, err)
	}

	return h.render(c, pagination.NewResponse(window, services.TopRiskySchema.SortKeys()))
}

// NeedOfficer returns the officer review queue page
// @Summary Officer review queue
// @Description Borrowers flagged for manual review with search, sort and pagination
// @Tags Borrowers
// @Produce json
// @Param q query string false "Search borrower id, missed EMI count or max delay days"
// @Param sort query string false "borrower_id, missed_emi_count, max_delay_days, emi_income_ratio"
// @Param dir query string false "asc or desc"
// @Param page_size query int false "5, 10 or 20"
// @Param page query int false "Page number"
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to /login"
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /need-officer [get]
func (h *BorrowerHandler) NeedOfficer(c *fiber.Ctx) error {
	sid, session := middleware.SessionFrom(c)
	st := pagination.GetState(c, services.OfficerQueueSchema.Defaults())

	view, err := h.borrowerService.NeedOfficer(c.UserContext(), sid, session, st)
	if err != nil {
		return h.fail(c, err)
	}

	return h.render(c, OfficerQueueResponse{
		TotalCases: view.TotalCases,
		Response:   pagination.NewResponse(view.Window, services.OfficerQueueSchema.SortKeys()),
	})
}
