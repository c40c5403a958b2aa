package handlers

import (
	"riskdesk/internal/adapters/http/middleware"
	"riskdesk/internal/config"
	"riskdesk/internal/core/services"
	"riskdesk/internal/pkg/pagination"

	"github.com/gofiber/fiber/v2"
)

// HistoryHandler handles the borrower risk history page
type HistoryHandler struct {
	pageSupport
	historyService *services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *services.HistoryService, authService *services.AuthService, cfg *config.Config) *HistoryHandler {
	return &HistoryHandler{
		pageSupport:    pageSupport{authService: authService, cfg: cfg},
		historyService: historyService,
	}
}

// HistoryResponse is the history page view
type HistoryResponse struct {
	Searched   bool   `json:"searched"`
	BorrowerID int    `json:"borrower_id,omitempty"`
	Message    string `json:"message,omitempty"`
	*pagination.Response
}

// History returns a borrower's risk history
// @Summary Borrower risk history
// @Description Historical risk outcomes of one borrower with search, sort and pagination
// @Tags History
// @Produce json
// @Param borrower_id query string false "Borrower ID; omit to open the empty page"
// @Param q query string false "Search risk level, action or timestamp"
// @Param sort query string false "timestamp, risk_score, risk_level, action"
// @Param dir query string false "asc or desc"
// @Param page_size query int false "5, 10 or 20"
// @Param page query int false "Page number"
// @Success 200 {object} response.Response
// @Failure 303 "Redirect to /login"
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 502 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /history [get]
func (h *HistoryHandler) History(c *fiber.Ctx) error {
	sid, session := middleware.SessionFrom(c)

	query := services.HistoryQuery{
		Present:    c.Context().QueryArgs().Has("borrower_id"),
		BorrowerID: c.Query("borrower_id"),
		State:      pagination.GetState(c, services.HistorySchema.Defaults()),
	}

	view, err := h.historyService.History(c.UserContext(), sid, session, query)
	if err != nil {
		return h.fail(c, err)
	}

	return h.render(c, HistoryResponse{
		Searched:   view.Searched,
		BorrowerID: view.BorrowerID,
		Message:    view.Message,
		Response:   pagination.NewResponse(view.Window, services.HistorySchema.SortKeys()),
	})
}
