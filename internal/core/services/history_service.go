package services

import (
	"context"
	"strconv"
	"strings"

	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/core/listview"
)

// History messages
const (
	MsgMissingBorrowerID = "Please enter a borrower ID."
	MsgInvalidBorrowerID = "Borrower ID must be a whole number."
)

// HistoryService handles the borrower risk history page
type HistoryService struct {
	gateway ScoringGateway
	fetches *FetchTracker
}

// NewHistoryService creates a new history service
func NewHistoryService(gateway ScoringGateway, fetches *FetchTracker) *HistoryService {
	return &HistoryService{gateway: gateway, fetches: fetches}
}

// HistoryQuery is the borrower lookup of one history page request
type HistoryQuery struct {
	// Present is false when no borrower_id parameter was sent at all
	Present    bool
	BorrowerID string
	State      listview.State
}

// HistoryView represents the history page
type HistoryView struct {
	Searched   bool                                 `json:"searched"`
	BorrowerID int                                  `json:"borrower_id,omitempty"`
	Message    string                               `json:"message,omitempty"`
	Window     listview.Window[domain.HistoryEntry] `json:"-"`
}

// ParseBorrowerID validates the borrower id typed by the user
func ParseBorrowerID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, scoring.Validation(MsgMissingBorrowerID)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, scoring.Validation(MsgInvalidBorrowerID)
	}
	return id, nil
}

// History looks up a borrower's risk history. Without a borrower id
// parameter the page is returned empty and nothing is fetched.
func (s *HistoryService) History(ctx context.Context, sid string, session *domain.Session, q HistoryQuery) (*HistoryView, error) {
	if !q.Present {
		return &HistoryView{
			Window: listview.Run([]domain.HistoryEntry{}, HistorySchema, q.State),
		}, nil
	}

	id, err := ParseBorrowerID(q.BorrowerID)
	if err != nil {
		return nil, err
	}

	history, err := track(ctx, s.fetches, sid, ResourceHistory, func(ctx context.Context) (*domain.BorrowerHistory, error) {
		return s.gateway.RiskHistory(ctx, session.Token, id)
	})
	if err != nil {
		return nil, err
	}

	entries := history.Entries
	if history.Message != "" {
		entries = []domain.HistoryEntry{}
	}

	return &HistoryView{
		Searched:   true,
		BorrowerID: history.BorrowerID,
		Message:    history.Message,
		Window:     listview.Run(entries, HistorySchema, q.State),
	}, nil
}
