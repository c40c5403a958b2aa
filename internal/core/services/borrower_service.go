package services

import (
	"context"
	"net/url"
	"strconv"

	"riskdesk/internal/core/access"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/core/listview"
)

// BorrowerService handles the top risky and officer queue pages
type BorrowerService struct {
	gateway ScoringGateway
	fetches *FetchTracker
}

// NewBorrowerService creates a new borrower service
func NewBorrowerService(gateway ScoringGateway, fetches *FetchTracker) *BorrowerService {
	return &BorrowerService{gateway: gateway, fetches: fetches}
}

// OfficerCase is one queued borrower with a link to its risk history
type OfficerCase struct {
	domain.BorrowerRecord
	HistoryPath string `json:"history_path"`
}

// OfficerQueueView represents the officer review queue page
type OfficerQueueView struct {
	TotalCases int                          `json:"total_cases"`
	Window     listview.Window[OfficerCase] `json:"-"`
}

// HistoryPath links to the risk history page of a borrower
func HistoryPath(borrowerID int) string {
	return access.RouteHistory + "?" + url.Values{"borrower_id": {strconv.Itoa(borrowerID)}}.Encode()
}

// TopRisky fetches the highest risk borrowers and windows them by st
func (s *BorrowerService) TopRisky(ctx context.Context, sid string, session *domain.Session, st listview.State) (listview.Window[domain.BorrowerRecord], error) {
	rows, err := track(ctx, s.fetches, sid, ResourceTopRisky, func(ctx context.Context) ([]domain.BorrowerRecord, error) {
		return s.gateway.TopRisky(ctx, session.Token)
	})
	if err != nil {
		return listview.Window[domain.BorrowerRecord]{}, err
	}
	return listview.Run(rows, TopRiskySchema, st), nil
}

// NeedOfficer fetches the officer review queue and windows it by st
func (s *BorrowerService) NeedOfficer(ctx context.Context, sid string, session *domain.Session, st listview.State) (*OfficerQueueView, error) {
	queue, err := track(ctx, s.fetches, sid, ResourceNeedOfficer, func(ctx context.Context) (*domain.OfficerQueue, error) {
		return s.gateway.NeedOfficer(ctx, session.Token)
	})
	if err != nil {
		return nil, err
	}
	window := listview.Run(queue.Cases, OfficerQueueSchema, st)
	return &OfficerQueueView{
		TotalCases: queue.TotalCases,
		Window: listview.MapRows(window, func(r domain.BorrowerRecord) OfficerCase {
			return OfficerCase{BorrowerRecord: r, HistoryPath: HistoryPath(r.BorrowerID)}
		}),
	}, nil
}
