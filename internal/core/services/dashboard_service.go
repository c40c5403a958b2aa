package services

import (
	"context"
	"math"

	"riskdesk/internal/core/access"
	"riskdesk/internal/core/domain"
)

// DashboardService handles the home and analytics pages
type DashboardService struct {
	gateway ScoringGateway
	fetches *FetchTracker
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(gateway ScoringGateway, fetches *FetchTracker) *DashboardService {
	return &DashboardService{gateway: gateway, fetches: fetches}
}

// ============================================================
// Home
// ============================================================

// QuickAction is a shortcut card on the home page
type QuickAction struct {
	Path        string `json:"path"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// HomeView represents the home page
type HomeView struct {
	Headline     string        `json:"headline"`
	Tagline      string        `json:"tagline"`
	QuickActions []QuickAction `json:"quick_actions"`
}

var quickActions = []QuickAction{
	{Path: access.RouteAnalytics, Title: "View Analytics", Description: "See overall risk distribution and model confidence."},
	{Path: access.RouteTopRisky, Title: "Top Risky Borrowers", Description: "Identify customers with highest probability of default."},
	{Path: access.RouteNeedOfficer, Title: "Need Officer Review", Description: "Borrowers requiring manual intervention."},
	{Path: access.RouteHistory, Title: "Risk History", Description: "Track borrower risk across time."},
}

// Home returns the home page; shortcuts the role cannot open are left out
func (s *DashboardService) Home(session *domain.Session) *HomeView {
	actions := make([]QuickAction, 0, len(quickActions))
	for _, a := range quickActions {
		if access.CanAccess(session, a.Path).Allow {
			actions = append(actions, a)
		}
	}
	return &HomeView{
		Headline:     "Loan Risk AI System",
		Tagline:      "Intelligent credit risk prediction platform for banks & financial institutions.",
		QuickActions: actions,
	}
}

// ============================================================
// Analytics
// ============================================================

// TierShare is one slice of the risk distribution
type TierShare struct {
	Tier       domain.RiskTier `json:"tier"`
	Count      int             `json:"count"`
	Percentage float64         `json:"percentage"`
}

// AnalyticsView represents the analytics page
type AnalyticsView struct {
	TotalCustomers    int         `json:"total_customers"`
	AverageConfidence float64     `json:"average_confidence"`
	ConfidenceGauge   float64     `json:"confidence_gauge"`
	Distribution      []TierShare `json:"distribution"`
}

// Analytics fetches the portfolio summary
func (s *DashboardService) Analytics(ctx context.Context, sid string, session *domain.Session) (*AnalyticsView, error) {
	summary, err := track(ctx, s.fetches, sid, ResourceAnalytics, func(ctx context.Context) (*domain.AnalyticsSummary, error) {
		return s.gateway.Analytics(ctx, session.Token)
	})
	if err != nil {
		return nil, err
	}
	return NewAnalyticsView(summary), nil
}

// NewAnalyticsView orders the distribution HIGH, MEDIUM, LOW and omits tiers
// the summary does not report
func NewAnalyticsView(summary *domain.AnalyticsSummary) *AnalyticsView {
	view := &AnalyticsView{
		TotalCustomers:    summary.TotalCustomers,
		AverageConfidence: summary.AverageConfidence,
		ConfidenceGauge:   math.Round(summary.AverageConfidence*1000) / 10,
		Distribution:      make([]TierShare, 0, len(domain.RiskOrder)),
	}
	for _, tier := range domain.RiskOrder {
		count, ok := summary.SummaryCounts[tier]
		if !ok {
			continue
		}
		view.Distribution = append(view.Distribution, TierShare{
			Tier:       tier,
			Count:      count,
			Percentage: summary.Percentage[tier],
		})
	}
	return view
}

// ScoringHealth reports the health of the scoring service
func (s *DashboardService) ScoringHealth(ctx context.Context) (*domain.ScoringHealth, error) {
	return s.gateway.Health(ctx)
}
