package services

import (
	"context"

	"riskdesk/internal/core/domain"
)

// ScoringGateway defines the scoring service calls used by page services
type ScoringGateway interface {
	Login(ctx context.Context, username, password string) (*domain.LoginResult, error)
	Analytics(ctx context.Context, token string) (*domain.AnalyticsSummary, error)
	TopRisky(ctx context.Context, token string) ([]domain.BorrowerRecord, error)
	NeedOfficer(ctx context.Context, token string) (*domain.OfficerQueue, error)
	RiskHistory(ctx context.Context, token string, borrowerID int) (*domain.BorrowerHistory, error)
	Health(ctx context.Context) (*domain.ScoringHealth, error)
}

// Sessions defines the session store operations used outside of this package
type Sessions interface {
	Load(ctx context.Context, sid string) (*domain.Session, error)
	Set(ctx context.Context, sid string, session *domain.Session) error
	Clear(ctx context.Context, sid string) error
}
