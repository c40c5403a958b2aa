package services

import (
	"context"

	"riskdesk/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type mockGateway struct {
	mock.Mock
}

func (m *mockGateway) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	args := m.Called(ctx, username, password)
	res, _ := args.Get(0).(*domain.LoginResult)
	return res, args.Error(1)
}

func (m *mockGateway) Analytics(ctx context.Context, token string) (*domain.AnalyticsSummary, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*domain.AnalyticsSummary)
	return res, args.Error(1)
}

func (m *mockGateway) TopRisky(ctx context.Context, token string) ([]domain.BorrowerRecord, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).([]domain.BorrowerRecord)
	return res, args.Error(1)
}

func (m *mockGateway) NeedOfficer(ctx context.Context, token string) (*domain.OfficerQueue, error) {
	args := m.Called(ctx, token)
	res, _ := args.Get(0).(*domain.OfficerQueue)
	return res, args.Error(1)
}

func (m *mockGateway) RiskHistory(ctx context.Context, token string, borrowerID int) (*domain.BorrowerHistory, error) {
	args := m.Called(ctx, token, borrowerID)
	res, _ := args.Get(0).(*domain.BorrowerHistory)
	return res, args.Error(1)
}

func (m *mockGateway) Health(ctx context.Context) (*domain.ScoringHealth, error) {
	args := m.Called(ctx)
	res, _ := args.Get(0).(*domain.ScoringHealth)
	return res, args.Error(1)
}

type mockSessions struct {
	mock.Mock
}

func (m *mockSessions) Load(ctx context.Context, sid string) (*domain.Session, error) {
	args := m.Called(ctx, sid)
	res, _ := args.Get(0).(*domain.Session)
	return res, args.Error(1)
}

func (m *mockSessions) Set(ctx context.Context, sid string, session *domain.Session) error {
	return m.Called(ctx, sid, session).Error(0)
}

func (m *mockSessions) Clear(ctx context.Context, sid string) error {
	return m.Called(ctx, sid).Error(0)
}

func ptr(f float64) *float64 { return &f }

var adminSession = &domain.Session{Token: "tok", Role: domain.RoleAdmin, Username: "ana"}
var officerSession = &domain.Session{Token: "tok", Role: domain.RoleOfficer, Username: "oli"}
