package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"riskdesk/internal/adapters/scoring"
	"riskdesk/internal/config"
	"riskdesk/internal/core/domain"
	"riskdesk/internal/pkg/jwt"

	"github.com/google/uuid"
)

// Auth messages shown on the login page
const (
	MsgMissingCredentials = "Please enter both username and password."
	MsgInvalidCredentials = "Invalid username or password"
	MsgIncompleteLogin    = "Login response did not include a token and role"
)

// AuthService handles login, logout and session resolution
type AuthService struct {
	gateway  ScoringGateway
	sessions Sessions
	fetches  *FetchTracker
	cfg      *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(gateway ScoringGateway, sessions Sessions, fetches *FetchTracker, cfg *config.Config) *AuthService {
	return &AuthService{
		gateway:  gateway,
		sessions: sessions,
		fetches:  fetches,
		cfg:      cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// AuthResponse represents a successful login
type AuthResponse struct {
	SessionID string          `json:"-"`
	Cookie    string          `json:"-"`
	Session   *domain.Session `json:"-"`
}

// Login authenticates against the scoring service and opens a new client session.
// On any failure the existing session state is left untouched.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	username := strings.TrimSpace(input.Username)

	// 1. Validate input locally, nothing is sent on failure
	if username == "" || strings.TrimSpace(input.Password) == "" {
		return nil, scoring.Validation(MsgMissingCredentials)
	}

	// 2. Exchange credentials for a bearer token
	result, err := s.gateway.Login(ctx, username, input.Password)
	if err != nil {
		var apiErr *scoring.APIError
		if errors.As(err, &apiErr) && apiErr.Kind == scoring.KindUnauthorized {
			return nil, &scoring.APIError{Kind: scoring.KindRequestFailed, Status: apiErr.Status, Message: MsgInvalidCredentials, Err: domain.ErrInvalidCredentials}
		}
		return nil, err
	}

	// 3. Both token and role are required
	role := domain.ParseRole(result.Role)
	if result.AccessToken == "" || role == "" {
		return nil, &scoring.APIError{Kind: scoring.KindRequestFailed, Message: MsgIncompleteLogin}
	}

	// 4. Open a new client session, expiring with the cookie or the upstream
	// token, whichever comes first
	expiresAt := jwt.GetExpiryTime(s.cfg.Session.Days).UTC()
	if upstream := jwt.PeekExpiry(result.AccessToken); upstream != nil && upstream.Before(expiresAt) {
		expiresAt = *upstream
	}

	sid := uuid.NewString()
	session := &domain.Session{
		Token:     result.AccessToken,
		Role:      role,
		Username:  username,
		ExpiresAt: &expiresAt,
	}
	if err := s.sessions.Set(ctx, sid, session); err != nil {
		return nil, err
	}

	// 5. Sign the cookie carrying the session id
	cookie, err := jwt.GenerateSessionToken(sid, s.cfg.Session.Secret, s.cfg.Session.Days)
	if err != nil {
		_ = s.sessions.Clear(ctx, sid)
		return nil, err
	}

	log.Printf("✅ User logged in: %s (%s)", username, role)

	return &AuthResponse{
		SessionID: sid,
		Cookie:    cookie,
		Session:   session,
	}, nil
}

// Logout clears the client session. Logging out twice is not an error.
func (s *AuthService) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	s.fetches.Forget(sid)
	return s.sessions.Clear(ctx, sid)
}

// Resolve maps a session cookie to its client session id and session.
// A missing, tampered or expired cookie resolves to no session.
func (s *AuthService) Resolve(ctx context.Context, cookie string) (string, *domain.Session, error) {
	if cookie == "" {
		return "", nil, nil
	}

	claims, err := jwt.ValidateSessionToken(cookie, s.cfg.Session.Secret)
	if err != nil {
		return "", nil, nil
	}

	session, err := s.sessions.Load(ctx, claims.SessionID)
	if err != nil {
		return "", nil, err
	}
	return claims.SessionID, session, nil
}
