package domain

import (
	"strings"
	"time"
)

// Role represents the dashboard role granted by the scoring service
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleOfficer Role = "OFFICER"
	RoleUnknown Role = "UNKNOWN"
)

// ParseRole normalizes a raw role string. Empty input stays empty so callers can
// tell a missing role apart from an unrecognized one.
func ParseRole(raw string) Role {
	role := strings.ToUpper(strings.TrimSpace(raw))
	switch Role(role) {
	case "":
		return ""
	case RoleAdmin, RoleOfficer:
		return Role(role)
	default:
		return RoleUnknown
	}
}

// IsAdmin reports whether the role is ADMIN
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// Session is the authenticated state of one dashboard client.
// A Session is either complete (token and role set) or absent (nil).
type Session struct {
	Token     string
	Role      Role
	Username  string
	ExpiresAt *time.Time
}

// Complete reports whether both token and role are present
func (s *Session) Complete() bool {
	return s != nil && s.Token != "" && s.Role != ""
}

// Expired reports whether the session is past its expiry at now
func (s *Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// RiskTier is the categorical output of the scoring model
type RiskTier string

const (
	RiskHigh   RiskTier = "HIGH"
	RiskMedium RiskTier = "MEDIUM"
	RiskLow    RiskTier = "LOW"
)

// RiskOrder is the display order of risk tiers
var RiskOrder = []RiskTier{RiskHigh, RiskMedium, RiskLow}

// BorrowerRecord is a row of the top-risky list or the officer queue
type BorrowerRecord struct {
	BorrowerID     int      `json:"borrower_id"`
	Risk           RiskTier `json:"risk,omitempty"`
	Probability    *float64 `json:"prob,omitempty"`
	MissedEMICount int      `json:"missed_emi_count"`
	MaxDelayDays   int      `json:"max_delay_days"`
	EMIIncomeRatio float64  `json:"emi_income_ratio"`
}

// HistoryEntry is one scoring outcome recorded for a borrower
type HistoryEntry struct {
	RiskLevel string  `json:"risk_level"`
	RiskScore float64 `json:"risk_score"`
	Action    string  `json:"action"`
	Timestamp string  `json:"timestamp"`
	Source    string  `json:"source,omitempty"`
}

var historyTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Instant parses the entry timestamp. Unparseable timestamps yield the zero time.
func (e HistoryEntry) Instant() time.Time {
	raw := strings.TrimSpace(e.Timestamp)
	for _, layout := range historyTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// BorrowerHistory is the risk history of a single borrower.
// Message is set instead of Entries when the scoring service has nothing on record.
type BorrowerHistory struct {
	BorrowerID int            `json:"borrower_id"`
	Entries    []HistoryEntry `json:"history"`
	Message    string         `json:"message,omitempty"`
}

// OfficerQueue is the set of borrowers flagged for manual review
type OfficerQueue struct {
	Cases      []BorrowerRecord `json:"cases"`
	TotalCases int              `json:"total_cases"`
}

// AnalyticsSummary is the portfolio-wide risk breakdown
type AnalyticsSummary struct {
	TotalCustomers    int                  `json:"total_customers"`
	SummaryCounts     map[RiskTier]int     `json:"summary_counts"`
	Percentage        map[RiskTier]float64 `json:"percentage"`
	AverageConfidence float64              `json:"average_confidence"`
}

// ScoringHealth is the health report of the scoring service
type ScoringHealth struct {
	Status      string `json:"status"`
	ModelLoaded bool   `json:"model_loaded"`
	Timestamp   string `json:"timestamp"`
}

// LoginResult is what the scoring service returns on a successful login
type LoginResult struct {
	AccessToken string
	TokenType   string
	Role        string
}
