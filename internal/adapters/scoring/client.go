package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"riskdesk/internal/core/domain"
)

// flexInt accepts integers serialized as whole floats (12.0)
type flexInt int

func (n *flexInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("expected integer, got %v", f)
	}
	// float64(math.MaxInt) rounds up to 2^63, which is itself out of range
	if f < math.MinInt || f >= math.MaxInt {
		return fmt.Errorf("integer out of range: %v", f)
	}
	*n = flexInt(f)
	return nil
}

type borrowerDTO struct {
	BorrowerID     flexInt  `json:"borrower_id"`
	Risk           string   `json:"risk"`
	Prob           *float64 `json:"prob"`
	MissedEMICount flexInt  `json:"missed_emi_count"`
	MaxDelayDays   flexInt  `json:"max_delay_days"`
	EMIIncomeRatio float64  `json:"emi_income_ratio"`
}

func (d borrowerDTO) toDomain() domain.BorrowerRecord {
	return domain.BorrowerRecord{
		BorrowerID:     int(d.BorrowerID),
		Risk:           domain.RiskTier(d.Risk),
		Probability:    d.Prob,
		MissedEMICount: int(d.MissedEMICount),
		MaxDelayDays:   int(d.MaxDelayDays),
		EMIIncomeRatio: d.EMIIncomeRatio,
	}
}

func toRecords(dtos []borrowerDTO) []domain.BorrowerRecord {
	records := make([]domain.BorrowerRecord, 0, len(dtos))
	for _, d := range dtos {
		records = append(records, d.toDomain())
	}
	return records
}

type loginDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Role        string `json:"role"`
}

type officerQueueDTO struct {
	TotalCases flexInt       `json:"total_cases"`
	Cases      []borrowerDTO `json:"cases"`
}

type analyticsDTO struct {
	TotalCustomers    flexInt            `json:"total_customers"`
	SummaryCounts     map[string]flexInt `json:"summary_counts"`
	Percentage        map[string]float64 `json:"percentage"`
	AverageConfidence float64            `json:"average_confidence"`
}

type historyDTO struct {
	BorrowerID flexInt               `json:"borrower_id"`
	History    []domain.HistoryEntry `json:"history"`
	Message    string                `json:"message"`
}

// Login exchanges credentials for a bearer token. The body is form encoded.
func (g *Gateway) Login(ctx context.Context, username, password string) (*domain.LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	raw, err := g.Do(ctx, "/login", Request{Method: http.MethodPost, Form: form, Public: true})
	if err != nil {
		return nil, err
	}

	var dto loginDTO
	if err := decode(raw, &dto); err != nil {
		return nil, err
	}
	return &domain.LoginResult{
		AccessToken: dto.AccessToken,
		TokenType:   dto.TokenType,
		Role:        dto.Role,
	}, nil
}

// Analytics returns the portfolio risk summary
func (g *Gateway) Analytics(ctx context.Context, token string) (*domain.AnalyticsSummary, error) {
	raw, err := g.Do(ctx, "/analytics", Request{Token: token})
	if err != nil {
		return nil, err
	}

	var dto analyticsDTO
	if err := decode(raw, &dto); err != nil {
		return nil, err
	}

	summary := &domain.AnalyticsSummary{
		TotalCustomers:    int(dto.TotalCustomers),
		SummaryCounts:     make(map[domain.RiskTier]int, len(dto.SummaryCounts)),
		Percentage:        make(map[domain.RiskTier]float64, len(dto.Percentage)),
		AverageConfidence: dto.AverageConfidence,
	}
	for tier, count := range dto.SummaryCounts {
		summary.SummaryCounts[domain.RiskTier(tier)] = int(count)
	}
	for tier, pct := range dto.Percentage {
		summary.Percentage[domain.RiskTier(tier)] = pct
	}
	return summary, nil
}

// TopRisky returns the highest risk borrowers
func (g *Gateway) TopRisky(ctx context.Context, token string) ([]domain.BorrowerRecord, error) {
	raw, err := g.Do(ctx, "/top_risky", Request{Token: token})
	if err != nil {
		return nil, err
	}

	var dtos []borrowerDTO
	if err := decode(raw, &dtos); err != nil {
		return nil, err
	}
	return toRecords(dtos), nil
}

// NeedOfficer returns the borrowers flagged for manual review
func (g *Gateway) NeedOfficer(ctx context.Context, token string) (*domain.OfficerQueue, error) {
	raw, err := g.Do(ctx, "/need_officer", Request{Token: token})
	if err != nil {
		return nil, err
	}

	var dto officerQueueDTO
	if err := decode(raw, &dto); err != nil {
		return nil, err
	}
	return &domain.OfficerQueue{
		Cases:      toRecords(dto.Cases),
		TotalCases: int(dto.TotalCases),
	}, nil
}

// RiskHistory returns the scoring history of one borrower. A history with a
// Message and no entries means nothing is on record.
func (g *Gateway) RiskHistory(ctx context.Context, token string, borrowerID int) (*domain.BorrowerHistory, error) {
	raw, err := g.Do(ctx, "/risk_history/"+strconv.Itoa(borrowerID), Request{Token: token})
	if err != nil {
		return nil, err
	}

	var dto historyDTO
	if err := decode(raw, &dto); err != nil {
		return nil, err
	}

	id := int(dto.BorrowerID)
	if id == 0 {
		id = borrowerID
	}
	entries := dto.History
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	return &domain.BorrowerHistory{
		BorrowerID: id,
		Entries:    entries,
		Message:    dto.Message,
	}, nil
}

// Health returns the scoring service health report
func (g *Gateway) Health(ctx context.Context) (*domain.ScoringHealth, error) {
	raw, err := g.Do(ctx, "/health", Request{Public: true})
	if err != nil {
		return nil, err
	}

	var health domain.ScoringHealth
	if err := decode(raw, &health); err != nil {
		return nil, err
	}
	return &health, nil
}

func decode(raw json.RawMessage, v interface{}) error {
	if err := json.Unmarshal(raw, v); err != nil {
		return &APIError{Kind: KindRequestFailed, Message: "Unexpected response from the scoring service", Err: err}
	}
	return nil
}
