package services

import (
	"cmp"
	"strconv"
	"strings"

	"riskdesk/internal/core/domain"
	"riskdesk/internal/core/listview"
)

func borrowerID(r domain.BorrowerRecord) string     { return strconv.Itoa(r.BorrowerID) }
func missedEMICount(r domain.BorrowerRecord) string { return strconv.Itoa(r.MissedEMICount) }
func maxDelayDays(r domain.BorrowerRecord) string   { return strconv.Itoa(r.MaxDelayDays) }

// compareProbability orders missing probabilities lowest
func compareProbability(a, b domain.BorrowerRecord) int {
	switch {
	case a.Probability == nil && b.Probability == nil:
		return 0
	case a.Probability == nil:
		return -1
	case b.Probability == nil:
		return 1
	}
	return cmp.Compare(*a.Probability, *b.Probability)
}

var (
	byBorrowerID     = listview.Ordered(func(r domain.BorrowerRecord) int { return r.BorrowerID })
	byMissedEMICount = listview.Ordered(func(r domain.BorrowerRecord) int { return r.MissedEMICount })
	byMaxDelayDays   = listview.Ordered(func(r domain.BorrowerRecord) int { return r.MaxDelayDays })
	byEMIIncomeRatio = listview.Ordered(func(r domain.BorrowerRecord) float64 { return r.EMIIncomeRatio })
)

// TopRiskySchema searches by borrower id and risk tier, sorted by probability
var TopRiskySchema = listview.Schema[domain.BorrowerRecord]{
	Fields: []listview.Field[domain.BorrowerRecord]{
		{Key: "prob", Compare: compareProbability},
		{Key: "borrower_id", Text: borrowerID, Compare: byBorrowerID},
		{Key: "risk", Text: func(r domain.BorrowerRecord) string { return string(r.Risk) }},
		{Key: "missed_emi_count", Compare: byMissedEMICount},
		{Key: "max_delay_days", Compare: byMaxDelayDays},
		{Key: "emi_income_ratio", Compare: byEMIIncomeRatio},
	},
	DefaultSort:      "prob",
	DefaultDirection: listview.Desc,
}

// OfficerQueueSchema searches by borrower id and delinquency counters
var OfficerQueueSchema = listview.Schema[domain.BorrowerRecord]{
	Fields: []listview.Field[domain.BorrowerRecord]{
		{Key: "borrower_id", Text: borrowerID, Compare: byBorrowerID},
		{Key: "missed_emi_count", Text: missedEMICount, Compare: byMissedEMICount},
		{Key: "max_delay_days", Text: maxDelayDays, Compare: byMaxDelayDays},
		{Key: "emi_income_ratio", Compare: byEMIIncomeRatio},
	},
	DefaultSort:      "borrower_id",
	DefaultDirection: listview.Asc,
}

// HistorySchema searches by level, action and timestamp, newest first
var HistorySchema = listview.Schema[domain.HistoryEntry]{
	Fields: []listview.Field[domain.HistoryEntry]{
		{
			Key:  "timestamp",
			Text: func(e domain.HistoryEntry) string { return e.Timestamp },
			Compare: func(a, b domain.HistoryEntry) int {
				return a.Instant().Compare(b.Instant())
			},
		},
		{
			Key:     "risk_score",
			Compare: listview.Ordered(func(e domain.HistoryEntry) float64 { return e.RiskScore }),
		},
		{
			Key:     "risk_level",
			Text:    func(e domain.HistoryEntry) string { return e.RiskLevel },
			Compare: func(a, b domain.HistoryEntry) int { return strings.Compare(a.RiskLevel, b.RiskLevel) },
		},
		{
			Key:     "action",
			Text:    func(e domain.HistoryEntry) string { return e.Action },
			Compare: func(a, b domain.HistoryEntry) int { return strings.Compare(a.Action, b.Action) },
		},
	},
	DefaultSort:      "timestamp",
	DefaultDirection: listview.Desc,
}
