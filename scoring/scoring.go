// Package scoring turns questionnaire answers into a score and a lead tier.
package scoring

import "lead-router/models"

// Weights per factor. Adverse risk deliberately scores above normal risk.
const (
	DecisionHigh = 35
	DecisionLow  = 8
	CapitalHigh  = 25
	CapitalLow   = 8
	UrgencyHigh  = 25
	UrgencyLow   = 8
	RiskNormal   = 25
	RiskAdverse  = 35
)

// Score bounds reachable through Score.
const (
	MinScore = DecisionLow + CapitalLow + UrgencyLow + RiskNormal
	MaxScore = DecisionHigh + CapitalHigh + UrgencyHigh + RiskAdverse
)

// Score sums the four independent sub-scores. It is total: any unrecognised
// enum value lands on the low branch of its factor.
func Score(a models.Answers) int {
	return decisionScore(a) + capitalScore(a.Capital) + urgencyScore(a.Urgency) + riskScore(a.Risk)
}

func decisionScore(a models.Answers) int {
	if a.MaritalStatus == models.MaritalSingle {
		return DecisionHigh
	}
	if a.PartnerDecides {
		return DecisionHigh
	}
	return DecisionLow
}

func capitalScore(c models.CapitalType) int {
	if c == models.CapitalBankAccount {
		return CapitalHigh
	}
	return CapitalLow
}

func urgencyScore(u models.Urgency) int {
	if u == models.UrgencyCanWait {
		return UrgencyHigh
	}
	return UrgencyLow
}

// riskScore: the low branch for risk is the normal weight.
func riskScore(r models.Risk) int {
	if r == models.RiskLoss {
		return RiskAdverse
	}
	return RiskNormal
}
