package scoring

import "lead-router/models"

// Classification thresholds.
const (
	PotentialThreshold     = 85
	SemiPotentialThreshold = 50
)

// Classify maps a score to a lead tier.
func Classify(score int) models.Tier {
	switch {
	case score >= PotentialThreshold:
		return models.TierPotential
	case score >= SemiPotentialThreshold:
		return models.TierSemiPotential
	default:
		return models.TierInformational
	}
}

// Evaluate scores the answers and classifies the result.
func Evaluate(a models.Answers) (int, models.Tier) {
	s := Score(a)
	return s, Classify(s)
}
