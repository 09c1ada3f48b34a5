package classifier

import (
	"fmt"
	"sort"

	model "ekklesia_backend/internals/features/quality/model"
)

// Classifier maps an attendance percentage to a quality tier.
// Thresholds are inclusive lower bounds; the highest tier whose threshold
// the percentage meets wins. Pure and side-effect free once built.
type Classifier struct {
	// sorted by rank descending (HIGH first)
	tiers []model.QualityTierModel
}

// New validates the tier table and returns a ready classifier.
// Misconfigured thresholds are a config error: callers should treat a
// non-nil error as fatal at startup.
func New(tiers []model.QualityTierModel) (*Classifier, error) {
	if len(tiers) == 0 {
		return nil, fmt.Errorf("classifier: no quality tiers configured")
	}

	sorted := make([]model.QualityTierModel, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].QualityTierRank > sorted[j].QualityTierRank
	})

	// thresholds must strictly increase with rank
	for i := 1; i < len(sorted); i++ {
		higher, lower := sorted[i-1], sorted[i]
		if higher.QualityTierMinPercentage <= lower.QualityTierMinPercentage {
			return nil, fmt.Errorf(
				"classifier: tier %s (min %.2f) must have a higher threshold than %s (min %.2f)",
				higher.QualityTierCode, higher.QualityTierMinPercentage,
				lower.QualityTierCode, lower.QualityTierMinPercentage,
			)
		}
	}

	return &Classifier{tiers: sorted}, nil
}

// Classify returns the tier for a percentage in [0,100]. Out-of-range
// input is clamped rather than rejected; it signals a caller bug upstream
// but must never break a recalculation.
func (c *Classifier) Classify(percentage float64) model.QualityTierCode {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	for _, t := range c.tiers {
		if percentage >= t.QualityTierMinPercentage {
			return t.QualityTierCode
		}
	}
	// below the lowest threshold
	return c.tiers[len(c.tiers)-1].QualityTierCode
}

// Rank reports the ordering position of a tier code, -1 when unknown.
func (c *Classifier) Rank(code model.QualityTierCode) int {
	for _, t := range c.tiers {
		if t.QualityTierCode == code {
			return t.QualityTierRank
		}
	}
	return -1
}
