package categorize

import (
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// matchMerchant returns the first merchant whose primary pattern, or failing that
// one of its alternates, occurs in the description. No specificity scoring: table
// order decides.
func matchMerchant(cleaned, compact string, merchants []preparedMerchant) *model.ClassificationResult {
	for _, pm := range merchants {
		m := pm.merchant
		if pm.primary.in(cleaned, compact) {
			return merchantResult(m, fmt.Sprintf("Merchant pattern %q", m.Pattern))
		}
		for i, alt := range pm.alternates {
			if alt.in(cleaned, compact) {
				return merchantResult(m, fmt.Sprintf("Merchant alternate %q for %q", m.AlternatePatterns[i], m.Pattern))
			}
		}
	}
	return nil
}

func merchantResult(m model.MerchantPattern, reason string) *model.ClassificationResult {
	return &model.ClassificationResult{
		Category:    m.Category,
		Label:       m.Label,
		Confidence:  MerchantConfidence,
		Tier:        model.TierMerchant,
		MatchReason: reason,
	}
}
