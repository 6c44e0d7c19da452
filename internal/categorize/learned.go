package categorize

import (
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// matchLearned walks the caller's learned patterns in the order given and returns
// the first whose fragment occurs in the description.
func matchLearned(cleaned, compact string, learned []preparedLearned) *model.ClassificationResult {
	for _, l := range learned {
		if !l.fragment.in(cleaned, compact) {
			continue
		}
		lp := l.pattern
		return &model.ClassificationResult{
			Category:    lp.CorrectedCategory,
			Label:       lp.CorrectedLabel,
			Confidence:  LearnedConfidence(lp.Frequency),
			Tier:        model.TierLearned,
			MatchReason: fmt.Sprintf("Learned pattern %q (corrected %d times)", lp.DescriptionPattern, lp.Frequency),
		}
	}
	return nil
}
