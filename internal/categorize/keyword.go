package categorize

import (
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

// matchKeyword evaluates keyword groups category by category in
// model.CategoryPriority order. Within a category, groups and their keywords are
// tried in table order. Groups whose category is not in the priority list are
// never evaluated.
func matchKeyword(cleaned, compact string, groups []preparedGroup) *model.ClassificationResult {
	if len(groups) == 0 {
		return nil
	}

	for _, category := range model.CategoryPriority {
		for _, pg := range groups {
			g := pg.group
			if g.Category != category {
				continue
			}
			for i, kw := range pg.keywords {
				if !kw.in(cleaned, compact) {
					continue
				}
				return &model.ClassificationResult{
					Category:    g.Category,
					Label:       g.Label,
					Confidence:  KeywordConfidence,
					Tier:        model.TierKeyword,
					MatchReason: fmt.Sprintf("Keyword %q (%s priority)", g.Keywords[i], category),
				}
			}
		}
	}
	return nil
}
