package categorize

import (
	"github.com/Veraticus/spice-categorizer/internal/model"
)

// MerchantsFromFeed converts feed merchant rows into merchant patterns, keeping
// feed order. Pattern tokens are upper-cased and whitespace-collapsed; category and
// label are passed through untouched, even when missing.
func MerchantsFromFeed(rows []model.MerchantRow) []model.MerchantPattern {
	merchants := make([]model.MerchantPattern, 0, len(rows))
	for _, row := range rows {
		var alternates []string
		for _, alt := range row.AlternatePatterns {
			alternates = append(alternates, prepareToken(alt).spaced)
		}
		merchants = append(merchants, model.MerchantPattern{
			Pattern:           prepareToken(row.MerchantPattern).spaced,
			AlternatePatterns: alternates,
			Category:          row.Category,
			Label:             row.Label,
		})
	}
	return merchants
}

type groupKey struct {
	category string
	label    string
}

// GroupKeywords folds flat keyword rows into one group per (category, label) pair.
// Groups appear in the order their pair is first seen and keywords keep feed order.
func GroupKeywords(rows []model.KeywordRow) []model.KeywordGroup {
	index := make(map[groupKey]int)
	var groups []model.KeywordGroup

	for _, row := range rows {
		key := groupKey{category: row.Category, label: row.Label}
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, model.KeywordGroup{
				Category: row.Category,
				Label:    row.Label,
			})
		}
		groups[i].Keywords = append(groups[i].Keywords, prepareToken(row.Keyword).spaced)
	}

	return groups
}
