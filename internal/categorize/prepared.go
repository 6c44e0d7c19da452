package categorize

import "github.com/Veraticus/spice-categorizer/internal/model"

// preparedMerchant is a merchant with its tokens normalized for matching.
type preparedMerchant struct {
	merchant   model.MerchantPattern
	primary    token
	alternates []token
}

// preparedGroup is a keyword group with its keywords normalized for matching.
type preparedGroup struct {
	group    model.KeywordGroup
	keywords []token
}

// preparedLearned is a learned pattern with its fragment normalized for matching.
type preparedLearned struct {
	pattern  model.LearnedPattern
	fragment token
}

func prepareMerchants(merchants []model.MerchantPattern) []preparedMerchant {
	out := make([]preparedMerchant, len(merchants))
	for i, m := range merchants {
		alternates := make([]token, len(m.AlternatePatterns))
		for j, alt := range m.AlternatePatterns {
			alternates[j] = prepareToken(alt)
		}
		out[i] = preparedMerchant{merchant: m, primary: prepareToken(m.Pattern), alternates: alternates}
	}
	return out
}

func prepareGroups(groups []model.KeywordGroup) []preparedGroup {
	out := make([]preparedGroup, len(groups))
	for i, g := range groups {
		keywords := make([]token, len(g.Keywords))
		for j, kw := range g.Keywords {
			keywords[j] = prepareToken(kw)
		}
		out[i] = preparedGroup{group: g, keywords: keywords}
	}
	return out
}

func prepareLearned(learned []model.LearnedPattern) []preparedLearned {
	out := make([]preparedLearned, len(learned))
	for i, lp := range learned {
		out[i] = preparedLearned{pattern: lp, fragment: prepareToken(lp.DescriptionPattern)}
	}
	return out
}
