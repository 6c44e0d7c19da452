package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

var _ categorize.PatternFetcher = (*SQLiteStorage)(nil)

// FetchPatterns renders both pattern tables in the public feed format.
func (s *SQLiteStorage) FetchPatterns(ctx context.Context) (*model.PatternFeed, error) {
	merchants, err := s.ListMerchantPatterns(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load merchants for feed: %w", err)
	}
	keywords, err := s.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load keywords for feed: %w", err)
	}

	feed := &model.PatternFeed{
		Merchants: make([]model.MerchantRow, 0, len(merchants)),
		Keywords:  make([]model.KeywordRow, 0, len(keywords)),
	}
	for _, m := range merchants {
		alternates := m.AlternatePatterns
		if alternates == nil {
			alternates = []string{}
		}
		feed.Merchants = append(feed.Merchants, model.MerchantRow{
			MerchantPattern:   m.Pattern,
			AlternatePatterns: alternates,
			Category:          m.Category,
			Label:             m.Label,
		})
	}
	for _, k := range keywords {
		feed.Keywords = append(feed.Keywords, model.KeywordRow{
			Keyword:  k.Keyword,
			Category: k.Category,
			Label:    k.Label,
		})
	}

	return feed, nil
}
