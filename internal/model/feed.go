package model

// PatternFeed is the wire format served by the pattern store.
type PatternFeed struct {
	Keywords  []KeywordRow  `json:"keywords"`
	Merchants []MerchantRow `json:"merchants"`
}

// KeywordRow is one flat keyword entry in the feed.
type KeywordRow struct {
	Keyword  string `json:"keyword"`
	Category string `json:"category"`
	Label    string `json:"label"`
}

// MerchantRow is one merchant entry in the feed.
type MerchantRow struct {
	MerchantPattern   string   `json:"merchant_pattern"`
	Category          string   `json:"category"`
	Label             string   `json:"label"`
	AlternatePatterns []string `json:"alternate_patterns"`
}
