package model

import "time"

// MerchantPattern maps a merchant token, and its alternate spellings, to a category and label.
type MerchantPattern struct {
	CreatedAt         time.Time `json:"-"`
	Pattern           string    `json:"pattern"`
	Category          string    `json:"category"`
	Label             string    `json:"label"`
	AlternatePatterns []string  `json:"alternatePatterns,omitempty"`
	ID                int64     `json:"id,omitempty"`
}

// KeywordGroup holds the keywords that resolve to one category and label.
type KeywordGroup struct {
	Category string   `json:"category"`
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

// Keyword is a single stored keyword row.
type Keyword struct {
	CreatedAt time.Time
	Keyword   string
	Category  string
	Label     string
	ID        int64
}
