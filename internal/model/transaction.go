package model

import "github.com/shopspring/decimal"

// CandidateTransaction is a raw transaction waiting to be categorized.
type CandidateTransaction struct {
	ID          string          `json:"id,omitempty"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}
