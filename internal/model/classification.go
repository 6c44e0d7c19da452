// Package model defines the core data structures shared by the categorization engine,
// its pattern store and its transports.
package model

// MatchTier identifies which stage of the engine produced a result.
type MatchTier string

// Match tiers, highest priority first.
const (
	TierLearned  MatchTier = "learned"
	TierMerchant MatchTier = "merchant"
	TierKeyword  MatchTier = "keyword"
	TierNone     MatchTier = "none"
)

// ClassificationResult is the engine's answer for one description.
type ClassificationResult struct {
	ID          string    `json:"id,omitempty"`
	Category    string    `json:"category"`
	Label       string    `json:"label"`
	MatchReason string    `json:"matchReason,omitempty"`
	Tier        MatchTier `json:"tier"`
	Confidence  int       `json:"confidence"`
}

// IsUncategorised reports whether no pattern matched.
func (r ClassificationResult) IsUncategorised() bool {
	return r.Tier == TierNone
}
