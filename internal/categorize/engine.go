// Package categorize assigns a category, label and confidence to raw bank
// descriptions. Matching runs in fixed tiers: the user's learned corrections, then
// the merchant table, then keyword groups in category priority order. The first
// hit wins; otherwise the description is Uncategorised.
package categorize

import (
	"context"
	"log/slog"

	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/shopspring/decimal"
)

// NoMatchReason is the match reason of an Uncategorised result.
const NoMatchReason = "No matching pattern found"

// PatternSource supplies pattern snapshots to the engine.
type PatternSource interface {
	Snapshot() *Patterns
	Refresh(ctx context.Context, force bool) error
	Invalidate()
}

var _ PatternSource = (*PatternCache)(nil)

// Engine runs the categorization tiers against a pattern source.
type Engine struct {
	source PatternSource
}

// NewEngine creates an engine reading patterns from source.
func NewEngine(source PatternSource) *Engine {
	return &Engine{source: source}
}

// RefreshPatterns refreshes the pattern source, honoring its TTL unless force is set.
func (e *Engine) RefreshPatterns(ctx context.Context, force bool) error {
	return e.source.Refresh(ctx, force)
}

// InvalidatePatterns drops the cached pattern tables.
func (e *Engine) InvalidatePatterns() {
	e.source.Invalidate()
}

// Patterns returns the snapshot the engine would categorize against right now.
func (e *Engine) Patterns() *Patterns {
	return e.source.Snapshot()
}

// Categorize classifies one description. amount is accepted for callers that
// carry it but does not influence matching.
func (e *Engine) Categorize(description string, _ decimal.Decimal, learned []model.LearnedPattern) model.ClassificationResult {
	return categorizeWith(e.source.Snapshot(), description, prepareLearned(learned))
}

// CategorizeBatch classifies transactions in order against a single snapshot,
// echoing each transaction's ID into its result.
func (e *Engine) CategorizeBatch(txns []model.CandidateTransaction, learned []model.LearnedPattern) []model.ClassificationResult {
	snap := e.source.Snapshot()
	prepared := prepareLearned(learned)
	results := make([]model.ClassificationResult, len(txns))

	uncategorised := 0
	for i, txn := range txns {
		result := categorizeWith(snap, txn.Description, prepared)
		result.ID = txn.ID
		if result.IsUncategorised() {
			uncategorised++
		}
		results[i] = result
	}

	slog.Debug("Batch categorized",
		"transactions", len(txns),
		"uncategorised", uncategorised,
		"patterns_loaded", snap.Loaded())

	return results
}

func categorizeWith(snap *Patterns, description string, learned []preparedLearned) model.ClassificationResult {
	cleaned, compact := Normalize(description)
	merchants, groups := snap.tables()

	if r := matchLearned(cleaned, compact, learned); r != nil {
		return *r
	}
	if r := matchMerchant(cleaned, compact, merchants); r != nil {
		return *r
	}
	if r := matchKeyword(cleaned, compact, groups); r != nil {
		return *r
	}

	return model.ClassificationResult{
		Category:    model.Uncategorised,
		Label:       model.Uncategorised,
		Confidence:  UncategorisedConfidence,
		Tier:        model.TierNone,
		MatchReason: NoMatchReason,
	}
}
