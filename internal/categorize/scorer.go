package categorize

// Confidence per tier. Learned matches get a frequency boost on top of the base.
const (
	LearnedBaseConfidence   = 95
	LearnedMaxBoost         = 10
	LearnedBoostPerUse      = 2
	MerchantConfidence      = 90
	KeywordConfidence       = 85
	UncategorisedConfidence = 0
)

// LearnedConfidence scores a learned match: 95 plus twice the frequency, with the
// boost capped at 10. The result can exceed 100.
func LearnedConfidence(frequency int) int {
	boost := frequency * LearnedBoostPerUse
	if boost > LearnedMaxBoost {
		boost = LearnedMaxBoost
	}
	if boost < 0 {
		boost = 0
	}
	return LearnedBaseConfidence + boost
}

// ClampConfidence bounds a confidence to 0..100 for percentage display.
func ClampConfidence(confidence int) int {
	switch {
	case confidence < 0:
		return 0
	case confidence > 100:
		return 100
	default:
		return confidence
	}
}
