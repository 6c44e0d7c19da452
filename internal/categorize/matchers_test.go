package categorize

import (
	"testing"

	"github.com/Veraticus/spice-categorizer/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearnedConfidence(t *testing.T) {
	tests := []struct {
		frequency int
		want      int
	}{
		{frequency: 0, want: 95},
		{frequency: 1, want: 97},
		{frequency: 3, want: 101},
		{frequency: 5, want: 105},
		{frequency: 50, want: 105},
		{frequency: -2, want: 95},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LearnedConfidence(tt.frequency), "frequency %d", tt.frequency)
	}
}

func TestClampConfidence(t *testing.T) {
	assert.Equal(t, 100, ClampConfidence(105))
	assert.Equal(t, 90, ClampConfidence(90))
	assert.Equal(t, 0, ClampConfidence(-1))
}

func TestMatchLearned(t *testing.T) {
	learned := []model.LearnedPattern{
		{DescriptionPattern: "shell gas", CorrectedCategory: "Transport", CorrectedLabel: "Car", Frequency: 3},
		{DescriptionPattern: "SHELL", CorrectedCategory: "Bills", CorrectedLabel: "Gas", Frequency: 9},
	}

	t.Run("first match in caller order wins", func(t *testing.T) {
		cleaned, compact := Normalize("SHELL GAS #88")
		got := matchLearned(cleaned, compact, prepareLearned(learned))
		require.NotNil(t, got)
		assert.Equal(t, "Transport", got.Category)
		assert.Equal(t, "Car", got.Label)
		assert.Equal(t, 101, got.Confidence)
		assert.Equal(t, model.TierLearned, got.Tier)
	})

	t.Run("space-insensitive fragment", func(t *testing.T) {
		cleaned, compact := Normalize("SHELLGAS STATION")
		got := matchLearned(cleaned, compact, prepareLearned(learned))
		require.NotNil(t, got)
		assert.Equal(t, "Car", got.Label)
	})

	t.Run("falls through to later pattern", func(t *testing.T) {
		cleaned, compact := Normalize("SHELL CANADA")
		got := matchLearned(cleaned, compact, prepareLearned(learned))
		require.NotNil(t, got)
		assert.Equal(t, "Gas", got.Label)
		assert.Equal(t, 105, got.Confidence)
	})

	t.Run("no patterns", func(t *testing.T) {
		cleaned, compact := Normalize("SHELL GAS")
		assert.Nil(t, matchLearned(cleaned, compact, nil))
	})

	t.Run("no match", func(t *testing.T) {
		cleaned, compact := Normalize("ESSO")
		assert.Nil(t, matchLearned(cleaned, compact, prepareLearned(learned)))
	})
}

func TestMatchMerchant(t *testing.T) {
	merchants := []model.MerchantPattern{
		{Pattern: "TIM HORTONS", AlternatePatterns: []string{"TIMS", "TH COFFEE"}, Category: "Food", Label: "Coffee"},
		{Pattern: "NETFLIX", Category: "Subscriptions", Label: "Subscriptions"},
		{Pattern: "TIMS", Category: "Shopping", Label: "Shopping"},
	}

	tests := []struct {
		name        string
		description string
		wantLabel   string
		wantReason  string
		wantNil     bool
	}{
		{
			name:        "primary pattern",
			description: "TIM HORTONS #1234 TORONTO ON",
			wantLabel:   "Coffee",
			wantReason:  `Merchant pattern "TIM HORTONS"`,
		},
		{
			name:        "primary pattern without spaces",
			description: "TIMHORTONS 555",
			wantLabel:   "Coffee",
			wantReason:  `Merchant pattern "TIM HORTONS"`,
		},
		{
			name:        "alternate resolves to same result and beats later table entry",
			description: "TIMS DRIVE THRU",
			wantLabel:   "Coffee",
			wantReason:  `Merchant alternate "TIMS" for "TIM HORTONS"`,
		},
		{
			name:        "second merchant",
			description: "netflix.com",
			wantLabel:   "Subscriptions",
			wantReason:  `Merchant pattern "NETFLIX"`,
		},
		{
			name:        "no merchant",
			description: "UNKNOWN VENDOR XYZ",
			wantNil:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, compact := Normalize(tt.description)
			got := matchMerchant(cleaned, compact, prepareMerchants(merchants))
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.wantLabel, got.Label)
			assert.Equal(t, MerchantConfidence, got.Confidence)
			assert.Equal(t, model.TierMerchant, got.Tier)
			assert.Equal(t, tt.wantReason, got.MatchReason)
		})
	}
}

func TestMatchMerchant_EmptyPatternNeverMatches(t *testing.T) {
	merchants := []model.MerchantPattern{
		{Pattern: "", Category: "Food", Label: "Coffee"},
	}
	cleaned, compact := Normalize("ANYTHING")
	assert.Nil(t, matchMerchant(cleaned, compact, prepareMerchants(merchants)))
}

func TestMatchKeyword(t *testing.T) {
	t.Run("category priority beats table order", func(t *testing.T) {
		groups := []model.KeywordGroup{
			{Category: "Shopping", Label: "Shopping", Keywords: []string{"MARKET"}},
			{Category: "Food", Label: "Groceries", Keywords: []string{"MARKET"}},
		}
		cleaned, compact := Normalize("FARMERS MARKET")
		got := matchKeyword(cleaned, compact, prepareGroups(groups))
		require.NotNil(t, got)
		assert.Equal(t, "Food", got.Category)
		assert.Equal(t, "Groceries", got.Label)
		assert.Equal(t, KeywordConfidence, got.Confidence)
	})

	t.Run("same category uses table order", func(t *testing.T) {
		groups := []model.KeywordGroup{
			{Category: "Food", Label: "Coffee", Keywords: []string{"CAFE"}},
			{Category: "Food", Label: "Eating Out", Keywords: []string{"CAFE", "BISTRO"}},
		}
		cleaned, compact := Normalize("CAFE BISTRO")
		got := matchKeyword(cleaned, compact, prepareGroups(groups))
		require.NotNil(t, got)
		assert.Equal(t, "Coffee", got.Label)
	})

	t.Run("keyword order within group", func(t *testing.T) {
		groups := []model.KeywordGroup{
			{Category: "Bills", Label: "Phone", Keywords: []string{"MOBILE", "ROGERS"}},
		}
		cleaned, compact := Normalize("ROGERS MOBILE")
		got := matchKeyword(cleaned, compact, prepareGroups(groups))
		require.NotNil(t, got)
		assert.Equal(t, `Keyword "MOBILE" (Bills priority)`, got.MatchReason)
	})

	t.Run("space-insensitive keyword", func(t *testing.T) {
		groups := []model.KeywordGroup{
			{Category: "Food", Label: "Groceries", Keywords: []string{"GROCERY"}},
		}
		for _, desc := range []string{"GROCERYSTORE#4521", "GROCERY STORE #4521"} {
			cleaned, compact := Normalize(desc)
			got := matchKeyword(cleaned, compact, prepareGroups(groups))
			require.NotNil(t, got, desc)
			assert.Equal(t, "Groceries", got.Label)
		}
	})

	t.Run("category outside priority list is ignored", func(t *testing.T) {
		groups := []model.KeywordGroup{
			{Category: "Income", Label: "Salary", Keywords: []string{"PAYROLL"}},
		}
		cleaned, compact := Normalize("ACME PAYROLL")
		assert.Nil(t, matchKeyword(cleaned, compact, prepareGroups(groups)))
	})

	t.Run("empty table", func(t *testing.T) {
		cleaned, compact := Normalize("GROCERY")
		assert.Nil(t, matchKeyword(cleaned, compact, nil))
	})
}
