package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/spice-categorizer/internal/model"
)

func TestFormatConfidenceClampsLearned(t *testing.T) {
	got := FormatConfidence(model.ClassificationResult{Confidence: 105, Tier: model.TierLearned})
	assert.Contains(t, got, "100%")
	assert.NotContains(t, got, "105")
}

func TestRenderResults(t *testing.T) {
	out := RenderResults([]ResultRow{
		{
			Description: "SHELL GAS STATION",
			Result: model.ClassificationResult{
				ID: "t1", Category: model.CategoryTransport, Label: "Car",
				Confidence: 90, Tier: model.TierMerchant, MatchReason: `Merchant pattern "SHELL"`,
			},
		},
		{
			Description: "RANDOM THING",
			Result: model.ClassificationResult{
				ID: "t2", Category: model.Uncategorised, Label: model.Uncategorised,
				Tier: model.TierNone, MatchReason: "No matching pattern found",
			},
		},
	})

	for _, want := range []string{"Description", "SHELL GAS STATION", "Transport", "90%", "RANDOM THING", "Uncategorised", "0%"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "SHELL GAS STATION"), strings.Index(out, "RANDOM THING"))
}

func TestRenderResultUncategorised(t *testing.T) {
	out := RenderResult("MYSTERY", model.ClassificationResult{
		Category: model.Uncategorised, Label: model.Uncategorised, Tier: model.TierNone,
	})
	assert.Contains(t, out, "Uncategorised")
	assert.Contains(t, out, "MYSTERY")
}

func TestRenderLabels(t *testing.T) {
	out := RenderLabels(model.CategoryFood, model.LabelsForCategory(model.CategoryFood))
	for _, label := range []string{"Groceries", "Eating Out", "Coffee"} {
		assert.Contains(t, out, label)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
