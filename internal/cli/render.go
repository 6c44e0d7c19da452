package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/spice-categorizer/internal/categorize"
	"github.com/Veraticus/spice-categorizer/internal/model"
)

const maxDescriptionWidth = 40

// ResultRow pairs a categorization result with the description it came from.
type ResultRow struct {
	Description string
	Result      model.ClassificationResult
}

// FormatConfidence renders a confidence as a percentage colored by match tier.
// Learned matches can score above 100; the display is clamped.
func FormatConfidence(result model.ClassificationResult) string {
	text := fmt.Sprintf("%d%%", categorize.ClampConfidence(result.Confidence))
	switch result.Tier {
	case model.TierLearned:
		return SuccessStyle.Render(text)
	case model.TierMerchant:
		return InfoStyle.Render(text)
	case model.TierKeyword:
		return WarningStyle.Render(text)
	default:
		return SubtleStyle.Render(text)
	}
}

// RenderResult renders a single categorization in a box.
func RenderResult(description string, result model.ClassificationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Description:"), description)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Category:   "), result.Category)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Label:      "), result.Label)
	fmt.Fprintf(&b, "%s %s\n", BoldStyle.Render("Confidence: "), FormatConfidence(result))
	fmt.Fprintf(&b, "%s %s", BoldStyle.Render("Reason:     "), SubtleStyle.Render(result.MatchReason))

	title := ChartIcon + " Categorized"
	if result.IsUncategorised() {
		title = WarningIcon + " Uncategorised"
	}
	return RenderBox(title, b.String())
}

// RenderResults renders a batch of results as an aligned table.
func RenderResults(rows []ResultRow) string {
	headers := []string{"ID", "Description", "Category", "Label", "Confidence", "Reason"}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			row.Result.ID,
			truncate(row.Description, maxDescriptionWidth),
			row.Result.Category,
			row.Result.Label,
			FormatConfidence(row.Result),
			row.Result.MatchReason,
		})
	}
	return renderTable(headers, cells)
}

// RenderLabels renders the labels allowed for a category as a bullet list.
func RenderLabels(category string, labels []string) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(category))
	b.WriteString("\n")
	for _, label := range labels {
		b.WriteString("  • ")
		b.WriteString(label)
		b.WriteString("\n")
	}
	return b.String()
}

func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	headerCells := make([]string, len(headers))
	for i, h := range headers {
		headerCells[i] = TableCellStyle.Render(pad(h, widths[i]))
	}
	b.WriteString(TableHeaderStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, headerCells...)))
	b.WriteString("\n")

	for _, row := range rows {
		rendered := make([]string, len(row))
		for i, cell := range row {
			rendered[i] = TableCellStyle.Render(pad(cell, widths[i]))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
		b.WriteString("\n")
	}
	return b.String()
}

func pad(s string, width int) string {
	if gap := width - lipgloss.Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-1]) + "…"
}
