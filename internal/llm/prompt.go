package llm

import (
	"fmt"
	"strings"

	"github.com/dgallion1/sheetdeck/internal/analyze"
)

const formatRules = `Format each slide as its own block, with a blank line between blocks.
The first line of a block is the slide title. Every following line is one bullet point starting with "- ".
Keep bullets short and grounded in the data below.`

const chartRule = `If a slide is best shown as a chart, add one line to its block naming "pie chart", "bar chart" or "line chart".`

// PromptInput is everything the slide-outline prompt is built from.
type PromptInput struct {
	Audience        string
	Analysis        *analyze.WorkbookResult
	Recommendations []string
	IncludeCharts   bool

	// MaxTokens caps the estimated tokens spent on row text. Zero means no cap.
	MaxTokens int
}

// BuildPrompt renders the prompt sent to the completion backend.
func BuildPrompt(in PromptInput) string {
	var sb strings.Builder

	if audience := strings.TrimSpace(in.Audience); audience != "" {
		fmt.Fprintf(&sb, "Create presentation slides for the following Excel file, targeting audience: %s.\n", audience)
	} else {
		sb.WriteString("Create presentation slides summarizing the following Excel file.\n")
	}
	sb.WriteString(formatRules)
	sb.WriteString("\n")
	if in.IncludeCharts {
		sb.WriteString(chartRule)
		sb.WriteString("\n")
	}

	if in.Analysis != nil {
		sb.WriteString("\n")
		for _, sheet := range in.Analysis.Sheets {
			fmt.Fprintf(&sb, "Sheet: %s\nHeaders: %s\n", sheet.Name, strings.Join(sheet.Headers, ", "))
		}
		writeRows(&sb, in.Analysis.Rows, in.MaxTokens)
	}

	if in.IncludeCharts && len(in.Recommendations) > 0 {
		sb.WriteString("\nSuggested charts:\n")
		for _, rec := range in.Recommendations {
			sb.WriteString("- ")
			sb.WriteString(rec)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// writeRows writes rows until the next one would exceed budget, then notes
// how many were left out.
func writeRows(sb *strings.Builder, rows []string, budget int) {
	if len(rows) == 0 {
		return
	}
	sb.WriteString("\nData:\n")

	used := 0
	for i, row := range rows {
		tokens := EstimateTokens(row)
		if budget > 0 && used+tokens > budget {
			fmt.Fprintf(sb, "... (%d more rows omitted)\n", len(rows)-i)
			return
		}
		used += tokens
		sb.WriteString(row)
		sb.WriteString("\n")
	}
}
