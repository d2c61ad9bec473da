package llm

import (
	"strings"
	"testing"

	"github.com/dgallion1/sheetdeck/internal/analyze"
)

func sampleAnalysis() *analyze.WorkbookResult {
	return &analyze.WorkbookResult{
		Sheets: []analyze.SheetResult{
			{Name: "Sales", Headers: []string{"Region", "Revenue"}},
			{Name: "Costs", Headers: []string{"Item", "Amount"}},
		},
		Rows: []string{"North 100", "South 200", "East 300"},
	}
}

func TestBuildPrompt_Audience(t *testing.T) {
	p := BuildPrompt(PromptInput{Audience: " executives ", Analysis: sampleAnalysis()})

	if !strings.HasPrefix(p, "Create presentation slides for the following Excel file, targeting audience: executives.\n") {
		t.Errorf("unexpected preamble: %q", p)
	}
	for _, want := range []string{
		"Sheet: Sales\nHeaders: Region, Revenue\n",
		"Sheet: Costs\nHeaders: Item, Amount\n",
		"Data:\nNorth 100\nSouth 200\nEast 300\n",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q, got:\n%s", want, p)
		}
	}
	if strings.Contains(p, "pie chart") || strings.Contains(p, "Suggested charts") {
		t.Errorf("did not expect chart instructions without charts:\n%s", p)
	}
}

func TestBuildPrompt_Generic(t *testing.T) {
	p := BuildPrompt(PromptInput{Audience: "   "})
	if !strings.HasPrefix(p, "Create presentation slides summarizing the following Excel file.\n") {
		t.Errorf("unexpected generic preamble: %q", p)
	}
	if strings.Contains(p, "Data:") {
		t.Errorf("did not expect a data section without analysis:\n%s", p)
	}
}

func TestBuildPrompt_Charts(t *testing.T) {
	p := BuildPrompt(PromptInput{
		Analysis:        sampleAnalysis(),
		Recommendations: []string{"pie chart for 3 categories", "bar chart for categorical comparison"},
		IncludeCharts:   true,
	})
	if !strings.Contains(p, chartRule) {
		t.Errorf("expected chart rule in prompt:\n%s", p)
	}
	if !strings.HasSuffix(p, "Suggested charts:\n- pie chart for 3 categories\n- bar chart for categorical comparison\n") {
		t.Errorf("expected suggested charts at the end:\n%s", p)
	}
}

func TestBuildPrompt_RecommendationsIgnoredWithoutCharts(t *testing.T) {
	p := BuildPrompt(PromptInput{Analysis: sampleAnalysis(), Recommendations: []string{"pie chart for 3 categories"}})
	if strings.Contains(p, "Suggested charts") {
		t.Errorf("expected no suggestions when charts are off:\n%s", p)
	}
}

func TestBuildPrompt_RowBudget(t *testing.T) {
	// Each row is two words, which estimates to two tokens.
	p := BuildPrompt(PromptInput{Analysis: sampleAnalysis(), MaxTokens: 5})

	if !strings.Contains(p, "North 100\nSouth 200\n... (1 more rows omitted)\n") {
		t.Errorf("expected truncation after two rows:\n%s", p)
	}
	if strings.Contains(p, "East 300") {
		t.Errorf("expected third row to be omitted:\n%s", p)
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"North 100", 2},
		{"a b c d e f", 7},
	}
	for _, tc := range tests {
		if got := EstimateTokens(tc.in); got != tc.want {
			t.Errorf("EstimateTokens(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
