package deck

import (
	"errors"
	"reflect"
	"testing"

	"github.com/dgallion1/sheetdeck/internal/outline"
)

func TestForFormat(t *testing.T) {
	tests := []struct {
		format string
		ext    string
	}{
		{"", "pptx"},
		{"pptx", "pptx"},
		{" DOCX ", "docx"},
	}
	for _, tc := range tests {
		r, err := ForFormat(tc.format)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", tc.format, err)
		}
		if r.Extension() != tc.ext {
			t.Errorf("ForFormat(%q) extension = %q, want %q", tc.format, r.Extension(), tc.ext)
		}
	}

	if _, err := ForFormat("pdf"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestChartLines(t *testing.T) {
	lines := ChartLines(ChartData{
		Categories: []string{"North", "South", "West"},
		Values:     []float64{1200.5, 3},
	})
	want := []string{"North: 1200.50", "South: 3.00"}
	if !reflect.DeepEqual(lines, want) {
		t.Errorf("expected %v, got %v", want, lines)
	}
}

func TestLayout(t *testing.T) {
	data := ChartData{Categories: []string{"A", "B"}, Values: []float64{1, 2.5}}
	slides := []outline.Slide{
		{Title: "**Overview**", Bullets: []string{"Sales _grew_", "Use `SUM`"}},
		{Title: "Split", Bullets: []string{"ignored"}, Chart: outline.ChartPie},
	}

	pages := layout(slides, data)
	want := []page{
		{Title: "Overview", Lines: []string{"• Sales grew", "• Use SUM"}},
		{Title: "Split", Heading: "PIE CHART DATA:", Lines: []string{"• A: 1.00", "• B: 2.50"}},
	}
	if !reflect.DeepEqual(pages, want) {
		t.Errorf("expected %+v, got %+v", want, pages)
	}
}

func TestLayout_ChartWithoutDataFallsBackToBullets(t *testing.T) {
	slides := []outline.Slide{{Title: "Trend", Bullets: []string{"Up"}, Chart: outline.ChartLine}}

	for _, data := range []ChartData{{}, {Categories: []string{"A"}}, {Values: []float64{1}}} {
		pages := layout(slides, data)
		if pages[0].Heading != "" || !reflect.DeepEqual(pages[0].Lines, []string{"• Up"}) {
			t.Errorf("data %+v: expected bullet page, got %+v", data, pages[0])
		}
	}
}

func TestRenderError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&RenderError{Format: "pptx", Err: inner})
	if !errors.Is(err, inner) {
		t.Error("expected RenderError to unwrap")
	}
	if err.Error() != "render pptx: disk full" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
