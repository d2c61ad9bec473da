package deck

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/sheetdeck/internal/outline"
)

func docxParagraphs(t *testing.T, b []byte) []string {
	t.Helper()
	doc, err := docx.Parse(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("parse docx: %v", err)
	}
	var out []string
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}
		var sb strings.Builder
		for _, child := range para.Children {
			run, ok := child.(*docx.Run)
			if !ok {
				continue
			}
			for _, rc := range run.Children {
				if txt, ok := rc.(*docx.Text); ok {
					sb.WriteString(txt.Text)
				}
			}
		}
		if s := strings.TrimSpace(sb.String()); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func TestDOCXRenderer(t *testing.T) {
	slides := []outline.Slide{
		{Title: "Overview", Bullets: []string{"Sales **grew**"}},
		{Title: "Regions", Bullets: []string{outline.NoContent}, Chart: outline.ChartPie},
	}
	data := ChartData{Categories: []string{"North", "South"}, Values: []float64{10, 20.126}}

	out, err := DOCXRenderer{}.Render(slides, data)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	got := docxParagraphs(t, out)
	want := []string{
		"Overview",
		"• Sales grew",
		"Regions",
		"PIE CHART DATA:",
		"• North: 10.00",
		"• South: 20.13",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected paragraphs %q, got %q", want, got)
	}
}
