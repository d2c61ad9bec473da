// Package deck renders parsed slides into presentation documents.
package deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dgallion1/sheetdeck/internal/outline"
)

// ErrUnknownFormat is returned by ForFormat for formats with no renderer.
var ErrUnknownFormat = errors.New("unknown deck format")

// ChartData is the aggregated category/value pairing drawn on chart slides.
type ChartData struct {
	Categories []string
	Values     []float64
}

// Renderer serializes slides into a single document.
type Renderer interface {
	Render(slides []outline.Slide, data ChartData) ([]byte, error)
	Extension() string
	ContentType() string
}

// RenderError reports a document that could not be serialized.
type RenderError struct {
	Format string
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

var renderers = map[string]Renderer{
	"pptx": PPTXRenderer{},
	"docx": DOCXRenderer{},
}

// ForFormat returns the renderer for format. An empty format means pptx.
func ForFormat(format string) (Renderer, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "pptx"
	}
	r, ok := renderers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return r, nil
}

// Formats lists the names ForFormat accepts.
func Formats() []string {
	return []string{"pptx", "docx"}
}

const bulletGlyph = "• "

// page is the renderer-independent content of one slide.
type page struct {
	Title string
	// Heading is set on chart pages and introduces the data lines.
	Heading string
	Lines   []string
}

func layout(slides []outline.Slide, data ChartData) []page {
	pages := make([]page, 0, len(slides))
	for _, s := range slides {
		p := page{Title: PlainText(s.Title)}
		if chart := ChartLines(data); s.Chart != outline.ChartNone && len(chart) > 0 {
			p.Heading = strings.ToUpper(string(s.Chart)) + " CHART DATA:"
			for _, line := range chart {
				p.Lines = append(p.Lines, bulletGlyph+line)
			}
		} else {
			for _, b := range s.Bullets {
				p.Lines = append(p.Lines, bulletGlyph+PlainText(b))
			}
		}
		pages = append(pages, p)
	}
	return pages
}

// ChartLines renders the category/value pairs as "category: value" with two
// decimals. Unpaired trailing entries are dropped.
func ChartLines(data ChartData) []string {
	n := min(len(data.Categories), len(data.Values))
	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		lines = append(lines, fmt.Sprintf("%s: %.2f", data.Categories[i], data.Values[i]))
	}
	return lines
}
