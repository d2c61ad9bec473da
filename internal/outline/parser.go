// Package outline turns an LLM's free-text slide outline into slide records.
package outline

import (
	"strings"
)

// ChartKind is the chart suggested for a slide. The zero value means none.
type ChartKind string

const (
	ChartNone ChartKind = ""
	ChartPie  ChartKind = "pie"
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
)

const (
	// NoContent replaces the bullets of a slide that has none.
	NoContent = "No content available"
	// FallbackTitle is the title of the slide synthesized for an empty outline.
	FallbackTitle = "Data Summary"
)

// Slide is one parsed slide. Bullets is never empty.
type Slide struct {
	Title   string    `json:"title"`
	Bullets []string  `json:"bullets"`
	Chart   ChartKind `json:"chart,omitempty"`
}

// chartHints are checked in order against each lowercased body line.
var chartHints = []struct {
	phrase string
	kind   ChartKind
}{
	{"pie chart", ChartPie},
	{"bar chart", ChartBar},
	{"line chart", ChartLine},
}

// Parser splits raw completions into slides.
type Parser struct {
	// FallbackChart is the chart kind of the synthesized slide returned when
	// the outline contains no sections.
	FallbackChart ChartKind
}

// Parse splits raw on blank lines into slides. It never fails: an outline
// with no usable sections produces a single fallback slide.
func (p Parser) Parse(raw string) []Slide {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")

	var slides []Slide
	for _, section := range strings.Split(raw, "\n\n") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		slides = append(slides, parseSection(section))
	}

	if len(slides) == 0 {
		return []Slide{{
			Title:   FallbackTitle,
			Bullets: []string{NoContent},
			Chart:   p.FallbackChart,
		}}
	}
	return slides
}

func parseSection(section string) Slide {
	lines := strings.Split(section, "\n")
	s := Slide{
		Title:   strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[0]), "#")),
		Bullets: []string{},
	}

	for _, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if kind, ok := chartKindOf(line); ok {
			s.Chart = kind
			continue
		}
		s.Bullets = append(s.Bullets, stripBullet(line))
	}

	if len(s.Bullets) == 0 {
		s.Bullets = []string{NoContent}
	}
	return s
}

func chartKindOf(line string) (ChartKind, bool) {
	lower := strings.ToLower(line)
	for _, h := range chartHints {
		if strings.Contains(lower, h.phrase) {
			return h.kind, true
		}
	}
	return ChartNone, false
}

// stripBullet removes one leading "•", "-" or "*" marker and the whitespace after it.
func stripBullet(line string) string {
	for _, marker := range []string{"•", "-", "*"} {
		if rest, ok := strings.CutPrefix(line, marker); ok {
			return strings.TrimSpace(rest)
		}
	}
	return line
}
