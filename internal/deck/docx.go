package deck

import (
	"bytes"

	"github.com/fumiama/go-docx"

	"github.com/dgallion1/sheetdeck/internal/outline"
)

// DOCXRenderer writes a handout: a bold heading paragraph per slide followed
// by its lines.
type DOCXRenderer struct{}

func (DOCXRenderer) Extension() string { return "docx" }

func (DOCXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}

func (r DOCXRenderer) Render(slides []outline.Slide, data ChartData) ([]byte, error) {
	doc := docx.New().WithDefaultTheme()

	for i, pg := range layout(slides, data) {
		if i > 0 {
			doc.AddParagraph()
		}
		doc.AddParagraph().AddText(pg.Title).Bold().Size("32").Color("1E40AF")
		if pg.Heading != "" {
			doc.AddParagraph().AddText(pg.Heading).Bold().Size("24")
		}
		for _, line := range pg.Lines {
			doc.AddParagraph().AddText(line).Size("22")
		}
	}

	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, &RenderError{Format: r.Extension(), Err: err}
	}
	return buf.Bytes(), nil
}
