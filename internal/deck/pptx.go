package deck

import (
	"bytes"
	"fmt"

	ppt "github.com/VantageDataChat/GoPPT"

	"github.com/dgallion1/sheetdeck/internal/outline"
)

// 16:9 layout, in EMU.
const (
	emuPerInch = 914400

	slideWidth   = int64(10.0 * emuPerInch)
	marginLeft   = int64(0.5 * emuPerInch)
	contentWidth = int64(9.0 * emuPerInch)

	fontTitle   = 28
	fontHeading = 16
	fontBody    = 14
)

// PPTXRenderer writes one PowerPoint slide per outline slide.
type PPTXRenderer struct{}

func (PPTXRenderer) Extension() string { return "pptx" }

func (PPTXRenderer) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.presentationml.presentation"
}

func (r PPTXRenderer) Render(slides []outline.Slide, data ChartData) (out []byte, err error) {
	// GoPPT panics on some malformed input instead of returning errors.
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, &RenderError{Format: r.Extension(), Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	p := ppt.New()
	p.GetDocumentProperties().Title = "Presentation"
	p.GetDocumentProperties().Creator = "sheetdeck"

	for i, pg := range layout(slides, data) {
		slide := p.GetActiveSlide()
		if i > 0 {
			slide = p.CreateSlide()
		}
		addPage(slide, pg)
	}

	w, err := ppt.NewWriter(p, ppt.WriterPowerPoint2007)
	if err != nil {
		return nil, &RenderError{Format: r.Extension(), Err: fmt.Errorf("create writer: %w", err)}
	}
	var buf bytes.Buffer
	if err := w.(*ppt.PPTXWriter).WriteTo(&buf); err != nil {
		return nil, &RenderError{Format: r.Extension(), Err: err}
	}
	return buf.Bytes(), nil
}

func addPage(slide *ppt.Slide, pg page) {
	bar := slide.CreateRichTextShape()
	bar.SetOffsetX(0).SetOffsetY(0)
	bar.SetWidth(slideWidth).SetHeight(int64(0.08 * emuPerInch))
	bar.SetFill(ppt.NewFill().SetSolid(ppt.NewColor("FF3B82F6")))

	title := slide.CreateRichTextShape()
	title.SetOffsetX(marginLeft).SetOffsetY(int64(0.3 * emuPerInch))
	title.SetWidth(contentWidth).SetHeight(int64(0.8 * emuPerInch))
	title.CreateTextRun(pg.Title).GetFont().SetSize(fontTitle).SetBold(true).SetColor(ppt.NewColor("FF1E40AF"))

	body := slide.CreateRichTextShape()
	body.SetOffsetX(marginLeft).SetOffsetY(int64(1.2 * emuPerInch))
	body.SetWidth(contentWidth).SetHeight(int64(4.1 * emuPerInch))

	first := true
	if pg.Heading != "" {
		body.CreateTextRun(pg.Heading).GetFont().SetSize(fontHeading).SetBold(true).SetColor(ppt.NewColor("FF475569"))
		first = false
	}
	for _, line := range pg.Lines {
		if !first {
			body.CreateParagraph()
		}
		first = false
		body.CreateTextRun(line).GetFont().SetSize(fontBody).SetColor(ppt.NewColor("FF334155"))
	}
}
