package deck

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New()

// PlainText strips inline markdown (emphasis, code spans, links) from a
// single line of LLM output. Lines that parse as anything other than one
// paragraph are returned trimmed but otherwise unchanged.
func PlainText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	src := []byte(s)
	doc := md.Parser().Parse(text.NewReader(src))

	para, ok := doc.FirstChild().(*ast.Paragraph)
	if !ok || para.NextSibling() != nil {
		return s
	}
	out := strings.TrimSpace(inlineText(para, src))
	if out == "" {
		return s
	}
	return out
}

func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(node.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.AutoLink:
			buf.Write(node.Label(src))
		default:
			buf.WriteString(inlineText(c, src))
		}
	}
	return buf.String()
}
