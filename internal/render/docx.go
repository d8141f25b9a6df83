package render

import (
	"bytes"
	"html"
	"io"
	"strings"

	docx "github.com/fumiama/go-docx"
)

// GoDocxConverter extracts paragraph text from a .docx archive and wraps it
// in minimal HTML. Formatting beyond paragraphs is dropped.
type GoDocxConverter struct{}

func (GoDocxConverter) ToHTML(r io.Reader) (string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	doc, err := docx.Parse(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, it := range doc.Document.Body.Items {
		p, ok := it.(*docx.Paragraph)
		if !ok {
			continue
		}
		text := strings.TrimSpace(p.String())
		if text == "" {
			continue
		}
		b.WriteString("<p>")
		b.WriteString(html.EscapeString(text))
		b.WriteString("</p>\n")
	}
	return b.String(), nil
}
