package parser

import (
	"bytes"
	"io"
	"strings"

	"github.com/dgallion1/timeliner/internal/document"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Text between
// headings becomes one section titled by the preceding heading; the
// heading hierarchy itself is flattened since the pipeline only needs
// document order.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &document.Document{
		Title: titleFromFilename(filename),
		Name:  filename,
	}

	var heading string
	var body bytes.Buffer

	flush := func() {
		t := strings.TrimSpace(body.String())
		if t != "" {
			doc.Sections = append(doc.Sections, document.Section{Title: heading, Text: t})
		}
		body.Reset()
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok {
			flush()
			heading = string(h.Text(src))
			continue
		}
		t := blockText(n, src)
		if t != "" {
			if body.Len() > 0 {
				body.WriteString("\n\n")
			}
			body.WriteString(t)
		}
	}
	flush()

	return doc, nil
}

// blockText gets the text content of a goldmark AST node.
func blockText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
		} else {
			buf.WriteString(blockText(c, src))
		}
	}
	return strings.TrimSpace(buf.String())
}
