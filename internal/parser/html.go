package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/timeliner/internal/document"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. Content elements between headings are
// collected into one section per heading, in document order.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*document.Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &document.Document{
		Title: titleFromFilename(filename),
		Name:  filename,
	}
	if title := findTitle(root); title != "" {
		doc.Title = title
	}

	var heading string
	var body strings.Builder

	flush := func() {
		t := strings.TrimSpace(body.String())
		if t != "" {
			doc.Sections = append(doc.Sections, document.Section{Title: heading, Text: t})
		}
		body.Reset()
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if isHeading(n.Data) {
				flush()
				heading = textContent(n)
				return
			}
			switch n.Data {
			case "script", "style", "nav", "footer", "header":
				return
			case "p", "li", "td", "blockquote":
				if t := textContent(n); t != "" {
					if body.Len() > 0 {
						body.WriteString("\n\n")
					}
					body.WriteString(t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if b := findBody(root); b != nil {
		walk(b)
	} else {
		walk(root)
	}
	flush()

	return doc, nil
}

func isHeading(tag string) bool {
	switch tag {
	case "h1", "h2", "h3", "h4", "h5", "h6":
		return true
	}
	return false
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
