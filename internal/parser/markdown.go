package parser

import (
	"io"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// MarkdownParser exposes ATX and setext headings as the embedded outline.
// Markdown has no pages, so every entry is on page 1.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	root := md.Parser().Parse(text.NewReader(src))

	doc := &Document{Filename: filename}
	err = ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		title := strings.TrimSpace(string(heading.Text(src)))
		if title != "" {
			doc.Outline = append(doc.Outline, doctree.TocEntry{Level: heading.Level, Text: title, Page: 1})
		}
		// Heading children are inline text already captured above.
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return nil, err
	}

	return doc, nil
}
