package parser

import (
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
)

func TestMarkdownParser_HeadingHierarchy(t *testing.T) {
	input := `# Title

Intro text.

## Section A

Section A content.

### Subsection A1

Subsection A1 content.

## Section B

Section B content.
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []doctree.TocEntry{
		{Level: 1, Text: "Title", Page: 1},
		{Level: 2, Text: "Section A", Page: 1},
		{Level: 3, Text: "Subsection A1", Page: 1},
		{Level: 2, Text: "Section B", Page: 1},
	}
	if !reflect.DeepEqual(doc.Outline, want) {
		t.Errorf("expected %+v, got %+v", want, doc.Outline)
	}
}

func TestMarkdownParser_NoHeadings(t *testing.T) {
	input := "Just a paragraph.\n\nAnother paragraph."
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "plain.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Outline) != 0 {
		t.Errorf("expected no outline entries, got %+v", doc.Outline)
	}
	spans, err := doc.TextSpans()
	if err != nil || len(spans) != 0 {
		t.Errorf("expected no spans, got %v, %v", spans, err)
	}
}

func TestMarkdownParser_NestedAndSetext(t *testing.T) {
	input := `Setext Heading
==============

> ## Quoted heading

Sub Setext
----------
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "nested.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []doctree.TocEntry{
		{Level: 1, Text: "Setext Heading", Page: 1},
		{Level: 2, Text: "Quoted heading", Page: 1},
		{Level: 2, Text: "Sub Setext", Page: 1},
	}
	if !reflect.DeepEqual(doc.Outline, want) {
		t.Errorf("expected %+v, got %+v", want, doc.Outline)
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Filename != "empty.md" {
		t.Errorf("expected filename %q, got %q", "empty.md", doc.Filename)
	}
	if doc.MetadataTitle() != "" {
		t.Errorf("expected no metadata title, got %q", doc.MetadataTitle())
	}
}
