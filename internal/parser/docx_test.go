package parser

import (
	"bytes"
	"testing"

	"github.com/dgallion1/docoutline/internal/doctree"
	"github.com/fumiama/go-docx"
)

func buildDOCX(t *testing.T, paras [][2]string) []byte {
	t.Helper()
	d := docx.New().WithDefaultTheme()
	for _, p := range paras {
		para := d.AddParagraph()
		if p[0] != "" {
			para.Style(p[0])
		}
		para.AddText(p[1])
	}
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		t.Fatalf("write docx: %v", err)
	}
	return buf.Bytes()
}

func TestDOCXParser_TitleAndHeadings(t *testing.T) {
	data := buildDOCX(t, [][2]string{
		{"Title", "Operations Manual"},
		{"", "Introductory body text."},
		{"Heading1", "Getting Started"},
		{"Heading2", "Requirements"},
		{"Normal", "More body text."},
		{"Heading 3", "Disk Space"},
		{"Title", "Second Title"},
		{"Heading1", "   "},
	})

	p := &DOCXParser{}
	doc, err := p.Parse(bytes.NewReader(data), "manual.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "Operations Manual" {
		t.Errorf("expected title %q, got %q", "Operations Manual", doc.Title)
	}

	want := []doctree.TocEntry{
		{Level: 1, Text: "Getting Started", Page: 1},
		{Level: 2, Text: "Requirements", Page: 1},
		{Level: 3, Text: "Disk Space", Page: 1},
	}
	if len(doc.Outline) != len(want) {
		t.Fatalf("expected %d entries, got %+v", len(want), doc.Outline)
	}
	for i := range want {
		if doc.Outline[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], doc.Outline[i])
		}
	}
}

func TestDOCXParser_NoHeadings(t *testing.T) {
	data := buildDOCX(t, [][2]string{{"", "Just a paragraph."}})

	p := &DOCXParser{}
	doc, err := p.Parse(bytes.NewReader(data), "plain.docx")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "" || len(doc.Outline) != 0 {
		t.Errorf("expected no title or outline, got %q %+v", doc.Title, doc.Outline)
	}
}

func TestDOCXParser_RejectsNonZip(t *testing.T) {
	p := &DOCXParser{}
	if _, err := p.Parse(bytes.NewReader([]byte("not a docx")), "bad.docx"); err == nil {
		t.Fatal("expected error for non-zip input")
	}
}

func TestDOCXHeadingLevel(t *testing.T) {
	tests := map[string]int{
		"Heading1":  1,
		"heading 2": 2,
		"Heading6":  6,
		"Heading7":  0,
		"Title":     0,
		"Normal":    0,
		"":          0,
	}
	for style, want := range tests {
		para := &docx.Paragraph{}
		if style != "" {
			para.Style(style)
		}
		if got := docxHeadingLevel(para); got != want {
			t.Errorf("docxHeadingLevel(%q) = %d, want %d", style, got, want)
		}
	}
}
