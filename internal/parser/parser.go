package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Document is a parsed input file exposing its embedded outline, text
// spans and metadata title.
type Document struct {
	Filename string
	Title    string             // Metadata title, empty when absent
	Outline  []doctree.TocEntry // Embedded outline, nil when absent

	spans func() ([]doctree.Span, error)
}

func (d *Document) EmbeddedOutline() ([]doctree.TocEntry, error) {
	return d.Outline, nil
}

// TextSpans loads the spans on demand; formats without font data have none.
func (d *Document) TextSpans() ([]doctree.Span, error) {
	if d.spans == nil {
		return nil, nil
	}
	return d.spans()
}

func (d *Document) MetadataTitle() string {
	return d.Title
}

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*Document, error)
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".pdf":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return &PDFParser{}, nil
	case ".md", ".markdown":
		return &MarkdownParser{}, nil
	case ".html", ".htm":
		return &HTMLParser{}, nil
	case ".docx":
		return &DOCXParser{}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}
