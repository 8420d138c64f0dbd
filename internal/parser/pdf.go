package parser

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

const (
	// Glyphs stay in one span while their baseline is within this
	// fraction of the font size.
	baselineTolerance = 0.5
	// A horizontal gap wider than this fraction of the font size
	// separates words.
	wordGapRatio = 0.25
	// Shorter spans are noise (bullets, stray glyphs).
	minSpanRunes = 2
)

// PDFParser reads text spans and metadata with ledongthuc/pdf and the
// bookmark tree with pdfcpu.
type PDFParser struct{}

func (p *PDFParser) Parse(r io.Reader, filename string) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	doc := &Document{
		Filename: filename,
		Title:    strings.TrimSpace(reader.Trailer().Key("Info").Key("Title").Text()),
		spans:    func() ([]doctree.Span, error) { return extractSpans(reader), nil },
	}

	// pdfcpu is only consulted when an outline exists, since it is the
	// one that knows the destination page of each entry.
	if root := reader.Outline(); len(root.Child) > 0 {
		doc.Outline, err = readBookmarks(data)
		if err != nil {
			return nil, fmt.Errorf("read bookmarks: %w", err)
		}
	}

	return doc, nil
}

func readBookmarks(data []byte) ([]doctree.TocEntry, error) {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	bookmarks, err := api.Bookmarks(bytes.NewReader(data), conf)
	if err != nil {
		return nil, err
	}

	var entries []doctree.TocEntry
	flattenBookmarks(bookmarks, 1, &entries)
	return entries, nil
}

// flattenBookmarks walks the bookmark tree depth-first.
func flattenBookmarks(bookmarks []pdfcpu.Bookmark, level int, out *[]doctree.TocEntry) {
	for _, bm := range bookmarks {
		*out = append(*out, doctree.TocEntry{
			Level: level,
			Text:  bm.Title,
			Page:  bm.PageFrom,
		})
		flattenBookmarks(bm.Kids, level+1, out)
	}
}

// extractSpans collects spans page by page. Content decoding panics on
// malformed streams; callers recover at the document boundary.
func extractSpans(r *pdflib.Reader) []doctree.Span {
	var spans []doctree.Span
	numPages := r.NumPage()
	for i := 1; i <= numPages; i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		spans = append(spans, buildSpans(page.Content().Text, i)...)
	}
	return spans
}

// buildSpans merges glyph runs that share font, size and baseline.
func buildSpans(texts []pdflib.Text, page int) []doctree.Span {
	var (
		spans    []doctree.Span
		cur      doctree.Span
		buf      strings.Builder
		open     bool
		baseline float64
		endX     float64
	)

	flush := func() {
		if !open {
			return
		}
		text := strings.Join(strings.Fields(buf.String()), " ")
		if utf8.RuneCountInString(text) >= minSpanRunes && cur.Size > 0 {
			cur.Text = text
			cur.Bold = isBoldFont(cur.Font)
			spans = append(spans, cur)
		}
		buf.Reset()
		open = false
	}

	for _, t := range texts {
		if t.S == "" {
			continue
		}
		sameRun := open &&
			t.Font == cur.Font &&
			t.FontSize == cur.Size &&
			math.Abs(t.Y-baseline) <= t.FontSize*baselineTolerance

		if !sameRun {
			flush()
			cur = doctree.Span{
				Size: t.FontSize,
				Font: t.Font,
				Page: page,
				Box:  doctree.Rect{X0: t.X, Y0: t.Y, X1: t.X + t.W, Y1: t.Y + t.FontSize},
			}
			baseline = t.Y
			open = true
		} else if t.X-endX > t.FontSize*wordGapRatio {
			buf.WriteByte(' ')
		}

		buf.WriteString(t.S)
		endX = t.X + t.W
		cur.Box.X0 = math.Min(cur.Box.X0, t.X)
		cur.Box.X1 = math.Max(cur.Box.X1, endX)
	}
	flush()

	return spans
}

var boldMarkers = []string{"bold", "black", "heavy", "demi"}

// isBoldFont derives boldness from the font name, e.g. "Helvetica-Bold"
// or "ABCDEF+Arial,Black".
func isBoldFont(font string) bool {
	lower := strings.ToLower(font)
	for _, m := range boldMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}
