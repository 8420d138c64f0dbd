package outline

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Source is the document parser contract the engine consumes.
type Source interface {
	// EmbeddedOutline returns the document-native table of contents, or
	// nothing when the document has none.
	EmbeddedOutline() ([]doctree.TocEntry, error)
	// TextSpans returns all spans in reading order, page by page.
	TextSpans() ([]doctree.Span, error)
	// MetadataTitle returns the declared title, empty when absent.
	MetadataTitle() string
}

// Result is the outcome of one document: a complete outline, or the
// degraded fallback together with the failure that caused it.
type Result struct {
	Outline doctree.Outline
	Err     error
}

// Degraded reports whether the outline is the fallback record.
func (r Result) Degraded() bool {
	return r.Err != nil
}

// Fallback is the record emitted for documents that yield nothing usable.
func Fallback(stem string) doctree.Outline {
	return doctree.Outline{Title: stem, Headings: []doctree.Heading{}}
}

// Extractor infers outlines. It holds only read-only configuration and
// can be reused across documents.
type Extractor struct {
	classifier Classifier
	log        *slog.Logger
}

func NewExtractor(th Thresholds, log *slog.Logger) *Extractor {
	if log == nil {
		log = slog.Default()
	}
	return &Extractor{
		classifier: NewClassifier(th),
		log:        log,
	}
}

// Process opens a document and extracts its outline. Every failure,
// including panics raised while reading the document, is converted to
// the fallback record for stem.
func (e *Extractor) Process(path, stem string, open func() (Source, error)) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = Result{Outline: Fallback(stem), Err: fmt.Errorf("%w: %v", ErrUnexpected, p)}
		}
	}()

	src, err := open()
	if err != nil {
		return Result{Outline: Fallback(stem), Err: &ParseError{Path: path, Err: err}}
	}

	out, err := e.Extract(src, path, stem)
	if err != nil {
		return Result{Outline: Fallback(stem), Err: err}
	}
	return Result{Outline: out}
}

// Extract builds the outline for src, read from path. The embedded outline
// is used when present; otherwise headings are inferred from the text spans.
func (e *Extractor) Extract(src Source, path, stem string) (doctree.Outline, error) {
	toc, err := src.EmbeddedOutline()
	if err != nil {
		return doctree.Outline{}, &ParseError{Path: path, Err: fmt.Errorf("embedded outline: %w", err)}
	}
	if len(toc) > 0 {
		e.log.Debug("using embedded outline", "document", stem, "entries", len(toc))
		return NormalizeTOC(toc, src.MetadataTitle()), nil
	}

	spans, err := src.TextSpans()
	if err != nil {
		return doctree.Outline{}, &ParseError{Path: path, Err: fmt.Errorf("text spans: %w", err)}
	}
	if len(spans) == 0 {
		return Fallback(stem), nil
	}

	return e.inferFromSpans(spans, stem)
}

func (e *Extractor) inferFromSpans(spans []doctree.Span, stem string) (doctree.Outline, error) {
	stats := ComputeFontStats(spans)

	var titles []doctree.Candidate
	headings := make([]doctree.Heading, 0, 16)

	for i, span := range spans {
		if math.IsNaN(span.Size) || math.IsInf(span.Size, 0) || span.Size < 0 || span.Page < 1 {
			return doctree.Outline{}, fmt.Errorf("%w: span %d has size %v on page %d", ErrUnexpected, i, span.Size, span.Page)
		}
		if !IsHeadingCandidate(span, stats.Mean) {
			continue
		}
		text := strings.TrimSpace(span.Text)
		switch level := e.classifier.Classify(text, span.Size, stats); level {
		case doctree.LevelTitle:
			titles = append(titles, doctree.Candidate{Text: text, Level: level, Page: span.Page})
		case doctree.LevelH1, doctree.LevelH2, doctree.LevelH3:
			headings = append(headings, doctree.Heading{Level: level, Text: text, Page: span.Page})
		}
	}

	e.log.Debug("classified spans", "document", stem, "spans", len(spans),
		"mean_size", stats.Mean, "distinct_sizes", len(stats.Ranks),
		"titles", len(titles), "headings", len(headings))

	title, headings := resolveTitle(titles, headings, stem)

	sort.SliceStable(headings, func(i, j int) bool {
		return headings[i].Page < headings[j].Page
	})

	return doctree.Outline{Title: title, Headings: headings}, nil
}

// resolveTitle picks the first TITLE hit, else the first H1, else stem.
// H1 entries repeating the chosen title are removed.
func resolveTitle(titles []doctree.Candidate, headings []doctree.Heading, stem string) (string, []doctree.Heading) {
	if len(titles) > 0 {
		return titles[0].Text, dropH1(headings, titles[0].Text)
	}
	for _, h := range headings {
		if h.Level == doctree.LevelH1 {
			return h.Text, dropH1(headings, h.Text)
		}
	}
	return stem, headings
}

func dropH1(headings []doctree.Heading, text string) []doctree.Heading {
	kept := headings[:0]
	for _, h := range headings {
		if h.Level == doctree.LevelH1 && h.Text == text {
			continue
		}
		kept = append(kept, h)
	}
	return kept
}
