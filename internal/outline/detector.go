package outline

import (
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docoutline/internal/doctree"
)

const (
	minHeadingLen = 3
	maxHeadingLen = 200

	// Size relative to the document mean that counts as emphasized
	// when combined with bold, and on its own.
	emphasisRatio = 1.1
	strongRatio   = 1.3
)

// IsHeadingCandidate decides whether span is plausibly a heading, given
// the document's mean font size.
func IsHeadingCandidate(span doctree.Span, meanSize float64) bool {
	text := strings.TrimSpace(span.Text)

	n := utf8.RuneCountInString(text)
	if n < minHeadingLen || n > maxHeadingLen {
		return false
	}

	// Sentence punctuation excludes everything except numbered headings.
	if strings.ContainsAny(text[len(text)-1:], ".!?,;:") && !MatchNumbering(text) {
		return false
	}

	sizeBased := span.Size > meanSize*emphasisRatio
	patternMatch := MatchAny(text)

	return (sizeBased && span.Bold) || patternMatch || span.Size > meanSize*strongRatio
}
