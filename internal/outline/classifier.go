package outline

import (
	"regexp"
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// Thresholds are the absolute font-size cutoffs per level. A value is
// built once at startup and shared read-only.
type Thresholds struct {
	Title float64
	H1    float64
	H2    float64
	H3    float64
}

// DefaultThresholds returns the standard cutoffs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Title: 16.0,
		H1:    14.0,
		H2:    12.0,
		H3:    11.0,
	}
}

// rankedModeMin is the number of distinct sizes needed to classify by rank.
const rankedModeMin = 3

var (
	// Rank mode excludes numbered, Chapter and Section lines; absolute mode
	// also excludes Part.
	rankedTitleExcludeRe = regexp.MustCompile(`(?i)^(\d+\.|Chapter|Section)`)
	titleExcludeRe       = regexp.MustCompile(`(?i)^(\d+\.|Chapter|Section|Part)`)

	h1Re = regexp.MustCompile(`(?i)^(\d+\.?` + ws + `+|[IVX]+\.?` + ws + `+|Chapter` + ws + `+\d+|Part` + ws + `+[A-Z]|[A-Z\s\p{Zs}]{5,}$)`)
	h2Re = regexp.MustCompile(`(?i)^(\d+\.\d+\.?` + ws + `+|[A-Z]\.?` + ws + `+)`)
	h3Re = regexp.MustCompile(`(?i)^(\d+\.\d+\.\d+\.?` + ws + `+|\([a-z]\)` + ws + `+|\d+\)` + ws + `+)`)
)

func looksLikeTitle(text string) bool {
	return len(strings.Fields(text)) <= 10 && !titleExcludeRe.MatchString(text)
}

func looksLikeRankedTitle(text string) bool {
	return len(strings.Fields(text)) <= 10 && !rankedTitleExcludeRe.MatchString(text)
}

func looksLikeH1(text string) bool { return h1Re.MatchString(text) }
func looksLikeH2(text string) bool { return h2Re.MatchString(text) }
func looksLikeH3(text string) bool { return h3Re.MatchString(text) }

// Classifier assigns TITLE/H1/H2/H3 to accepted candidates.
type Classifier struct {
	th Thresholds
}

func NewClassifier(th Thresholds) Classifier {
	return Classifier{th: th}
}

// Classify returns the level for text at the given size, or LevelNone.
// Checks run in the fixed order TITLE, H1, H2, H3 and the first hit wins,
// even where the size conditions of several levels overlap.
func (c Classifier) Classify(text string, size float64, stats FontStats) doctree.Level {
	text = strings.TrimSpace(text)
	ranks := stats.Ranks

	if len(ranks) >= rankedModeMin {
		if size >= ranks[0] && size >= c.th.Title && looksLikeRankedTitle(text) {
			return doctree.LevelTitle
		}
		if (size >= ranks[1] || size >= c.th.H1) && looksLikeH1(text) {
			return doctree.LevelH1
		}
		if (size >= ranks[2] || size >= c.th.H2) && looksLikeH2(text) {
			return doctree.LevelH2
		}
		if size >= c.th.H3 && looksLikeH3(text) {
			return doctree.LevelH3
		}
		return doctree.LevelNone
	}

	switch {
	case size >= c.th.Title && looksLikeTitle(text):
		return doctree.LevelTitle
	case size >= c.th.H1 && looksLikeH1(text):
		return doctree.LevelH1
	case size >= c.th.H2 && looksLikeH2(text):
		return doctree.LevelH2
	case size >= c.th.H3 && looksLikeH3(text):
		return doctree.LevelH3
	}
	return doctree.LevelNone
}
