package outline

import "regexp"

// Pattern is a named matcher for one heading-like textual shape.
// Matching is case-insensitive and anchored to the full text.
type Pattern struct {
	Name string
	re   *regexp.Regexp
}

// Match reports whether the pattern accepts text.
func (p Pattern) Match(text string) bool {
	return p.re.MatchString(text)
}

func newPattern(name, expr string) Pattern {
	return Pattern{Name: name, re: regexp.MustCompile(`(?i)^` + expr + `$`)}
}

// ws matches ASCII whitespace plus Unicode space separators such as the
// no-break space common in extracted PDF text.
const ws = `[\s\p{Zs}]`

// numberingCount is how many leading entries of Patterns form the
// numbering group that may end in punctuation.
const numberingCount = 6

// Patterns is the ordered pattern library. The first numberingCount
// entries are the numbering group.
var Patterns = []Pattern{
	newPattern("numbered", `\d+\.?`+ws+`+[A-Z][^.!?]*`),
	newPattern("numbered-2", `\d+\.\d+\.?`+ws+`+[A-Z][^.!?]*`),
	newPattern("numbered-3", `\d+\.\d+\.\d+\.?`+ws+`+[A-Z][^.!?]*`),
	newPattern("roman", `[IVX]+\.?`+ws+`+[A-Z][^.!?]*`),
	newPattern("lettered", `[A-Z]\.?`+ws+`+[A-Z][^.!?]*`),
	newPattern("chapter", `Chapter`+ws+`+\d+[:\s\p{Zs}]+[A-Z][^.!?]*`),
	newPattern("section", `Section`+ws+`+\d+[:\s\p{Zs}]+[A-Z][^.!?]*`),
	newPattern("all-caps", `[A-Z\s\p{Zs}]{3,30}`),
	newPattern("title-case", `[A-Z][a-z]+(?:`+ws+`+[A-Z][a-z]+)*(?:`+ws+`+[a-z]+)*`),
}

// MatchAny reports whether any pattern in the library accepts text.
func MatchAny(text string) bool {
	return matchIn(Patterns, text)
}

// MatchNumbering reports whether one of the numbering patterns accepts text.
func MatchNumbering(text string) bool {
	return matchIn(Patterns[:numberingCount], text)
}

func matchIn(patterns []Pattern, text string) bool {
	for _, p := range patterns {
		if p.Match(text) {
			return true
		}
	}
	return false
}
