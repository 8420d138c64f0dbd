package outline

import (
	"strings"

	"github.com/dgallion1/docoutline/internal/doctree"
)

// PlaceholderTitle is used when neither the outline nor the metadata names
// the document. A metadata title equal to it counts as absent.
const PlaceholderTitle = "Document"

var tocLevels = map[int]doctree.Level{
	1: doctree.LevelH1,
	2: doctree.LevelH2,
	3: doctree.LevelH3,
}

// NormalizeTOC converts an embedded outline into an Outline. The first
// non-empty level-1 entry becomes the title; entries deeper than level 3
// are dropped.
func NormalizeTOC(entries []doctree.TocEntry, metadataTitle string) doctree.Outline {
	headings := make([]doctree.Heading, 0, len(entries))
	title := ""

	for _, e := range entries {
		level, ok := tocLevels[e.Level]
		if !ok {
			continue
		}
		text := strings.TrimSpace(e.Text)
		if text == "" {
			continue
		}
		if title == "" && e.Level == 1 {
			title = text
			continue
		}
		headings = append(headings, doctree.Heading{Level: level, Text: text, Page: e.Page})
	}

	if title == "" {
		title = strings.TrimSpace(metadataTitle)
		if title == "" || title == PlaceholderTitle {
			title = ""
			if len(headings) > 0 && headings[0].Level == doctree.LevelH1 {
				title = headings[0].Text
				headings = headings[1:]
			}
		}
	}
	if title == "" {
		title = PlaceholderTitle
	}

	return doctree.Outline{Title: title, Headings: headings}
}
